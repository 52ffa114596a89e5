package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/catalog"
)

func newTestProductAgent(cat Catalog, backend *fakeBackend) *ProductAgent {
	chat := newTestChatAgent("product_agent", backend, 0.85)
	return NewProductAgent(chat, cat, zerolog.Nop())
}

func TestProductSearchFormatsResults(t *testing.T) {
	cat := &fakeCatalog{searchResults: []*catalog.Product{
		testProduct("Silk Scarf", 450),
		testProduct("Leather Wallet", 890),
		testProduct("Cashmere Sweater", 1200),
		testProduct("Fourth Item", 100),
	}}
	agent := newTestProductAgent(cat, newFakeBackend("Here is my analysis."))

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "something elegant",
		InteractionType: InteractionProductSearch,
	})

	if !strings.Contains(resp.Message, "Found 4 matching products:") {
		t.Errorf("result count line missing: %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "1. Silk Scarf - $450") {
		t.Errorf("first result line missing: %q", resp.Message)
	}
	if strings.Contains(resp.Message, "Fourth Item") {
		t.Error("only the top 3 results should be listed")
	}
	if resp.ModelUsed != "groq+database" {
		t.Errorf("expected groq+database, got %q", resp.ModelUsed)
	}
	if count, _ := resp.Metadata["products_found"].(int); count != 4 {
		t.Errorf("expected products_found 4, got %v", resp.Metadata["products_found"])
	}
}

func TestProductSearchNoResults(t *testing.T) {
	agent := newTestProductAgent(&fakeCatalog{}, newFakeBackend("Here is my analysis."))

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "something impossible",
		InteractionType: InteractionProductSearch,
	})

	if !strings.Contains(resp.Message, "No products found matching your search criteria.") {
		t.Errorf("missing empty-result line: %q", resp.Message)
	}
}

func TestProductDetailsByID(t *testing.T) {
	product := testProduct("Kelly 28", 12000, withCategory("Handbags"))
	cat := &fakeCatalog{product: product}
	agent := newTestProductAgent(cat, newFakeBackend("An exquisite handbag."))

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "Tell me about " + product.PublicID.String(),
		InteractionType: InteractionProductDetails,
	})

	if resp.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", resp.Confidence)
	}
	if resp.ModelUsed != "groq+database" {
		t.Errorf("expected groq+database, got %q", resp.ModelUsed)
	}
	if got := resp.Metadata["product_name"]; got != "Kelly 28" {
		t.Errorf("expected product_name metadata, got %v", got)
	}
}

func TestProductDetailsUnknownIDFallsBack(t *testing.T) {
	// No product in the catalog: the agent answers with model guidance.
	agent := newTestProductAgent(&fakeCatalog{}, newFakeBackend("Ask for the serial number."))

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "Tell me about 0a1b2c3d-0000-4000-8000-000000000000",
		InteractionType: InteractionProductDetails,
	})

	if resp.Confidence != 0.85 {
		t.Errorf("expected model confidence, got %v", resp.Confidence)
	}
	if resp.ModelUsed != "groq" {
		t.Errorf("expected groq fallback, got %q", resp.ModelUsed)
	}
}

func TestProductGeneralQuery(t *testing.T) {
	backend := newFakeBackend("Luxury advice.")
	agent := newTestProductAgent(&fakeCatalog{}, backend)

	resp := agent.Process(context.Background(), &AIRequest{
		Message:         "What makes a bag luxury?",
		InteractionType: InteractionProductInquiry,
	})

	if resp.ModelUsed != "groq" {
		t.Errorf("expected groq, got %q", resp.ModelUsed)
	}
	if resp.Message != "Luxury advice." {
		t.Errorf("unexpected message %q", resp.Message)
	}

	messages := backend.lastCall()
	last := messages[len(messages)-1]
	if !strings.Contains(last.Content, "What makes a bag luxury?") {
		t.Errorf("original question missing from prompt: %q", last.Content)
	}
}

func TestProductAgentRejectsInvalidMessage(t *testing.T) {
	backend := newFakeBackend("never used")
	agent := newTestProductAgent(&fakeCatalog{}, backend)

	resp := agent.Process(context.Background(), &AIRequest{Message: ""})

	if backend.callCount() != 0 {
		t.Fatal("invalid request must not reach the backend")
	}
	if resp.Confidence != 0 {
		t.Errorf("expected zero confidence, got %v", resp.Confidence)
	}
}
