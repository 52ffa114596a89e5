package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/miracle078/adogent/internal/config"
	"github.com/miracle078/adogent/internal/domain/catalog"
)

// fakeBackend records every Generate call and replies with canned content.
type fakeBackend struct {
	mu       sync.Mutex
	calls    [][]openai.ChatCompletionMessage
	response string
	err      error
	model    string
}

func newFakeBackend(response string) *fakeBackend {
	return &fakeBackend{response: response, model: "test-model"}
}

func (b *fakeBackend) Generate(_ context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, messages)
	if b.err != nil {
		return "", b.err
	}
	return b.response, nil
}

func (b *fakeBackend) Model() string { return b.model }

func (b *fakeBackend) Provider() string { return "test" }

func (b *fakeBackend) Ping(context.Context) error { return b.err }

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *fakeBackend) lastCall() []openai.ChatCompletionMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.calls) == 0 {
		return nil
	}
	return b.calls[len(b.calls)-1]
}

// fakeCatalog serves canned products for search and candidate queries.
type fakeCatalog struct {
	searchResults []*catalog.Product
	candidates    []*catalog.Product
	product       *catalog.Product
	err           error

	lastCandidateQuery catalog.CandidateQuery
}

func (c *fakeCatalog) SearchProducts(context.Context, string, int) ([]*catalog.Product, error) {
	return c.searchResults, c.err
}

func (c *fakeCatalog) GetProduct(context.Context, uuid.UUID) (*catalog.Product, error) {
	return c.product, c.err
}

func (c *fakeCatalog) FindRecommendationCandidates(_ context.Context, query catalog.CandidateQuery) ([]*catalog.Product, error) {
	c.lastCandidateQuery = query
	if c.err != nil {
		return nil, c.err
	}
	return c.candidates, nil
}

func newTestChatAgent(name string, backend ChatBackend, confidence float64) *ChatAgent {
	store := NewStore(10, true)
	return NewChatAgent(name, backend, store, config.DefaultPersonaConfig(), 4000, confidence, zerolog.Nop())
}

func testProduct(name string, price int64, opts ...func(*catalog.Product)) *catalog.Product {
	p := &catalog.Product{
		PublicID: uuid.New(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Quantity: 10,
		Status:   catalog.ProductStatusActive,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func withCategory(name string) func(*catalog.Product) {
	return func(p *catalog.Product) {
		p.Category = &catalog.Category{Name: name}
	}
}

func withFeatured() func(*catalog.Product) {
	return func(p *catalog.Product) { p.IsFeatured = true }
}

func withQuantity(q int) func(*catalog.Product) {
	return func(p *catalog.Product) { p.Quantity = q }
}

var errUpstream = errors.New("upstream unavailable")
