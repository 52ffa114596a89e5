package agent

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
)

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func newTestRecommendationAgent(cat Catalog, limit int) *RecommendationAgent {
	chat := newTestChatAgent("recommendation_agent", newFakeBackend("Here are my suggestions."), 0.85)
	return NewRecommendationAgent(chat, cat, limit, zerolog.Nop())
}

func TestRecommendationConfidenceScoring(t *testing.T) {
	agent := newTestRecommendationAgent(&fakeCatalog{}, 5)

	tests := []struct {
		name    string
		product *catalog.Product
		request *RecommendationRequest
		want    float64
	}{
		{
			name:    "base only",
			product: testProduct("Plain item", 500, withQuantity(0)),
			request: &RecommendationRequest{},
			want:    0.6,
		},
		{
			name:    "in stock",
			product: testProduct("Stocked item", 500),
			request: &RecommendationRequest{},
			want:    0.7,
		},
		{
			name:    "every bonus stacks to the cap",
			product: testProduct("Chanel Flap Bag", 1500, withFeatured(), withCategory("Handbags")),
			request: &RecommendationRequest{
				PriceRange:          &PriceRange{Min: decimalPtr(1000), Max: decimalPtr(2000)},
				CategoryPreferences: []string{"Handbags"},
			},
			want: 1.0,
		},
		{
			name:    "price out of range earns no bonus",
			product: testProduct("Expensive item", 5000),
			request: &RecommendationRequest{
				PriceRange: &PriceRange{Min: decimalPtr(100), Max: decimalPtr(1000)},
			},
			want: 0.7,
		},
		{
			name:    "category mismatch earns no bonus",
			product: testProduct("Watch", 500, withCategory("Watches")),
			request: &RecommendationRequest{CategoryPreferences: []string{"Handbags"}},
			want:    0.7,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := agent.confidence(tc.product, tc.request)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("confidence = %v, want %v", got, tc.want)
			}
			if got > 1.0 {
				t.Errorf("confidence %v exceeds 1.0", got)
			}
		})
	}
}

func TestRecommendationReason(t *testing.T) {
	agent := newTestRecommendationAgent(&fakeCatalog{}, 5)

	tests := []struct {
		name    string
		product *catalog.Product
		want    string
	}{
		{
			name:    "featured with category keeps first two reasons",
			product: testProduct("Bag", 1500, withFeatured(), withCategory("Handbags"), withQuantity(3)),
			want:    "Featured luxury item, Premium handbags - Perfect for luxury lifestyle",
		},
		{
			name:    "no attributes falls back to style reason",
			product: testProduct("Plain", 500),
			want:    "Matches sophisticated taste",
		},
		{
			name:    "investment piece style",
			product: testProduct("Rare piece", 2500),
			want:    "High-end luxury piece - Excellent investment piece",
		},
		{
			name:    "bag category style",
			product: testProduct("Tote", 800, withCategory("Tote Bags")),
			want:    "Premium tote bags - Timeless design and quality",
		},
		{
			name:    "limited availability",
			product: testProduct("Scarce", 500, withQuantity(2)),
			want:    "Limited availability - Matches sophisticated taste",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := agent.reason(tc.product); got != tc.want {
				t.Errorf("reason = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMatchLuxuryBrand(t *testing.T) {
	brands := []string{"Chanel", "Hermès", "Gucci"}

	desc := "An authentic GUCCI piece"
	p := testProduct("Leather belt", 400)
	p.Description = &desc
	if got := matchLuxuryBrand(brands, p); got != "Gucci" {
		t.Errorf("expected Gucci from description, got %q", got)
	}

	p2 := testProduct("Chanel Classic Flap", 8000)
	if got := matchLuxuryBrand(brands, p2); got != "Chanel" {
		t.Errorf("expected Chanel from name, got %q", got)
	}

	p3 := testProduct("Unbranded tote", 100)
	if got := matchLuxuryBrand(brands, p3); got != "" {
		t.Errorf("expected no brand, got %q", got)
	}
}

func TestRecommendLimitsAndSorts(t *testing.T) {
	// Featured candidates score 0.8, plain ones 0.7. Fetch order is newest
	// first, and ties must keep that order.
	cat := &fakeCatalog{candidates: []*catalog.Product{
		testProduct("plain-1", 500),
		testProduct("featured-1", 500, withFeatured()),
		testProduct("plain-2", 500),
		testProduct("featured-2", 500, withFeatured()),
	}}
	agent := newTestRecommendationAgent(cat, 3)

	served := metrics.RecommendationsTotal.WithLabelValues("ai_assisted_filtering")
	servedBefore := testutil.ToFloat64(served)

	resp := agent.Recommend(context.Background(), &RecommendationRequest{
		AIRequest: AIRequest{Message: "something nice"},
	})

	if resp.RecommendationStrategy != "ai_assisted_filtering" {
		t.Fatalf("unexpected strategy %q", resp.RecommendationStrategy)
	}
	if got := testutil.ToFloat64(served); got != servedBefore+3 {
		t.Errorf("expected recommendations counter to grow by 3, got %v -> %v", servedBefore, got)
	}
	if resp.TotalProductsConsidered != 4 {
		t.Errorf("expected 4 considered, got %d", resp.TotalProductsConsidered)
	}
	if len(resp.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(resp.Recommendations))
	}

	got := []string{
		resp.Recommendations[0].ProductName,
		resp.Recommendations[1].ProductName,
		resp.Recommendations[2].ProductName,
	}
	want := []string{"featured-1", "plain-1", "plain-2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q (full order %v)", i, got[i], want[i], got)
		}
	}
}

func TestRecommendFetchesTripleLimit(t *testing.T) {
	cat := &fakeCatalog{}
	agent := newTestRecommendationAgent(cat, 5)

	agent.Recommend(context.Background(), &RecommendationRequest{
		AIRequest: AIRequest{Message: "anything"},
	})

	if cat.lastCandidateQuery.Limit != 15 {
		t.Errorf("expected candidate limit 15, got %d", cat.lastCandidateQuery.Limit)
	}
}

func TestRecommendErrorFallback(t *testing.T) {
	cat := &fakeCatalog{err: errUpstream}
	agent := newTestRecommendationAgent(cat, 5)

	resp := agent.Recommend(context.Background(), &RecommendationRequest{
		AIRequest: AIRequest{Message: "anything"},
	})

	if resp.RecommendationStrategy != "error_fallback" {
		t.Fatalf("unexpected strategy %q", resp.RecommendationStrategy)
	}
	if resp.Confidence != 0 || len(resp.Recommendations) != 0 || resp.TotalProductsConsidered != 0 {
		t.Errorf("error fallback must be empty: %+v", resp)
	}
	if !strings.HasPrefix(resp.Message, "I apologize, but I encountered an error while generating recommendations:") {
		t.Errorf("unexpected error message: %q", resp.Message)
	}
}

func TestRecommendValidation(t *testing.T) {
	cat := &fakeCatalog{}
	agent := newTestRecommendationAgent(cat, 5)

	resp := agent.Recommend(context.Background(), &RecommendationRequest{
		AIRequest: AIRequest{Message: ""},
	})

	if resp.RecommendationStrategy != "error_fallback" {
		t.Errorf("expected error_fallback for empty message, got %q", resp.RecommendationStrategy)
	}
}
