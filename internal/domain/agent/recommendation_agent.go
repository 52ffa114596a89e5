package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/miracle078/adogent/internal/domain/catalog"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
	"github.com/miracle078/adogent/internal/utils/functional"
)

// Confidence scoring weights. The base applies to every candidate; bonuses
// stack and the total is clamped to 1.0.
const (
	baseRecommendationConfidence = 0.6
	priceMatchBonus              = 0.2
	inStockBonus                 = 0.1
	featuredBonus                = 0.1
	categoryMatchBonus           = 0.15
)

const recommendationStrategy = "ai_assisted_filtering"

// RecommendationAgent scores catalog candidates against user preferences and
// pairs them with a model-written narrative.
type RecommendationAgent struct {
	chat    *ChatAgent
	catalog Catalog
	limit   int
	logger  zerolog.Logger
	stats   statsTracker
}

var _ Agent = (*RecommendationAgent)(nil)

func NewRecommendationAgent(chat *ChatAgent, cat Catalog, limit int, logger zerolog.Logger) *RecommendationAgent {
	return &RecommendationAgent{
		chat:    chat,
		catalog: cat,
		limit:   limit,
		logger:  logger.With().Str("agent", "recommendation_agent").Logger(),
	}
}

func (a *RecommendationAgent) Name() string {
	return "recommendation_agent"
}

// Process satisfies Agent for coordinator routing; preference-less requests
// get an empty filter set.
func (a *RecommendationAgent) Process(ctx context.Context, req *AIRequest) *AIResponse {
	resp := a.Recommend(ctx, &RecommendationRequest{AIRequest: *req})
	return &resp.AIResponse
}

// Recommend runs the full pipeline: model narrative, candidate fetch,
// per-candidate scoring, then a stable sort by confidence. The stable sort
// keeps the newest-first fetch order for equal scores, so equal candidates
// rank deterministically.
func (a *RecommendationAgent) Recommend(ctx context.Context, req *RecommendationRequest) *RecommendationResponse {
	conversationID := conversationID(a.Name(), &req.AIRequest)
	if err := a.chat.validate(&req.AIRequest); err != nil {
		a.stats.record(true, 0, 0)
		return a.errorResponse(conversationID, err.Error())
	}

	startedAt := time.Now()

	aiResp := a.chat.Process(ctx, &AIRequest{
		Message:         a.buildPrompt(req),
		InteractionType: InteractionProductRecommendation,
		UserID:          req.UserID,
		ConversationID:  conversationID,
	})
	if meta, ok := aiResp.Metadata["error"].(bool); ok && meta {
		a.stats.record(true, 0, time.Since(startedAt).Seconds())
		return a.errorResponse(conversationID, fmt.Sprint(aiResp.Metadata["error_message"]))
	}

	candidates, err := a.fetchCandidates(ctx, req)
	if err != nil {
		a.logger.Error().Err(err).Msg("candidate fetch failed")
		a.stats.record(true, aiResp.TokensUsed, time.Since(startedAt).Seconds())
		return a.errorResponse(conversationID, err.Error())
	}

	recommendations := a.score(candidates, req)
	processingTime := time.Since(startedAt).Seconds()
	a.stats.record(false, aiResp.TokensUsed, processingTime)
	metrics.RecommendationsTotal.WithLabelValues(recommendationStrategy).Add(float64(len(recommendations)))

	return &RecommendationResponse{
		AIResponse: AIResponse{
			Message:         aiResp.Message,
			InteractionType: InteractionProductRecommendation,
			ConversationID:  conversationID,
			Confidence:      aiResp.Confidence,
			ProcessingTime:  processingTime,
			ModelUsed:       "groq+database",
			TokensUsed:      aiResp.TokensUsed,
			Metadata: map[string]any{
				"groq_tokens":     aiResp.TokensUsed,
				"filters_applied": a.appliedFilters(req),
			},
		},
		Recommendations:         recommendations,
		TotalProductsConsidered: len(candidates),
		RecommendationStrategy:  recommendationStrategy,
	}
}

func (a *RecommendationAgent) buildPrompt(req *RecommendationRequest) string {
	categories := "Open to all luxury categories"
	if len(req.CategoryPreferences) > 0 {
		categories = strings.Join(req.CategoryPreferences, ", ")
	}
	budget := "Flexible budget"
	if req.PriceRange != nil {
		budget = priceRangeLabel(req.PriceRange)
	}
	brands := "Open to all luxury brands"
	if len(req.BrandPreferences) > 0 {
		brands = strings.Join(req.BrandPreferences, ", ")
	}

	return fmt.Sprintf(`As ADOGENT's luxury e-commerce recommendation expert, provide personalized product suggestions for: "%s"

User Context:
- Categories: %s
- Budget: %s
- Brands: %s

Provide:
1. 3-5 specific product recommendations
2. Detailed reasoning for each recommendation
3. Style compatibility analysis
4. Value and quality assessment
5. Occasion suitability

Focus on luxury, authenticity, and personalized matching.`, req.Message, categories, budget, brands)
}

// fetchCandidates pulls three times the response limit of newest active
// products so weak matches can still be outscored.
func (a *RecommendationAgent) fetchCandidates(ctx context.Context, req *RecommendationRequest) ([]*catalog.Product, error) {
	query := catalog.CandidateQuery{
		ExcludePublicIDs: req.ExcludeProducts,
		Limit:            a.limit * 3,
	}
	if req.PriceRange != nil {
		query.MinPrice = req.PriceRange.Min
		query.MaxPrice = req.PriceRange.Max
	}
	return a.catalog.FindRecommendationCandidates(ctx, query)
}

func (a *RecommendationAgent) score(candidates []*catalog.Product, req *RecommendationRequest) []ProductRecommendation {
	recommendations := make([]ProductRecommendation, 0, a.limit)
	for i, product := range candidates {
		if i == a.limit {
			break
		}
		price, _ := product.Price.Float64()
		rec := ProductRecommendation{
			ProductID:   product.PublicID,
			ProductName: product.Name,
			Price:       price,
			Confidence:  a.confidence(product, req),
			Reason:      a.reason(product),
			Brand:       matchLuxuryBrand(a.chat.personas.LuxuryBrands, product),
		}
		if product.Category != nil {
			rec.Category = product.Category.Name
		}
		if img := firstImageURL(product); img != "" {
			rec.ImageURL = img
		}
		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})
	return recommendations
}

func (a *RecommendationAgent) confidence(product *catalog.Product, req *RecommendationRequest) float64 {
	confidence := baseRecommendationConfidence

	if req.PriceRange != nil && priceInRange(product.Price, req.PriceRange) {
		confidence += priceMatchBonus
	}
	if product.Quantity > 0 {
		confidence += inStockBonus
	}
	if product.IsFeatured {
		confidence += featuredBonus
	}
	if product.Category != nil && len(req.CategoryPreferences) > 0 {
		match := functional.Any(req.CategoryPreferences, func(name string) bool {
			return name == product.Category.Name
		})
		if match {
			confidence += categoryMatchBonus
		}
	}

	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

func (a *RecommendationAgent) reason(product *catalog.Product) string {
	var reasons []string
	if product.IsFeatured {
		reasons = append(reasons, "Featured luxury item")
	}
	if product.Category != nil {
		reasons = append(reasons, fmt.Sprintf("Premium %s", strings.ToLower(product.Category.Name)))
	}
	if product.Price.GreaterThan(decimal.NewFromInt(1000)) {
		reasons = append(reasons, "High-end luxury piece")
	}
	if product.Quantity <= 5 {
		reasons = append(reasons, "Limited availability")
	}

	if len(reasons) == 0 {
		return styleReason(product)
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return fmt.Sprintf("%s - %s", strings.Join(reasons, ", "), styleReason(product))
}

func styleReason(product *catalog.Product) string {
	switch {
	case product.IsFeatured:
		return "Perfect for luxury lifestyle"
	case product.Price.GreaterThan(decimal.NewFromInt(2000)):
		return "Excellent investment piece"
	case product.Category != nil && strings.Contains(strings.ToLower(product.Category.Name), "bag"):
		return "Timeless design and quality"
	default:
		return "Matches sophisticated taste"
	}
}

// matchLuxuryBrand finds the first known luxury brand mentioned in the
// product name or description.
func matchLuxuryBrand(brands []string, product *catalog.Product) string {
	description := ""
	if product.Description != nil {
		description = *product.Description
	}
	productText := strings.ToLower(product.Name + " " + description)
	brand, ok := functional.Find(brands, func(b string) bool {
		return strings.Contains(productText, strings.ToLower(b))
	})
	if !ok {
		return ""
	}
	return brand
}

func firstImageURL(product *catalog.Product) string {
	for _, img := range product.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(product.Images) > 0 {
		return product.Images[0].URL
	}
	return ""
}

func priceInRange(price decimal.Decimal, r *PriceRange) bool {
	if r.Min != nil && price.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && price.GreaterThan(*r.Max) {
		return false
	}
	return true
}

func priceRangeLabel(r *PriceRange) string {
	min, max := "0", "unlimited"
	if r.Min != nil {
		min = r.Min.String()
	}
	if r.Max != nil {
		max = r.Max.String()
	}
	return fmt.Sprintf("%s - %s", min, max)
}

func (a *RecommendationAgent) appliedFilters(req *RecommendationRequest) map[string]any {
	filters := map[string]any{}
	if len(req.CategoryPreferences) > 0 {
		filters["categories"] = req.CategoryPreferences
	}
	if req.PriceRange != nil {
		filters["price_range"] = priceRangeLabel(req.PriceRange)
	}
	if len(req.BrandPreferences) > 0 {
		filters["brands"] = req.BrandPreferences
	}
	if len(req.ExcludeProducts) > 0 {
		filters["excluded_products"] = len(req.ExcludeProducts)
	}
	return filters
}

func (a *RecommendationAgent) errorResponse(conversationID, errMessage string) *RecommendationResponse {
	return &RecommendationResponse{
		AIResponse: AIResponse{
			Message:         fmt.Sprintf("I apologize, but I encountered an error while generating recommendations: %s", errMessage),
			InteractionType: InteractionProductRecommendation,
			ConversationID:  conversationID,
			Confidence:      0.0,
			Metadata: map[string]any{
				"error":         true,
				"error_message": errMessage,
			},
		},
		Recommendations:         []ProductRecommendation{},
		TotalProductsConsidered: 0,
		RecommendationStrategy:  "error_fallback",
	}
}

// Health mirrors the product agent probe: model backend plus catalog read.
func (a *RecommendationAgent) Health(ctx context.Context) *HealthStatus {
	modelHealth := a.chat.Health(ctx)

	databaseStatus := "healthy"
	if _, err := a.catalog.FindRecommendationCandidates(ctx, catalog.CandidateQuery{Limit: 1}); err != nil {
		databaseStatus = "unhealthy"
	}

	status := "unhealthy"
	if modelHealth.Status == "healthy" && databaseStatus == "healthy" {
		status = "healthy"
	}
	return &HealthStatus{
		Status:    status,
		Model:     modelHealth.Model,
		Error:     modelHealth.Error,
		LastCheck: time.Now().UTC(),
		Features: map[string]any{
			"groq_status":     modelHealth.Status,
			"database_status": databaseStatus,
		},
	}
}

func (a *RecommendationAgent) Stats() Stats {
	return a.stats.snapshot(a.Name(), a.chat.store.ActiveConversations())
}

func (a *RecommendationAgent) ClearConversation(conversationID string) bool {
	return a.chat.ClearConversation(conversationID)
}
