package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/catalog"
)

const searchResultLimit = 10

// Catalog is the slice of the product domain the agents depend on.
type Catalog interface {
	SearchProducts(ctx context.Context, term string, limit int) ([]*catalog.Product, error)
	GetProduct(ctx context.Context, publicID uuid.UUID) (*catalog.Product, error)
	FindRecommendationCandidates(ctx context.Context, query catalog.CandidateQuery) ([]*catalog.Product, error)
}

// ProductAgent answers product questions by combining model responses with
// live catalog lookups.
type ProductAgent struct {
	chat    *ChatAgent
	catalog Catalog
	logger  zerolog.Logger
	stats   statsTracker
}

var _ Agent = (*ProductAgent)(nil)

func NewProductAgent(chat *ChatAgent, cat Catalog, logger zerolog.Logger) *ProductAgent {
	return &ProductAgent{
		chat:    chat,
		catalog: cat,
		logger:  logger.With().Str("agent", "product_agent").Logger(),
	}
}

func (a *ProductAgent) Name() string {
	return "product_agent"
}

func (a *ProductAgent) Process(ctx context.Context, req *AIRequest) *AIResponse {
	conversationID := conversationID(a.Name(), req)
	if err := a.chat.validate(req); err != nil {
		a.stats.record(true, 0, 0)
		return errorResponse(conversationID, err.Error(), req.InteractionType.Normalize())
	}

	var resp *AIResponse
	switch req.InteractionType.Normalize() {
	case InteractionProductSearch:
		resp = a.handleSearch(ctx, req, conversationID)
	case InteractionProductDetails:
		resp = a.handleDetails(ctx, req, conversationID)
	default:
		resp = a.handleGeneralQuery(ctx, req, conversationID)
	}
	a.stats.record(resp.Confidence == 0, resp.TokensUsed, resp.ProcessingTime)
	return resp
}

func (a *ProductAgent) handleSearch(ctx context.Context, req *AIRequest, conversationID string) *AIResponse {
	startedAt := time.Now()

	searchPrompt := fmt.Sprintf(`Help me search for products based on: "%s"

As a luxury e-commerce expert, analyze this search query and provide:
1. Interpreted search intent
2. Suggested search terms
3. Product categories that might match
4. Price range considerations
5. Quality and authenticity factors

Be specific and helpful in guiding the search.`, req.Message)

	aiResp := a.chat.Process(ctx, &AIRequest{
		Message:         searchPrompt,
		InteractionType: InteractionProductSearch,
		UserID:          req.UserID,
		ConversationID:  conversationID,
	})
	if meta, ok := aiResp.Metadata["error"].(bool); ok && meta {
		return aiResp
	}

	products, err := a.catalog.SearchProducts(ctx, req.Message, searchResultLimit)
	if err != nil {
		a.logger.Error().Err(err).Str("query", req.Message).Msg("catalog search failed")
		products = nil
	}

	var sb strings.Builder
	sb.WriteString(aiResp.Message)
	sb.WriteString("\n\n")
	if len(products) > 0 {
		fmt.Fprintf(&sb, "Found %d matching products:\n", len(products))
		for i, product := range products {
			if i == 3 {
				break
			}
			fmt.Fprintf(&sb, "%d. %s - $%s\n", i+1, product.Name, product.Price.String())
		}
	} else {
		sb.WriteString("No products found matching your search criteria.")
	}

	return &AIResponse{
		Message:         sb.String(),
		InteractionType: req.InteractionType,
		ConversationID:  conversationID,
		Confidence:      aiResp.Confidence,
		ProcessingTime:  time.Since(startedAt).Seconds(),
		ModelUsed:       "groq+database",
		TokensUsed:      aiResp.TokensUsed,
		Metadata: map[string]any{
			"products_found": len(products),
			"search_query":   req.Message,
			"groq_tokens":    aiResp.TokensUsed,
		},
	}
}

func (a *ProductAgent) handleDetails(ctx context.Context, req *AIRequest, conversationID string) *AIResponse {
	if productID, ok := extractProductID(req.Message); ok {
		product, err := a.catalog.GetProduct(ctx, productID)
		if err == nil && product != nil {
			return a.detailsResponse(ctx, product, req, conversationID)
		}
		if err != nil {
			a.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("product lookup failed, falling back to model guidance")
		}
	}

	detailPrompt := fmt.Sprintf(`Help with product details for: "%s"

As a luxury e-commerce expert, provide guidance on:
1. What specific product information they might need
2. How to find detailed specifications
3. Questions to ask about luxury products
4. Authentication and quality factors

Be helpful and informative.`, req.Message)

	aiResp := a.chat.Process(ctx, &AIRequest{
		Message:         detailPrompt,
		InteractionType: InteractionProductDetails,
		UserID:          req.UserID,
		ConversationID:  conversationID,
	})
	if meta, ok := aiResp.Metadata["error"].(bool); ok && meta {
		return aiResp
	}

	return &AIResponse{
		Message:         aiResp.Message,
		InteractionType: req.InteractionType,
		ConversationID:  conversationID,
		Confidence:      aiResp.Confidence,
		ModelUsed:       "groq",
		TokensUsed:      aiResp.TokensUsed,
		Metadata:        map[string]any{"groq_tokens": aiResp.TokensUsed},
	}
}

func (a *ProductAgent) detailsResponse(ctx context.Context, product *catalog.Product, req *AIRequest, conversationID string) *AIResponse {
	categoryName := ""
	if product.Category != nil {
		categoryName = product.Category.Name
	}
	condition := ""
	if product.Condition != nil {
		condition = string(*product.Condition)
	}
	summary := a.chat.GenerateProductSummary(ctx, ProductSummaryInput{
		Name:      product.Name,
		Brand:     matchLuxuryBrand(a.chat.personas.LuxuryBrands, product),
		Category:  categoryName,
		Price:     product.Price.String(),
		Condition: condition,
	})

	return &AIResponse{
		Message:         summary,
		InteractionType: req.InteractionType,
		ConversationID:  conversationID,
		Confidence:      0.9,
		ModelUsed:       "groq+database",
		Metadata: map[string]any{
			"product_id":    product.PublicID.String(),
			"product_name":  product.Name,
			"product_price": product.Price.String(),
		},
	}
}

func (a *ProductAgent) handleGeneralQuery(ctx context.Context, req *AIRequest, conversationID string) *AIResponse {
	generalPrompt := fmt.Sprintf(`Answer this product-related question: "%s"

As ADOGENT's product expert, provide helpful information about:
- Product categories and types
- Luxury brand knowledge
- Quality and authenticity guidance
- Shopping advice and tips
- General product information

Be conversational, helpful, and knowledgeable.`, req.Message)

	aiResp := a.chat.Process(ctx, &AIRequest{
		Message:         generalPrompt,
		InteractionType: InteractionGeneralChat,
		UserID:          req.UserID,
		ConversationID:  conversationID,
	})
	if meta, ok := aiResp.Metadata["error"].(bool); ok && meta {
		return aiResp
	}

	return &AIResponse{
		Message:         aiResp.Message,
		InteractionType: req.InteractionType,
		ConversationID:  conversationID,
		Confidence:      aiResp.Confidence,
		ModelUsed:       "groq",
		TokensUsed:      aiResp.TokensUsed,
		Metadata:        map[string]any{"groq_tokens": aiResp.TokensUsed},
	}
}

// Health combines the model backend probe with a lightweight catalog read.
func (a *ProductAgent) Health(ctx context.Context) *HealthStatus {
	modelHealth := a.chat.Health(ctx)

	databaseStatus := "healthy"
	if _, err := a.catalog.SearchProducts(ctx, "", 1); err != nil {
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

func (a *ProductAgent) Stats() Stats {
	st := a.stats.snapshot(a.Name(), a.chat.store.ActiveConversations())
	return st
}

func (a *ProductAgent) ClearConversation(conversationID string) bool {
	return a.chat.ClearConversation(conversationID)
}
