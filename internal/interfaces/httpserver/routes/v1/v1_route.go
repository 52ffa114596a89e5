// Package v1 wires the versioned API surface.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/user"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/aihandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/categoryhandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/imagehandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/handlers/producthandler"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/middlewares"
)

type V1Route struct {
	users    *user.Service
	auth     *authhandler.AuthHandler
	product  *producthandler.ProductHandler
	category *categoryhandler.CategoryHandler
	image    *imagehandler.ImageHandler
	ai       *aihandler.AIHandler
	logger   zerolog.Logger
}

func NewV1Route(
	users *user.Service,
	auth *authhandler.AuthHandler,
	product *producthandler.ProductHandler,
	category *categoryhandler.CategoryHandler,
	image *imagehandler.ImageHandler,
	ai *aihandler.AIHandler,
	logger zerolog.Logger,
) *V1Route {
	return &V1Route{
		users:    users,
		auth:     auth,
		product:  product,
		category: category,
		image:    image,
		ai:       ai,
		logger:   logger,
	}
}

// RegisterRoutes attaches every v1 endpoint to the router group.
func (r *V1Route) RegisterRoutes(rg *gin.RouterGroup) {
	requireAuth := middlewares.AuthMiddleware(r.users, r.logger)
	optionalAuth := middlewares.OptionalAuth(r.users)
	requireAdmin := middlewares.RequireAdmin()

	auth := rg.Group("/auth")
	auth.POST("/register", r.auth.Register)
	auth.POST("/login", r.auth.Login)
	auth.POST("/refresh", r.auth.Refresh)
	auth.POST("/logout", requireAuth, r.auth.Logout)

	users := rg.Group("/users", requireAuth)
	users.GET("/me", r.auth.Me)
	users.PATCH("/me", r.auth.UpdateProfile)

	products := rg.Group("/products")
	products.GET("", r.product.List)
	products.GET("/search", r.product.Search)
	products.GET("/:product_id", r.product.Get)
	products.POST("", requireAuth, requireAdmin, r.product.Create)
	products.PATCH("/:product_id", requireAuth, requireAdmin, r.product.Update)
	products.DELETE("/:product_id", requireAuth, requireAdmin, r.product.Delete)
	products.POST("/:product_id/images", requireAuth, requireAdmin, r.image.Upload)
	products.DELETE("/:product_id/images/:image_id", requireAuth, requireAdmin, r.image.Delete)

	categories := rg.Group("/categories")
	categories.GET("", r.category.List)
	categories.GET("/:category_id", r.category.Get)
	categories.POST("", requireAuth, requireAdmin, r.category.Create)
	categories.PATCH("/:category_id", requireAuth, requireAdmin, r.category.Update)
	categories.DELETE("/:category_id", requireAuth, requireAdmin, r.category.Delete)

	ai := rg.Group("/ai", optionalAuth)
	ai.POST("/chat", r.ai.Chat)
	ai.POST("/recommendations", r.ai.Recommend)
	ai.POST("/analyze-image", r.ai.AnalyzeImage)
	ai.POST("/voice-chat", r.ai.VoiceChat)
	ai.POST("/upload-image", r.ai.UploadImage)
	ai.GET("/conversations/:conversation_id", r.ai.ConversationHistory)
	ai.DELETE("/conversations/:conversation_id", r.ai.ClearConversation)
	ai.GET("/health", r.ai.Health)
	ai.GET("/statistics", requireAuth, r.ai.Statistics)
	ai.GET("/models", r.ai.Models)
}
