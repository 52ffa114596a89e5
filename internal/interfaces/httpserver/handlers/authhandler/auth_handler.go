// Package authhandler exposes registration, login, and profile endpoints.
package authhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/user"
	"github.com/miracle078/adogent/internal/infrastructure/metrics"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/middlewares"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/requests/authreq"
	"github.com/miracle078/adogent/internal/interfaces/httpserver/responses/authres"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

type AuthHandler struct {
	users  *user.Service
	logger zerolog.Logger
}

func NewAuthHandler(users *user.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger.With().Str("handler", "auth").Logger(),
	}
}

// Register creates an account and issues no tokens; clients log in next.
func (h *AuthHandler) Register(c *gin.Context) {
	var req authreq.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("register", "error").Inc()
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	account, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("register", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.AuthRequestsTotal.WithLabelValues("register", "success").Inc()
	c.JSON(http.StatusCreated, authres.NewAuthResponse(account, nil))
}

// Login verifies credentials and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req authreq.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("login", "error").Inc()
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	account, tokens, err := h.users.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("login", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.AuthRequestsTotal.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, authres.NewAuthResponse(account, tokens))
}

// Refresh exchanges a refresh token for a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req authreq.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("refresh", "error").Inc()
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	tokens, err := h.users.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("refresh", "error").Inc()
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.AuthRequestsTotal.WithLabelValues("refresh", "success").Inc()
	c.JSON(http.StatusOK, authres.NewTokenResponse(tokens))
}

// Logout revokes the authenticated account's refresh tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "authentication required")
		return
	}

	if err := h.users.Logout(c.Request.Context(), principal.UserID); err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	metrics.AuthRequestsTotal.WithLabelValues("logout", "success").Inc()
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

// Me returns the authenticated account's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "authentication required")
		return
	}

	account, err := h.users.GetByPublicID(c.Request.Context(), principal.UserID)
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, authres.NewUserResponse(account))
}

// UpdateProfile applies the supplied profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "authentication required")
		return
	}

	var req authreq.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, "invalid request body")
		return
	}

	account, err := h.users.UpdateProfile(c.Request.Context(), principal.UserID, func(account *user.User) error {
		if req.FirstName != nil {
			account.FirstName = req.FirstName
		}
		if req.LastName != nil {
			account.LastName = req.LastName
		}
		if req.PhoneNumber != nil {
			account.PhoneNumber = req.PhoneNumber
		}
		if req.PreferredLanguage != nil {
			account.PreferredLanguage = *req.PreferredLanguage
		}
		if req.PreferredCurrency != nil {
			account.PreferredCurrency = *req.PreferredCurrency
		}
		if req.AIInteractionStyle != nil {
			account.AIInteractionStyle = *req.AIInteractionStyle
		}
		if req.ShoppingCategories != nil {
			account.ShoppingCategories = req.ShoppingCategories
		}
		if req.PriceRangePreference != nil {
			account.PriceRangePreference = req.PriceRangePreference
		}
		if req.AllowPersonalization != nil {
			account.AllowPersonalization = *req.AllowPersonalization
		}
		if req.MarketingEmails != nil {
			account.AllowMarketingEmails = *req.MarketingEmails
		}
		return nil
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, authres.NewUserResponse(account))
}
