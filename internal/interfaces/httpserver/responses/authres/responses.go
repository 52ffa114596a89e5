package authres

import (
	"github.com/miracle078/adogent/internal/domain/user"
)

// UserResponse represents the public view of an account
type UserResponse struct {
	ID                   string  `json:"id"`
	Email                string  `json:"email"`
	Username             string  `json:"username"`
	FirstName            *string `json:"first_name,omitempty"`
	LastName             *string `json:"last_name,omitempty"`
	PhoneNumber          *string `json:"phone_number,omitempty"`
	Role                 string  `json:"role"`
	Status               string  `json:"status"`
	PreferredLanguage    string  `json:"preferred_language"`
	PreferredCurrency    string  `json:"preferred_currency"`
	AIInteractionStyle   string  `json:"ai_interaction_style"`
	ShoppingCategories   *string `json:"shopping_categories,omitempty"`
	PriceRangePreference *string `json:"price_range_preference,omitempty"`
	AllowPersonalization bool    `json:"allow_personalization"`
	AllowMarketingEmails bool    `json:"allow_marketing_emails"`
	LastLogin            *int64  `json:"last_login,omitempty"`
	CreatedAt            int64   `json:"created_at"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    int64  `json:"expires_at"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	User   *UserResponse  `json:"user"`
	Tokens *TokenResponse `json:"tokens,omitempty"`
}

// NewUserResponse creates a response from a domain user
func NewUserResponse(account *user.User) *UserResponse {
	resp := &UserResponse{
		ID:                   account.PublicID.String(),
		Email:                account.Email,
		Username:             account.Username,
		FirstName:            account.FirstName,
		LastName:             account.LastName,
		PhoneNumber:          account.PhoneNumber,
		Role:                 string(account.Role),
		Status:               string(account.Status),
		PreferredLanguage:    account.PreferredLanguage,
		PreferredCurrency:    account.PreferredCurrency,
		AIInteractionStyle:   account.AIInteractionStyle,
		ShoppingCategories:   account.ShoppingCategories,
		PriceRangePreference: account.PriceRangePreference,
		AllowPersonalization: account.AllowPersonalization,
		AllowMarketingEmails: account.AllowMarketingEmails,
		CreatedAt:            account.CreatedAt.Unix(),
	}

	if account.LastLogin != nil {
		lastLogin := account.LastLogin.Unix()
		resp.LastLogin = &lastLogin
	}

	return resp
}

// NewTokenResponse creates a response from an issued token pair
func NewTokenResponse(tokens *user.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    tokens.ExpiresAt.Unix(),
	}
}

// NewAuthResponse bundles the account with its tokens
func NewAuthResponse(account *user.User, tokens *user.TokenPair) *AuthResponse {
	resp := &AuthResponse{User: NewUserResponse(account)}
	if tokens != nil {
		resp.Tokens = NewTokenResponse(tokens)
	}
	return resp
}
