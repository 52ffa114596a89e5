// Package authreq defines the request payloads for authentication endpoints.
package authreq

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest is the payload for PATCH /users/me.
type UpdateProfileRequest struct {
	FirstName            *string `json:"first_name"`
	LastName             *string `json:"last_name"`
	PhoneNumber          *string `json:"phone_number"`
	PreferredLanguage    *string `json:"preferred_language"`
	PreferredCurrency    *string `json:"preferred_currency"`
	AIInteractionStyle   *string `json:"ai_interaction_style"`
	ShoppingCategories   *string `json:"shopping_categories"`
	PriceRangePreference *string `json:"price_range_preference"`
	AllowPersonalization *bool   `json:"allow_personalization"`
	MarketingEmails      *bool   `json:"marketing_emails"`
}
