package user

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/miracle078/adogent/internal/utils/idgen"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	maxFailedLoginAttempts = 5
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthConfig carries signing material and lifetimes for token issuance.
type AuthConfig struct {
	Secret          []byte
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
	Issuer          string
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName *string
	LastName  *string
}

// Service implements registration, login, and token lifecycle.
type Service struct {
	repo     Repository
	sessions SessionRepository
	auth     AuthConfig
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository, sessions SessionRepository, auth AuthConfig) *Service {
	return &Service{repo: repo, sessions: sessions, auth: auth}
}

// Register creates a new customer account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if email == "" || username == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"email and username are required", nil, "3d9b5e72-41a8-4c06-b3f5-8e20d7c1a964")
	}
	if len(input.Password) < 8 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"password must be at least 8 characters", nil, "c85f2a04-7d31-4e69-a0b8-49d6e3f7c215")
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"email is already registered", nil, "6a1d8f30-92e5-4b7c-8d14-f05b3c6e9a27")
	}
	if existing, err := s.repo.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"username is already taken", nil, "f27c4b98-0e56-4d13-a9b2-7c8d1e3f5046")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "unable to hash password")
	}

	now := time.Now().UTC()
	account := &User{
		PublicID:             uuid.New(),
		Email:                email,
		Username:             username,
		PasswordHash:         string(hash),
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		Role:                 RoleCustomer,
		Status:               StatusActive,
		PreferredLanguage:    "en",
		PreferredCurrency:    "USD",
		AIInteractionStyle:   "friendly",
		AllowPersonalization: true,
		PasswordChangedAt:    now,
	}

	return s.repo.Create(ctx, account)
}

// Login verifies credentials and issues a token pair. Failed attempts are
// counted; accounts lock after too many consecutive failures.
func (s *Service) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*User, *TokenPair, error) {
	account, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, s.invalidCredentials(ctx)
	}

	if account.Status == StatusSuspended {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"account is suspended", nil, "b49e7d12-5c80-4f36-92a1-e3d6f8c0b574")
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		account.FailedLoginAttempts++
		if account.FailedLoginAttempts >= maxFailedLoginAttempts {
			account.Status = StatusSuspended
		}
		if _, updateErr := s.repo.Update(ctx, account); updateErr != nil {
			return nil, nil, updateErr
		}
		return nil, nil, s.invalidCredentials(ctx)
	}

	now := time.Now().UTC()
	account.FailedLoginAttempts = 0
	account.LastLogin = &now
	if account, err = s.repo.Update(ctx, account); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, account, ipAddress, userAgent)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair, revoking the
// session it came from.
func (s *Service) Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*TokenPair, error) {
	claims, err := s.ParseToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"token is not a refresh token", nil, "e0c3a851-79f4-4d28-b6e5-12a8d4f7c930")
	}

	session, err := s.sessions.FindByTokenHash(ctx, idgen.HashKey256(refreshToken, s.auth.Secret))
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsRevoked || session.Expired(time.Now().UTC()) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExpired,
			"refresh session is no longer valid", nil, "74b8f1e6-3a05-4c92-8d67-f9e2c5a0d318")
	}

	publicID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "malformed token subject")
	}
	account, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Status != StatusActive {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"account is not active", nil, "5d2c9e47-8b13-4a60-97f8-c1e4d6a2b085")
	}

	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, account, ipAddress, userAgent)
}

// Logout revokes every refresh session for the user.
func (s *Service) Logout(ctx context.Context, publicID uuid.UUID) error {
	account, err := s.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	return s.sessions.RevokeAllForUser(ctx, account.ID)
}

// GetByPublicID loads a user by public identifier.
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*User, error) {
	account, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"user not found", nil, "912e6f04-a7c5-4b38-8d21-0f5e9c3a7d46")
	}
	return account, nil
}

// UpdateProfile applies profile changes and persists the user.
func (s *Service) UpdateProfile(ctx context.Context, publicID uuid.UUID, apply func(*User) error) (*User, error) {
	account, err := s.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := apply(account); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, account)
}

// ParseToken validates the signature and expiry of a token and returns its
// claims.
func (s *Service) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.auth.Secret, nil
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"invalid or expired token", err, "08f7d2b5-c961-4e34-a8d0-6b3f1e9c5a72")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"invalid token claims", nil, "1c6a9e83-4f20-4d57-b9e6-d72c0f8a3b15")
	}
	return claims, nil
}

func (s *Service) issueTokens(ctx context.Context, account *User, ipAddress, userAgent string) (*TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(s.auth.AccessLifetime)
	refreshExp := now.Add(s.auth.RefreshLifetime)

	access, err := s.signToken(account, TokenTypeAccess, now, accessExp)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "unable to sign access token")
	}
	refresh, err := s.signToken(account, TokenTypeRefresh, now, refreshExp)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "unable to sign refresh token")
	}

	session := &Session{
		PublicID:         uuid.New(),
		UserID:           account.ID,
		RefreshTokenHash: idgen.HashKey256(refresh, s.auth.Secret),
		ExpiresAt:        refreshExp,
	}
	if ipAddress != "" {
		session.IPAddress = &ipAddress
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}
	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
	}, nil
}

func (s *Service) signToken(account *User, tokenType string, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Role:      string(account.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.PublicID.String(),
			Issuer:    s.auth.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.auth.Secret)
}

func (s *Service) invalidCredentials(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
		"invalid email or password", nil, "ad50c1f9-62e7-4b84-93d5-e8f0a2c6b731")
}
