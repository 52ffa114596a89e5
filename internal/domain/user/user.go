// Package user provides account, session, and authentication domain logic.
package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role classifies account privileges.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// Status is the account lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

// User models a storefront account.
type User struct {
	ID       uint
	PublicID uuid.UUID

	Email        string
	Username     string
	PasswordHash string

	FirstName   *string
	LastName    *string
	PhoneNumber *string

	Role   Role
	Status Status

	PreferredLanguage string
	PreferredCurrency string

	// AI personalization
	AIInteractionStyle   string
	ShoppingCategories   *string
	PriceRangePreference *string

	AllowPersonalization bool
	AllowMarketingEmails bool

	FailedLoginAttempts int
	LastLogin           *time.Time
	PasswordChangedAt   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the account has admin privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session tracks an issued refresh token. Only the HMAC of the token is
// stored; the plaintext never touches the database.
type Session struct {
	ID       uint
	PublicID uuid.UUID

	UserID           uint
	RefreshTokenHash string

	IPAddress *string
	UserAgent *string

	IsRevoked bool
	ExpiresAt time.Time
	RevokedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Repository defines storage operations for users.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

// SessionRepository defines storage operations for refresh sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) (*Session, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Revoke(ctx context.Context, sessionID uint) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}
