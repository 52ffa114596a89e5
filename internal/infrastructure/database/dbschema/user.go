package dbschema

import (
	"time"

	"github.com/google/uuid"

	"github.com/miracle078/adogent/internal/domain/user"
	"github.com/miracle078/adogent/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
	database.RegisterSchemaForAutoMigrate(UserSession{})
}

// User represents the persisted user schema.
type User struct {
	BaseModel
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Email        string `gorm:"type:varchar(320);not null;uniqueIndex"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`

	FirstName   *string `gorm:"type:varchar(100)"`
	LastName    *string `gorm:"type:varchar(100)"`
	PhoneNumber *string `gorm:"type:varchar(20)"`

	Role   user.Role   `gorm:"type:varchar(20);not null;default:'customer'"`
	Status user.Status `gorm:"type:varchar(20);not null;default:'active';index"`

	PreferredLanguage string `gorm:"type:varchar(10);not null;default:'en'"`
	PreferredCurrency string `gorm:"type:varchar(5);not null;default:'USD'"`

	AIInteractionStyle   string  `gorm:"type:varchar(50);not null;default:'friendly'"`
	ShoppingCategories   *string `gorm:"type:text"`
	PriceRangePreference *string `gorm:"type:varchar(20)"`

	AllowPersonalization bool `gorm:"not null;default:true"`
	AllowMarketingEmails bool `gorm:"not null;default:false"`

	FailedLoginAttempts int `gorm:"not null;default:0"`
	LastLogin           *time.Time
	PasswordChangedAt   time.Time `gorm:"not null"`
}

// UserSession represents the persisted refresh session schema.
type UserSession struct {
	BaseModel
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	UserID uint `gorm:"index;not null"`
	User   User `gorm:"foreignKey:UserID"`

	RefreshTokenHash string `gorm:"type:varchar(64);not null;uniqueIndex"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`

	IsRevoked bool      `gorm:"not null;default:false;index"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
}

// NewSchemaUser converts a domain user into a schema instance.
func NewSchemaUser(u *user.User) *User {
	if u == nil {
		return nil
	}

	return &User{
		BaseModel: BaseModel{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		PublicID:             u.PublicID,
		Email:                u.Email,
		Username:             u.Username,
		PasswordHash:         u.PasswordHash,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		PhoneNumber:          u.PhoneNumber,
		Role:                 u.Role,
		Status:               u.Status,
		PreferredLanguage:    u.PreferredLanguage,
		PreferredCurrency:    u.PreferredCurrency,
		AIInteractionStyle:   u.AIInteractionStyle,
		ShoppingCategories:   u.ShoppingCategories,
		PriceRangePreference: u.PriceRangePreference,
		AllowPersonalization: u.AllowPersonalization,
		AllowMarketingEmails: u.AllowMarketingEmails,
		FailedLoginAttempts:  u.FailedLoginAttempts,
		LastLogin:            u.LastLogin,
		PasswordChangedAt:    u.PasswordChangedAt,
	}
}

// EtoD converts a schema user back to the domain representation.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}

	return &user.User{
		ID:                   u.ID,
		PublicID:             u.PublicID,
		Email:                u.Email,
		Username:             u.Username,
		PasswordHash:         u.PasswordHash,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		PhoneNumber:          u.PhoneNumber,
		Role:                 u.Role,
		Status:               u.Status,
		PreferredLanguage:    u.PreferredLanguage,
		PreferredCurrency:    u.PreferredCurrency,
		AIInteractionStyle:   u.AIInteractionStyle,
		ShoppingCategories:   u.ShoppingCategories,
		PriceRangePreference: u.PriceRangePreference,
		AllowPersonalization: u.AllowPersonalization,
		AllowMarketingEmails: u.AllowMarketingEmails,
		FailedLoginAttempts:  u.FailedLoginAttempts,
		LastLogin:            u.LastLogin,
		PasswordChangedAt:    u.PasswordChangedAt,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

// NewSchemaUserSession converts a domain session into a schema instance.
func NewSchemaUserSession(s *user.Session) *UserSession {
	if s == nil {
		return nil
	}

	return &UserSession{
		BaseModel: BaseModel{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		PublicID:         s.PublicID,
		UserID:           s.UserID,
		RefreshTokenHash: s.RefreshTokenHash,
		IPAddress:        s.IPAddress,
		UserAgent:        s.UserAgent,
		IsRevoked:        s.IsRevoked,
		ExpiresAt:        s.ExpiresAt,
		RevokedAt:        s.RevokedAt,
	}
}

// EtoD converts a schema session back to the domain representation.
func (s *UserSession) EtoD() *user.Session {
	if s == nil {
		return nil
	}

	return &user.Session{
		ID:               s.ID,
		PublicID:         s.PublicID,
		UserID:           s.UserID,
		RefreshTokenHash: s.RefreshTokenHash,
		IPAddress:        s.IPAddress,
		UserAgent:        s.UserAgent,
		IsRevoked:        s.IsRevoked,
		ExpiresAt:        s.ExpiresAt,
		RevokedAt:        s.RevokedAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
