package userrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/miracle078/adogent/internal/domain/user"
	"github.com/miracle078/adogent/internal/infrastructure/database/dbschema"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) user.Repository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) Create(ctx context.Context, usr *user.User) (*user.User, error) {
	entity := dbschema.NewSchemaUser(usr)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
			"89f4e1a2-7c50-4d38-b6e9-03a7d2f5c861",
		)
	}
	return repo.FindByPublicID(ctx, entity.PublicID)
}

func (repo *UserGormRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*user.User, error) {
	return repo.findOne(ctx, "public_id = ?", publicID)
}

func (repo *UserGormRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

func (repo *UserGormRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return repo.findOne(ctx, "username = ?", username)
}

func (repo *UserGormRepository) Update(ctx context.Context, usr *user.User) (*user.User, error) {
	entity := dbschema.NewSchemaUser(usr)
	if err := repo.db.WithContext(ctx).
		Model(&dbschema.User{}).
		Where("id = ?", entity.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update user",
			err,
			"f17d0c84-3e69-4b25-a8d1-6c904e2f7b53",
		)
	}
	return repo.FindByPublicID(ctx, usr.PublicID)
}

func (repo *UserGormRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.WithContext(ctx).
		Where(query, arg).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user",
			err,
			"2c6a8f50-e193-4d72-b0c4-85f1d7e3a926",
		)
	}
	return entity.EtoD(), nil
}

// SessionGormRepository persists refresh sessions.
type SessionGormRepository struct {
	db *gorm.DB
}

var _ user.SessionRepository = (*SessionGormRepository)(nil)

func NewSessionGormRepository(db *gorm.DB) user.SessionRepository {
	return &SessionGormRepository{db: db}
}

func (repo *SessionGormRepository) Create(ctx context.Context, session *user.Session) (*user.Session, error) {
	entity := dbschema.NewSchemaUserSession(session)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create session",
			err,
			"a0e5d2c7-48f1-4b96-83d0-b2c6f9e7a154",
		)
	}
	return entity.EtoD(), nil
}

func (repo *SessionGormRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*user.Session, error) {
	var entity dbschema.UserSession
	err := repo.db.WithContext(ctx).
		Where("refresh_token_hash = ?", tokenHash).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find session by token hash",
			err,
			"63b9f0d5-17e4-4a28-95c3-d8f2a1e6c470",
		)
	}
	return entity.EtoD(), nil
}

func (repo *SessionGormRepository) Revoke(ctx context.Context, sessionID uint) error {
	now := time.Now().UTC()
	if err := repo.db.WithContext(ctx).
		Model(&dbschema.UserSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to revoke session",
			err,
			"0d47c8b2-9e61-4f35-a7d8-31f5e0c2b986",
		)
	}
	return nil
}

func (repo *SessionGormRepository) RevokeAllForUser(ctx context.Context, userID uint) error {
	now := time.Now().UTC()
	if err := repo.db.WithContext(ctx).
		Model(&dbschema.UserSession{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to revoke user sessions",
			err,
			"e8a1d6f3-52c0-4b79-8e14-c7d9f2a0b365",
		)
	}
	return nil
}
