package insights

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/internal/repo"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
)

// Repository loads the per-user snapshot the feed is generated from.
type Repository interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListPallets(ctx context.Context, userID uuid.UUID) ([]models.Pallet, error)
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.Item, error)
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository returns an insights repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repositoryImpl) ListPallets(ctx context.Context, userID uuid.UUID) ([]models.Pallet, error) {
	var rows []models.Pallet
	if err := r.DB(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListItems(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	var rows []models.Item
	if err := r.DB(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.DB(ctx).
		Model(&models.User{}).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
