package analytics

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/internal/repo"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
)

// Repository loads the snapshots the profit calculator consumes. Reads only.
type Repository interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.Item, error)
	ListExpenses(ctx context.Context, userID uuid.UUID) ([]models.Expense, error)
	FindItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error)
	FindPallet(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error)
	CountPalletItems(ctx context.Context, palletID uuid.UUID) (int, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository returns an analytics repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
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

func (r *repositoryImpl) ListExpenses(ctx context.Context, userID uuid.UUID) ([]models.Expense, error) {
	var rows []models.Expense
	if err := r.DB(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) FindItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB(ctx).
		First(&item, "id = ? AND user_id = ?", itemID, userID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) FindPallet(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error) {
	var pallet models.Pallet
	if err := r.DB(ctx).
		First(&pallet, "id = ? AND user_id = ?", palletID, userID).Error; err != nil {
		return nil, err
	}
	return &pallet, nil
}

func (r *repositoryImpl) CountPalletItems(ctx context.Context, palletID uuid.UUID) (int, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.Item{}).
		Where("pallet_id = ?", palletID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
