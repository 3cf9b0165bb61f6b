package tiers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// Repository loads the usage counts the limit engine compares against.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindUser loads the user row carrying the subscription tier.
func (r *Repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountActivePallets counts pallets that have not been completed.
func (r *Repository) CountActivePallets(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.countPallets(ctx, userID, false)
}

// CountArchivedPallets counts completed pallets.
func (r *Repository) CountArchivedPallets(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.countPallets(ctx, userID, true)
}

func (r *Repository) countPallets(ctx context.Context, userID uuid.UUID, completed bool) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Pallet{}).Where("user_id = ?", userID)
	if completed {
		query = query.Where("status = ?", enums.PalletStatusCompleted)
	} else {
		query = query.Where("status <> ?", enums.PalletStatusCompleted)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountActiveItems counts unlisted and listed items.
func (r *Repository) CountActiveItems(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.countItems(ctx, userID, false)
}

// CountArchivedItems counts sold items.
func (r *Repository) CountArchivedItems(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.countItems(ctx, userID, true)
}

func (r *Repository) countItems(ctx context.Context, userID uuid.UUID, sold bool) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Item{}).Where("user_id = ?", userID)
	if sold {
		query = query.Where("status = ?", enums.ItemStatusSold)
	} else {
		query = query.Where("status <> ?", enums.ItemStatusSold)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
