package pallets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// Repository wraps pallet persistence. All lookups are scoped to the owning
// user so a row can never leak across accounts.
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

// Create inserts the pallet.
func (r *Repository) Create(ctx context.Context, pallet *models.Pallet) error {
	return r.db.WithContext(ctx).Create(pallet).Error
}

// FindByID loads a pallet owned by the user, without items.
func (r *Repository) FindByID(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error) {
	var pallet models.Pallet
	if err := r.db.WithContext(ctx).
		First(&pallet, "id = ? AND user_id = ?", palletID, userID).Error; err != nil {
		return nil, err
	}
	return &pallet, nil
}

// FindByIDWithItems loads a pallet and its items.
func (r *Repository) FindByIDWithItems(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error) {
	var pallet models.Pallet
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&pallet, "id = ? AND user_id = ?", palletID, userID).Error; err != nil {
		return nil, err
	}
	return &pallet, nil
}

// ListByUser returns the user's pallets, newest first, optionally filtered
// by status.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, status *enums.PalletStatus) ([]models.Pallet, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Pallet
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the pallet row.
func (r *Repository) Update(ctx context.Context, pallet *models.Pallet) error {
	return r.db.WithContext(ctx).Save(pallet).Error
}

// Delete removes the pallet; items, photos and links go with it via FK
// cascades.
func (r *Repository) Delete(ctx context.Context, userID, palletID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", palletID, userID).
		Delete(&models.Pallet{}).Error
}

// CountItems counts the pallet's items, optionally restricted to one status.
func (r *Repository) CountItems(ctx context.Context, palletID uuid.UUID, status *enums.ItemStatus) (int, error) {
	query := r.db.WithContext(ctx).Model(&models.Item{}).Where("pallet_id = ?", palletID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
