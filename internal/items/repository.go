package items

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// Repository exposes item persistence plus the pallet touch points the item
// lifecycle needs (status flips, sibling counts).
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error)
	List(ctx context.Context, query ListQuery) ([]models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	FindPallet(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error)
	UpdatePallet(ctx context.Context, pallet *models.Pallet) error
	PalletsByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Pallet, error)
	CountByPallet(ctx context.Context, palletIDs []uuid.UUID) (map[uuid.UUID]int, error)
	ArchivePhotos(ctx context.Context, itemID uuid.UUID, now time.Time) error
}

// ListQuery filters the item listing.
type ListQuery struct {
	UserID   uuid.UUID
	Status   *enums.ItemStatus
	PalletID *uuid.UUID
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an item repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&item, "id = ? AND user_id = ?", itemID, userID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) List(ctx context.Context, query ListQuery) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", query.UserID)
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.PalletID != nil {
		q = q.Where("pallet_id = ?", *query.PalletID)
	}

	var rows []models.Item
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.Item{}).Error
}

func (r *repositoryImpl) FindPallet(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error) {
	var pallet models.Pallet
	if err := r.db.WithContext(ctx).
		First(&pallet, "id = ? AND user_id = ?", palletID, userID).Error; err != nil {
		return nil, err
	}
	return &pallet, nil
}

func (r *repositoryImpl) UpdatePallet(ctx context.Context, pallet *models.Pallet) error {
	return r.db.WithContext(ctx).Save(pallet).Error
}

func (r *repositoryImpl) PalletsByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Pallet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Pallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByPallet returns live item counts for the given pallets. The split
// denominator always reflects the full pallet, not whatever filter the
// listing applied.
func (r *repositoryImpl) CountByPallet(ctx context.Context, palletIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(palletIDs))
	if len(palletIDs) == 0 {
		return counts, nil
	}

	type row struct {
		PalletID uuid.UUID
		Total    int
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("pallet_id, COUNT(*) AS total").
		Where("pallet_id IN ?", palletIDs).
		Group("pallet_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.PalletID] = r.Total
	}
	return counts, nil
}

func (r *repositoryImpl) ArchivePhotos(ctx context.Context, itemID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ItemPhoto{}).
		Where("item_id = ? AND archived_at IS NULL", itemID).
		UpdateColumn("archived_at", now).Error
}
