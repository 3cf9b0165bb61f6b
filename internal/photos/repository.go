package photos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// ArchivedCandidate is one sold item whose archived photos may be due for
// cleanup, together with the owner's tier.
type ArchivedCandidate struct {
	Item   models.Item
	Tier   enums.SubscriptionTier
	Photos []models.ItemPhoto
}

// Repository exposes item photo persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error)
	CountForItem(ctx context.Context, itemID uuid.UUID) (int, error)
	Create(ctx context.Context, photo *models.ItemPhoto) error
	ListForItem(ctx context.Context, itemID uuid.UUID) ([]models.ItemPhoto, error)
	FindPhoto(ctx context.Context, itemID, photoID uuid.UUID) (*models.ItemPhoto, error)
	DeletePhotos(ctx context.Context, ids []uuid.UUID) error
	ListArchivedCandidates(ctx context.Context, batchSize int) ([]ArchivedCandidate, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a photo repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).
		First(&item, "id = ? AND user_id = ?", itemID, userID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) CountForItem(ctx context.Context, itemID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ItemPhoto{}).
		Where("item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *repositoryImpl) Create(ctx context.Context, photo *models.ItemPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *repositoryImpl) ListForItem(ctx context.Context, itemID uuid.UUID) ([]models.ItemPhoto, error) {
	var rows []models.ItemPhoto
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("position ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) FindPhoto(ctx context.Context, itemID, photoID uuid.UUID) (*models.ItemPhoto, error) {
	var photo models.ItemPhoto
	if err := r.db.WithContext(ctx).
		First(&photo, "id = ? AND item_id = ?", photoID, itemID).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *repositoryImpl) DeletePhotos(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.ItemPhoto{}).Error
}

// ListArchivedCandidates loads sold items that still hold archived photos,
// oldest sales first, with the owner's tier attached.
func (r *repositoryImpl) ListArchivedCandidates(ctx context.Context, batchSize int) ([]ArchivedCandidate, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Where("status = ? AND sold_at IS NOT NULL", enums.ItemStatusSold).
		Where("id IN (?)", r.db.Model(&models.ItemPhoto{}).
			Select("item_id").
			Where("archived_at IS NOT NULL")).
		Order("sold_at ASC").
		Limit(batchSize).
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	userIDs := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.UserID]; !ok {
			seen[item.UserID] = struct{}{}
			userIDs = append(userIDs, item.UserID)
		}
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&users).Error; err != nil {
		return nil, err
	}
	tierByUser := make(map[uuid.UUID]enums.SubscriptionTier, len(users))
	for _, user := range users {
		tierByUser[user.ID] = user.Tier
	}

	candidates := make([]ArchivedCandidate, 0, len(items))
	for _, item := range items {
		var archived []models.ItemPhoto
		if err := r.db.WithContext(ctx).
			Where("item_id = ? AND archived_at IS NOT NULL", item.ID).
			Order("position ASC, created_at ASC").
			Find(&archived).Error; err != nil {
			return nil, err
		}
		candidates = append(candidates, ArchivedCandidate{
			Item:   item,
			Tier:   tierByUser[item.UserID],
			Photos: archived,
		})
	}
	return candidates, nil
}
