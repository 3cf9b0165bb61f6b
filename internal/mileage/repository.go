package mileage

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
)

// Repository exposes mileage trip persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, trip *models.MileageTrip) error
	FindByID(ctx context.Context, userID, tripID uuid.UUID) (*models.MileageTrip, error)
	ListByUser(ctx context.Context, userID uuid.UUID, year *int) ([]models.MileageTrip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
	CountOwnedPallets(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a mileage repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, trip *models.MileageTrip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, tripID uuid.UUID) (*models.MileageTrip, error) {
	var trip models.MileageTrip
	if err := r.db.WithContext(ctx).
		Preload("Pallets").
		First(&trip, "id = ? AND user_id = ?", tripID, userID).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, year *int) ([]models.MileageTrip, error) {
	query := r.db.WithContext(ctx).
		Preload("Pallets").
		Where("user_id = ?", userID)
	if year != nil {
		query = query.Where("EXTRACT(YEAR FROM trip_date) = ?", *year)
	}

	var rows []models.MileageTrip
	if err := query.Order("trip_date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tripID, userID).
		Delete(&models.MileageTrip{}).Error
}

func (r *repositoryImpl) CountOwnedPallets(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Pallet{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
