package expenses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
)

// Repository exposes expense persistence, including the pallet link rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	ReplaceLinks(ctx context.Context, expense *models.Expense, pallets []models.Pallet) error
	Delete(ctx context.Context, userID, expenseID uuid.UUID) error
	CountOwnedPallets(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an expense repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).
		Preload("Pallets").
		First(&expense, "id = ? AND user_id = ?", expenseID, userID).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Expense, error) {
	var rows []models.Expense
	if err := r.db.WithContext(ctx).
		Preload("Pallets").
		Where("user_id = ?", userID).
		Order("expense_date DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) Update(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Omit("Pallets").Save(expense).Error
}

// ReplaceLinks swaps the expense's pallet associations for the given set.
func (r *repositoryImpl) ReplaceLinks(ctx context.Context, expense *models.Expense, pallets []models.Pallet) error {
	return r.db.WithContext(ctx).Model(expense).Association("Pallets").Replace(pallets)
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		Delete(&models.Expense{}).Error
}

// CountOwnedPallets counts how many of the given pallet ids belong to the
// user; linking validates the count matches the request.
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
