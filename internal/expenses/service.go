package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

// Service exposes expense tracking. The whole feature sits behind the
// expense-tracking plan flag.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*models.Expense, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Expense, error)
	Get(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, userID, expenseID uuid.UUID, input UpdateExpenseInput) (*models.Expense, error)
	Delete(ctx context.Context, userID, expenseID uuid.UUID) error
}

// CreateExpenseInput holds the validated payload to record an expense.
type CreateExpenseInput struct {
	Amount      decimal.Decimal
	Category    enums.ExpenseCategory
	Description *string
	ExpenseDate time.Time
	PalletIDs   []uuid.UUID
}

// UpdateExpenseInput holds optional mutation values for an expense.
type UpdateExpenseInput struct {
	Amount      *decimal.Decimal
	Category    *enums.ExpenseCategory
	Description *string
	ExpenseDate *time.Time
	PalletIDs   *[]uuid.UUID
}

type featureGuard interface {
	EnsureEnabled(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error
}

type service struct {
	repo  Repository
	plans featureGuard
}

// NewService constructs an expense service instance.
func NewService(repo Repository, plans featureGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expense repository required")
	}
	if plans == nil {
		return nil, fmt.Errorf("feature guard required")
	}
	return &service{repo: repo, plans: plans}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*models.Expense, error) {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitExpenseTracking); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown expense category")
	}
	if err := validateExpenseDate(input.ExpenseDate); err != nil {
		return nil, err
	}

	if err := s.ensureOwnedPallets(ctx, userID, input.PalletIDs); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		ExpenseDate: input.ExpenseDate,
		Pallets:     palletRefs(input.PalletIDs),
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert expense")
	}
	return expense, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Expense, error) {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitExpenseTracking); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error) {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitExpenseTracking); err != nil {
		return nil, err
	}
	return s.load(ctx, userID, expenseID)
}

func (s *service) Update(ctx context.Context, userID, expenseID uuid.UUID, input UpdateExpenseInput) (*models.Expense, error) {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitExpenseTracking); err != nil {
		return nil, err
	}
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown expense category")
	}
	if input.ExpenseDate != nil {
		if err := validateExpenseDate(*input.ExpenseDate); err != nil {
			return nil, err
		}
	}

	expense, err := s.load(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}
	if input.Description != nil {
		expense.Description = input.Description
	}
	if input.ExpenseDate != nil {
		expense.ExpenseDate = *input.ExpenseDate
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update expense")
	}

	if input.PalletIDs != nil {
		if err := s.ensureOwnedPallets(ctx, userID, *input.PalletIDs); err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceLinks(ctx, expense, palletRefs(*input.PalletIDs)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: relink pallets")
		}
	}
	return s.load(ctx, userID, expenseID)
}

func (s *service) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitExpenseTracking); err != nil {
		return err
	}
	if _, err := s.load(ctx, userID, expenseID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, expenseID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete expense")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error) {
	expense, err := s.repo.FindByID(ctx, userID, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense")
	}
	return expense, nil
}

func (s *service) ensureOwnedPallets(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate pallet ids")
		}
		seen[id] = struct{}{}
	}

	owned, err := s.repo.CountOwnedPallets(ctx, userID, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify pallet links")
	}
	if owned != len(ids) {
		return pkgerrors.New(pkgerrors.CodeValidation, "linked pallet not found")
	}
	return nil
}

func validateExpenseDate(date time.Time) error {
	if date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense date is required")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.UTC().Truncate(24 * time.Hour).After(today) {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense date cannot be in the future")
	}
	return nil
}

func palletRefs(ids []uuid.UUID) []models.Pallet {
	if len(ids) == 0 {
		return nil
	}
	refs := make([]models.Pallet, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.Pallet{ID: id})
	}
	return refs
}
