package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/internal/allocation"
	"github.com/palletbase/palletbase-backend/internal/profit"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

// Dashboard is the landing-view aggregate: the current month with its trend
// comparison plus the lifetime totals.
type Dashboard struct {
	Month   profit.Report  `json:"month"`
	AllTime profit.Metrics `json:"all_time"`
}

// PreviewInput carries the hypothetical sale terms for a quick-sell preview.
// Nil fields are treated as zero.
type PreviewInput struct {
	SalePrice    decimal.Decimal
	PlatformFee  *decimal.Decimal
	ShippingCost *decimal.Decimal
}

// Service derives profit metrics from the caller's current inventory and
// expense snapshots.
type Service interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	Report(ctx context.Context, userID uuid.UUID, period profit.Period) (*profit.Report, error)
	WindowMetrics(ctx context.Context, userID uuid.UUID, from, to time.Time) (*profit.Metrics, error)
	QuickSellPreview(ctx context.Context, userID, itemID uuid.UUID, input PreviewInput) (*profit.SalePreview, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService returns the analytics service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics service requires a repository")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	items, expenses, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return &Dashboard{
		Month:   profit.CalculateForPeriod(items, expenses, profit.PeriodMonth, now),
		AllTime: profit.Calculate(items, expenses, profit.CurrentWindow(profit.PeriodAll, now)),
	}, nil
}

func (s *service) Report(ctx context.Context, userID uuid.UUID, period profit.Period) (*profit.Report, error) {
	items, expenses, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := profit.CalculateForPeriod(items, expenses, period, s.now().UTC())
	return &report, nil
}

func (s *service) WindowMetrics(ctx context.Context, userID uuid.UUID, from, to time.Time) (*profit.Metrics, error) {
	if from.IsZero() || to.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "both window bounds are required")
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window end must not precede its start")
	}
	items, expenses, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	metrics := profit.Calculate(items, expenses, profit.CustomWindow(from, to))
	return &metrics, nil
}

func (s *service) QuickSellPreview(ctx context.Context, userID, itemID uuid.UUID, input PreviewInput) (*profit.SalePreview, error) {
	if input.SalePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price must not be negative")
	}
	item, err := s.repo.FindItem(ctx, userID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
	}

	basis, err := s.costBasis(ctx, userID, item)
	if err != nil {
		return nil, err
	}

	preview := profit.PreviewSale(input.SalePrice, basis, valueOrZero(input.PlatformFee), valueOrZero(input.ShippingCost))
	return &preview, nil
}

func (s *service) snapshot(ctx context.Context, userID uuid.UUID) ([]models.Item, []models.Expense, error) {
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load items")
	}
	expenses, err := s.repo.ListExpenses(ctx, userID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load expenses")
	}
	return items, expenses, nil
}

// costBasis mirrors the basis an actual sale would lock in: a stored
// allocation wins, a lot item splits its pallet evenly, anything else falls
// back to its own purchase cost.
func (s *service) costBasis(ctx context.Context, userID uuid.UUID, item *models.Item) (decimal.Decimal, error) {
	if item.AllocatedCost != nil {
		return *item.AllocatedCost, nil
	}
	if item.PalletID == nil {
		return allocation.CostBasis(*item, nil, 0), nil
	}
	pallet, err := s.repo.FindPallet(ctx, userID, *item.PalletID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load pallet")
	}
	count, err := s.repo.CountPalletItems(ctx, pallet.ID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to count pallet items")
	}
	return allocation.CostBasis(*item, pallet, count), nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
