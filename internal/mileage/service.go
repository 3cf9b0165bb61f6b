package mileage

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

var maxMiles = decimal.NewFromInt(9999)

// Service records deductible trips. The standard mileage rate in effect when
// the trip is created is locked into the row together with the computed
// deduction; later rate changes never touch existing trips.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateTripInput) (*models.MileageTrip, error)
	List(ctx context.Context, userID uuid.UUID, year *int) ([]models.MileageTrip, error)
	YearTotals(ctx context.Context, userID uuid.UUID, year int) (*YearSummary, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
}

// CreateTripInput holds the validated payload to record a trip.
type CreateTripInput struct {
	TripDate  time.Time
	Purpose   enums.TripPurpose
	Miles     decimal.Decimal
	PalletIDs []uuid.UUID
}

// YearSummary totals one calendar year of trips.
type YearSummary struct {
	Year           int             `json:"year"`
	TripCount      int             `json:"trip_count"`
	TotalMiles     decimal.Decimal `json:"total_miles"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
}

type featureGuard interface {
	EnsureEnabled(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error
}

type service struct {
	repo  Repository
	plans featureGuard
	rate  decimal.Decimal
}

// NewService constructs a mileage service with the current standard rate.
func NewService(repo Repository, plans featureGuard, rate decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("mileage repository required")
	}
	if plans == nil {
		return nil, fmt.Errorf("feature guard required")
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("mileage rate must be positive")
	}
	return &service{repo: repo, plans: plans, rate: rate}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateTripInput) (*models.MileageTrip, error) {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitMileageTracking); err != nil {
		return nil, err
	}
	if !input.Miles.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "miles must be greater than zero")
	}
	if input.Miles.GreaterThan(maxMiles) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "miles cannot exceed 9999 per trip")
	}
	if !input.Purpose.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown trip purpose")
	}
	if input.TripDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip date is required")
	}

	if err := s.ensureOwnedPallets(ctx, userID, input.PalletIDs); err != nil {
		return nil, err
	}

	trip := &models.MileageTrip{
		UserID:    userID,
		TripDate:  input.TripDate,
		Purpose:   input.Purpose,
		Miles:     input.Miles,
		Rate:      s.rate,
		Deduction: input.Miles.Mul(s.rate).Round(2),
		Pallets:   palletRefs(input.PalletIDs),
	}
	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert trip")
	}
	return trip, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, year *int) ([]models.MileageTrip, error) {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitMileageTracking); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, userID, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trips")
	}
	return rows, nil
}

// YearTotals sums the persisted deductions; it never recomputes from the
// current rate.
func (s *service) YearTotals(ctx context.Context, userID uuid.UUID, year int) (*YearSummary, error) {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitMileageTracking); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, userID, &year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trips")
	}

	summary := &YearSummary{Year: year, TripCount: len(rows)}
	for _, trip := range rows {
		summary.TotalMiles = summary.TotalMiles.Add(trip.Miles)
		summary.TotalDeduction = summary.TotalDeduction.Add(trip.Deduction)
	}
	return summary, nil
}

func (s *service) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	if err := s.plans.EnsureEnabled(ctx, userID, enums.LimitMileageTracking); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, userID, tripID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	if err := s.repo.Delete(ctx, userID, tripID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete trip")
	}
	return nil
}

func (s *service) ensureOwnedPallets(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
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
