package mileage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

type fakeTripRepo struct {
	trips map[uuid.UUID]*models.MileageTrip
	owned map[uuid.UUID]struct{}
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{
		trips: make(map[uuid.UUID]*models.MileageTrip),
		owned: make(map[uuid.UUID]struct{}),
	}
}

func (f *fakeTripRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeTripRepo) Create(_ context.Context, trip *models.MileageTrip) error {
	trip.ID = uuid.New()
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeTripRepo) FindByID(_ context.Context, userID, tripID uuid.UUID) (*models.MileageTrip, error) {
	trip, ok := f.trips[tripID]
	if !ok || trip.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *trip
	return &copied, nil
}

func (f *fakeTripRepo) ListByUser(_ context.Context, userID uuid.UUID, year *int) ([]models.MileageTrip, error) {
	var rows []models.MileageTrip
	for _, trip := range f.trips {
		if trip.UserID != userID {
			continue
		}
		if year != nil && trip.TripDate.Year() != *year {
			continue
		}
		rows = append(rows, *trip)
	}
	return rows, nil
}

func (f *fakeTripRepo) Delete(_ context.Context, _, tripID uuid.UUID) error {
	delete(f.trips, tripID)
	return nil
}

func (f *fakeTripRepo) CountOwnedPallets(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (int, error) {
	count := 0
	for _, id := range ids {
		if _, ok := f.owned[id]; ok {
			count++
		}
	}
	return count, nil
}

type allowAllGuard struct{}

func (allowAllGuard) EnsureEnabled(context.Context, uuid.UUID, enums.LimitKey) error { return nil }

func newTripService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, allowAllGuard{}, decimal.NewFromFloat(0.67))
	require.NoError(t, err)
	return svc
}

func TestCreateTripLocksRateAndDeduction(t *testing.T) {
	repo := newFakeTripRepo()
	svc := newTripService(t, repo)

	trip, err := svc.Create(context.Background(), uuid.New(), CreateTripInput{
		TripDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Purpose:  enums.TripPurposeSourcing,
		Miles:    decimal.NewFromFloat(42.5),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(0.67).Equal(trip.Rate))
	// 42.5 * 0.67 = 28.475 -> 28.48 at write time.
	assert.True(t, decimal.NewFromFloat(28.48).Equal(trip.Deduction))
}

func TestCreateTripValidation(t *testing.T) {
	svc := newTripService(t, newFakeTripRepo())

	cases := []CreateTripInput{
		{TripDate: time.Now(), Purpose: enums.TripPurposeSourcing, Miles: decimal.Zero},
		{TripDate: time.Now(), Purpose: enums.TripPurposeSourcing, Miles: decimal.NewFromInt(10000)},
		{TripDate: time.Now(), Purpose: enums.TripPurpose("commute"), Miles: decimal.NewFromInt(5)},
		{Purpose: enums.TripPurposeSourcing, Miles: decimal.NewFromInt(5)},
	}
	for _, input := range cases {
		_, err := svc.Create(context.Background(), uuid.New(), input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestYearTotalsSumPersistedDeductions(t *testing.T) {
	repo := newFakeTripRepo()
	userID := uuid.New()

	// An old trip written under last year's rate keeps its persisted figures.
	oldTrip := &models.MileageTrip{
		ID:        uuid.New(),
		UserID:    userID,
		TripDate:  time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		Purpose:   enums.TripPurposeSourcing,
		Miles:     decimal.NewFromInt(100),
		Rate:      decimal.NewFromFloat(0.655),
		Deduction: decimal.NewFromFloat(65.50),
	}
	repo.trips[oldTrip.ID] = oldTrip

	svc := newTripService(t, repo)
	_, err := svc.Create(context.Background(), userID, CreateTripInput{
		TripDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Purpose:  enums.TripPurposeShipping,
		Miles:    decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	summary, err := svc.YearTotals(context.Background(), userID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TripCount)
	assert.True(t, decimal.NewFromInt(200).Equal(summary.TotalMiles))
	// 65.50 at the old rate + 67.00 at the current one.
	assert.True(t, decimal.NewFromFloat(132.50).Equal(summary.TotalDeduction))
}

func TestCreateTripRejectsForeignPallet(t *testing.T) {
	svc := newTripService(t, newFakeTripRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateTripInput{
		TripDate:  time.Now(),
		Purpose:   enums.TripPurposeSupplies,
		Miles:     decimal.NewFromInt(12),
		PalletIDs: []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
