package tiers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

type fakeUsageSource struct {
	user            *models.User
	activePallets   int
	archivedPallets int
	activeItems     int
	archivedItems   int
	err             error
}

func (f *fakeUsageSource) FindUser(_ context.Context, _ uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUsageSource) CountActivePallets(_ context.Context, _ uuid.UUID) (int, error) {
	return f.activePallets, f.err
}

func (f *fakeUsageSource) CountArchivedPallets(_ context.Context, _ uuid.UUID) (int, error) {
	return f.archivedPallets, f.err
}

func (f *fakeUsageSource) CountActiveItems(_ context.Context, _ uuid.UUID) (int, error) {
	return f.activeItems, f.err
}

func (f *fakeUsageSource) CountArchivedItems(_ context.Context, _ uuid.UUID) (int, error) {
	return f.archivedItems, f.err
}

func freeUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "free@example.com", Tier: enums.TierFree}
}

func TestEnsureWithinAllowsUnderTheCap(t *testing.T) {
	svc, err := NewService(&fakeUsageSource{user: freeUser(), activePallets: 1})
	require.NoError(t, err)

	assert.NoError(t, svc.EnsureWithin(context.Background(), uuid.New(), enums.LimitActivePallets))
}

func TestEnsureWithinBlocksAtTheCap(t *testing.T) {
	// Free plan allows 2 active pallets; a user holding 2 cannot add a third.
	svc, err := NewService(&fakeUsageSource{user: freeUser(), activePallets: 2})
	require.NoError(t, err)

	err = svc.EnsureWithin(context.Background(), uuid.New(), enums.LimitActivePallets)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeLimitExceeded, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, details["used"])
	assert.Equal(t, 2, details["limit"])
}

func TestEnsureWithinUnlimitedNeverBlocks(t *testing.T) {
	user := freeUser()
	user.Tier = enums.TierEnterprise
	svc, err := NewService(&fakeUsageSource{user: user, activePallets: 100000})
	require.NoError(t, err)

	assert.NoError(t, svc.EnsureWithin(context.Background(), uuid.New(), enums.LimitActivePallets))
}

func TestEnsureEnabledBooleanFlags(t *testing.T) {
	svc, err := NewService(&fakeUsageSource{user: freeUser()})
	require.NoError(t, err)

	assert.NoError(t, svc.EnsureEnabled(context.Background(), uuid.New(), enums.LimitExpenseTracking))

	err = svc.EnsureEnabled(context.Background(), uuid.New(), enums.LimitMileageTracking)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeLimitExceeded, typed.Code())
}

func TestUsageReportCoversEveryKey(t *testing.T) {
	svc, err := NewService(&fakeUsageSource{
		user:          freeUser(),
		activePallets: 1,
		activeItems:   25,
	})
	require.NoError(t, err)

	report, err := svc.Usage(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, enums.TierFree, report.Tier)
	require.Len(t, report.Entries, len(enums.LimitKeys()))

	byKey := make(map[enums.LimitKey]UsageEntry, len(report.Entries))
	for _, entry := range report.Entries {
		byKey[entry.Key] = entry
	}

	items := byKey[enums.LimitActiveItems]
	require.NotNil(t, items.Used)
	require.NotNil(t, items.Limit)
	require.NotNil(t, items.Percent)
	assert.Equal(t, 25, *items.Used)
	assert.Equal(t, 50, *items.Limit)
	assert.InDelta(t, 50.0, *items.Percent, 0.001)

	export := byKey[enums.LimitCSVExport]
	assert.Equal(t, "bool", export.Kind)
	require.NotNil(t, export.Enabled)
	assert.False(t, *export.Enabled)

	// Metered only by the photos service, so the report shows the cap alone.
	photos := byKey[enums.LimitPhotosPerItem]
	assert.Nil(t, photos.Used)
	require.NotNil(t, photos.Limit)
	assert.Equal(t, 3, *photos.Limit)
}

func TestUsagePercentNilForUnlimitedInReport(t *testing.T) {
	user := freeUser()
	user.Tier = enums.TierPro
	svc, err := NewService(&fakeUsageSource{user: user, archivedPallets: 400})
	require.NoError(t, err)

	report, err := svc.Usage(context.Background(), uuid.New())
	require.NoError(t, err)
	for _, entry := range report.Entries {
		if entry.Key != enums.LimitArchivedPallets {
			continue
		}
		require.NotNil(t, entry.Limit)
		assert.Equal(t, Unlimited, *entry.Limit)
		assert.Nil(t, entry.Percent)
	}
}
