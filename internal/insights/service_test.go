package insights

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

type fakeInsightsRepo struct {
	users   map[uuid.UUID]*models.User
	pallets []models.Pallet
	items   []models.Item
}

func (f *fakeInsightsRepo) FindUser(_ context.Context, userID uuid.UUID) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, assert.AnError
	}
	return user, nil
}

func (f *fakeInsightsRepo) ListPallets(_ context.Context, _ uuid.UUID) ([]models.Pallet, error) {
	return f.pallets, nil
}

func (f *fakeInsightsRepo) ListItems(_ context.Context, _ uuid.UUID) ([]models.Item, error) {
	return f.items, nil
}

func (f *fakeInsightsRepo) ListUserIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func newInsightsService(t *testing.T, repo Repository) *service {
	t.Helper()
	svc, err := NewService(repo, 0)
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return insightsNow }
	return impl
}

func TestFeedUsesDefaultThresholdOnFreePlan(t *testing.T) {
	userID := uuid.New()
	threshold := 10
	repo := &fakeInsightsRepo{
		users: map[uuid.UUID]*models.User{
			// the stored custom threshold must be ignored on a plan
			// without the flag
			userID: {ID: userID, Tier: enums.TierFree, StaleThresholdDays: &threshold},
		},
		items: []models.Item{listedItem("Blender", 15)},
	}
	svc := newInsightsService(t, repo)

	feed, err := svc.Feed(context.Background(), userID)
	require.NoError(t, err)
	for _, insight := range feed {
		assert.NotEqual(t, InsightStaleItems, insight.Type)
	}
}

func TestFeedAppliesCustomThresholdOnProPlan(t *testing.T) {
	userID := uuid.New()
	threshold := 10
	repo := &fakeInsightsRepo{
		users: map[uuid.UUID]*models.User{
			userID: {ID: userID, Tier: enums.TierPro, StaleThresholdDays: &threshold},
		},
		items: []models.Item{listedItem("Blender", 15)},
	}
	svc := newInsightsService(t, repo)

	feed, err := svc.Feed(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	assert.Equal(t, InsightStaleItems, feed[0].Type)
}

func TestStaleReturnsOldestFirstWithConfig(t *testing.T) {
	userID := uuid.New()
	repo := &fakeInsightsRepo{
		users: map[uuid.UUID]*models.User{
			userID: {ID: userID, Tier: enums.TierFree},
		},
		items: []models.Item{
			listedItem("Newer", 35),
			listedItem("Older", 60),
			listedItem("Fresh", 5),
		},
	}
	svc := newInsightsService(t, repo)

	stale, cfg, err := svc.Stale(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "Older", stale[0].Name)
	assert.Equal(t, "Newer", stale[1].Name)
	assert.Equal(t, 30, cfg.StaleThresholdDays)
}

func TestFeedUnknownUser(t *testing.T) {
	svc := newInsightsService(t, &fakeInsightsRepo{users: map[uuid.UUID]*models.User{}})
	_, err := svc.Feed(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
