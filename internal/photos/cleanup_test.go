package photos

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

var cleanupNow = time.Date(2026, 7, 1, 3, 0, 0, 0, time.UTC)

func discardLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func soldCandidate(tier enums.SubscriptionTier, soldDaysAgo, photoCount int) ArchivedCandidate {
	soldAt := cleanupNow.AddDate(0, 0, -soldDaysAgo)
	item := models.Item{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: enums.ItemStatusSold,
		SoldAt: &soldAt,
	}
	photos := make([]models.ItemPhoto, 0, photoCount)
	for i := 0; i < photoCount; i++ {
		photos = append(photos, models.ItemPhoto{
			ID:          uuid.New(),
			ItemID:      item.ID,
			StoragePath: uuid.NewString() + ".jpg",
			Position:    i,
			ArchivedAt:  &soldAt,
		})
	}
	return ArchivedCandidate{Item: item, Tier: tier, Photos: photos}
}

func TestCleanupKeepsFirstPhoto(t *testing.T) {
	repo := newFakePhotoRepo()
	candidate := soldCandidate(enums.TierFree, 45, 3)
	repo.candidates = []ArchivedCandidate{candidate}
	remover := &recordingRemover{}

	result, err := NewCleaner(repo, remover, discardLogger()).Run(context.Background(), cleanupNow)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsCleaned)
	assert.Equal(t, 2, result.PhotosDeleted, "first photo survives")
	assert.Len(t, remover.removed, 2)
	assert.NotContains(t, remover.removed, candidate.Photos[0].StoragePath)
}

func TestCleanupSkipsInsideRetentionWindow(t *testing.T) {
	repo := newFakePhotoRepo()
	// Free retention is 30 days; sold 30 days ago is not yet past it.
	repo.candidates = []ArchivedCandidate{soldCandidate(enums.TierFree, 30, 3)}
	remover := &recordingRemover{}

	result, err := NewCleaner(repo, remover, discardLogger()).Run(context.Background(), cleanupNow)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsScanned)
	assert.Zero(t, result.PhotosDeleted)
	assert.Empty(t, remover.removed)
}

func TestCleanupNeverTouchesUnlimitedRetention(t *testing.T) {
	repo := newFakePhotoRepo()
	repo.candidates = []ArchivedCandidate{soldCandidate(enums.TierEnterprise, 4000, 5)}
	remover := &recordingRemover{}

	result, err := NewCleaner(repo, remover, discardLogger()).Run(context.Background(), cleanupNow)
	require.NoError(t, err)
	assert.Zero(t, result.PhotosDeleted)
}

func TestCleanupSpareLastPhoto(t *testing.T) {
	repo := newFakePhotoRepo()
	repo.candidates = []ArchivedCandidate{soldCandidate(enums.TierFree, 120, 1)}
	remover := &recordingRemover{}

	result, err := NewCleaner(repo, remover, discardLogger()).Run(context.Background(), cleanupNow)
	require.NoError(t, err)
	assert.Zero(t, result.PhotosDeleted, "a lone photo is guarded by keep-first")
}

func TestCleanupCountsRemovalFailures(t *testing.T) {
	repo := newFakePhotoRepo()
	repo.candidates = []ArchivedCandidate{soldCandidate(enums.TierFree, 60, 3)}
	remover := &recordingRemover{fail: true}

	result, err := NewCleaner(repo, remover, discardLogger()).Run(context.Background(), cleanupNow)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PhotosDeleted)
	assert.Equal(t, 2, result.RemoveFailed)
}
