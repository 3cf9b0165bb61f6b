package photos

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/palletbase/palletbase-backend/internal/retention"
	"github.com/palletbase/palletbase-backend/internal/tiers"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

const defaultCleanupBatchSize = 200

// Cleaner prunes archived photos of sold items once the owner's retention
// window has lapsed. The cron job drives it; the decision itself sits in the
// retention policy.
type Cleaner struct {
	repo      Repository
	remover   PhotoRemover
	logg      *logger.Logger
	batchSize int
}

// CleanupResult summarizes one cleanup pass.
type CleanupResult struct {
	ItemsScanned  int
	ItemsCleaned  int
	PhotosDeleted int
	RemoveFailed  int
}

// NewCleaner constructs the archived-photo cleaner.
func NewCleaner(repo Repository, remover PhotoRemover, logg *logger.Logger) *Cleaner {
	return &Cleaner{repo: repo, remover: remover, logg: logg, batchSize: defaultCleanupBatchSize}
}

// Run performs one cleanup pass over at most one batch of candidate items.
func (c *Cleaner) Run(ctx context.Context, now time.Time) (CleanupResult, error) {
	var result CleanupResult

	candidates, err := c.repo.ListArchivedCandidates(ctx, c.batchSize)
	if err != nil {
		return result, err
	}
	result.ItemsScanned = len(candidates)

	for _, candidate := range candidates {
		if candidate.Item.SoldAt == nil {
			continue
		}
		cfg := tiers.RetentionFor(candidate.Tier)
		if !retention.ShouldCleanArchivedPhotos(cfg, *candidate.Item.SoldAt, len(candidate.Photos), now) {
			continue
		}

		doomed := candidate.Photos
		if cfg.KeepFirstPhoto && len(doomed) > 0 {
			doomed = doomed[1:]
		}
		if len(doomed) == 0 {
			continue
		}

		ids := make([]uuid.UUID, 0, len(doomed))
		for _, photo := range doomed {
			ids = append(ids, photo.ID)
		}
		if err := c.repo.DeletePhotos(ctx, ids); err != nil {
			return result, err
		}
		result.ItemsCleaned++
		result.PhotosDeleted += len(ids)

		for _, photo := range doomed {
			if err := c.remover.Remove(ctx, photo.StoragePath); err != nil {
				result.RemoveFailed++
				failCtx := c.logg.WithFields(ctx, map[string]any{
					"storage_path": photo.StoragePath,
					"error":        err.Error(),
				})
				c.logg.Warn(failCtx, "photo removal failed; row already deleted")
			}
		}
	}
	return result, nil
}
