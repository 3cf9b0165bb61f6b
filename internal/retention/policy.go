// Package retention decides whether a sold item's archived photos are
// eligible for cleanup. It only decides; choosing which photo survives and
// talking to storage belong to the photos service and its collaborators.
package retention

import (
	"time"

	"github.com/palletbase/palletbase-backend/internal/tiers"
)

// ShouldCleanArchivedPhotos reports whether photos attached to an item sold
// at soldAt are past their retention window.
//
// Never true for unlimited retention, for items with no photos, or (when the
// tier keeps the first photo) for the last remaining photo.
func ShouldCleanArchivedPhotos(cfg tiers.RetentionConfig, soldAt time.Time, photoCount int, now time.Time) bool {
	if cfg.RetentionDays == tiers.Unlimited || photoCount == 0 {
		return false
	}
	if cfg.KeepFirstPhoto && photoCount <= 1 {
		return false
	}
	if soldAt.IsZero() {
		return false
	}
	return daysSince(soldAt, now) > cfg.RetentionDays
}

func daysSince(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}
	return int(now.UTC().Sub(from.UTC()).Hours() / 24)
}
