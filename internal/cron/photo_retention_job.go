package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/palletbase/palletbase-backend/internal/photos"
	"github.com/palletbase/palletbase-backend/pkg/logger"
	"github.com/palletbase/palletbase-backend/pkg/metrics"
)

const photoRetentionJobName = "photo-retention"

type photoCleaner interface {
	Run(ctx context.Context, now time.Time) (photos.CleanupResult, error)
}

// PhotoRetentionJobParams configure the archived-photo retention job.
type PhotoRetentionJobParams struct {
	Logger  *logger.Logger
	Cleaner photoCleaner
	Metrics *metrics.CronJobMetrics
}

// NewPhotoRetentionJob builds the job that prunes archived photos of sold
// items past their owner's retention window.
func NewPhotoRetentionJob(params PhotoRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Cleaner == nil {
		return nil, fmt.Errorf("photo cleaner required")
	}
	return &photoRetentionJob{
		logg:    params.Logger,
		cleaner: params.Cleaner,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type photoRetentionJob struct {
	logg    *logger.Logger
	cleaner photoCleaner
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *photoRetentionJob) Name() string { return photoRetentionJobName }

func (j *photoRetentionJob) Run(ctx context.Context) error {
	result, err := j.cleaner.Run(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("photo retention: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddCleaned(photoRetentionJobName, result.PhotosDeleted)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"items_scanned":  result.ItemsScanned,
		"items_cleaned":  result.ItemsCleaned,
		"photos_deleted": result.PhotosDeleted,
		"remove_failed":  result.RemoveFailed,
	})
	j.logg.Info(logCtx, "photo retention pass complete")
	return nil
}
