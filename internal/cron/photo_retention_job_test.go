package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/palletbase/palletbase-backend/internal/photos"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type fakeCleaner struct {
	result photos.CleanupResult
	err    error
	lastAt time.Time
	runs   int
}

func (f *fakeCleaner) Run(_ context.Context, now time.Time) (photos.CleanupResult, error) {
	f.runs++
	f.lastAt = now
	return f.result, f.err
}

func TestPhotoRetentionJobRunsCleaner(t *testing.T) {
	now := time.Date(2026, 7, 1, 3, 0, 0, 0, time.UTC)
	cleaner := &fakeCleaner{result: photos.CleanupResult{ItemsScanned: 4, ItemsCleaned: 2, PhotosDeleted: 5}}
	jobIface, err := NewPhotoRetentionJob(PhotoRetentionJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Cleaner: cleaner,
	})
	if err != nil {
		t.Fatalf("NewPhotoRetentionJob: %v", err)
	}
	job := jobIface.(*photoRetentionJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cleaner.runs != 1 {
		t.Fatalf("expected one cleaner run, got %d", cleaner.runs)
	}
	if !cleaner.lastAt.Equal(now) {
		t.Fatalf("expected cleaner run at %s, got %s", now, cleaner.lastAt)
	}
}

func TestPhotoRetentionJobPropagatesErrors(t *testing.T) {
	jobIface, err := NewPhotoRetentionJob(PhotoRetentionJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Cleaner: &fakeCleaner{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewPhotoRetentionJob: %v", err)
	}
	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
