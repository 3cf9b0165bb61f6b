package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type fakePurger struct {
	window  time.Duration
	deleted int64
	err     error
	called  int
}

func (f *fakePurger) PurgeRead(_ context.Context, olderThan time.Duration) (int64, error) {
	f.called++
	f.window = olderThan
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

func TestNotificationCleanupJobUsesRetentionWindow(t *testing.T) {
	purger := &fakePurger{deleted: 42}
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		Notifications: purger,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purger.called != 1 {
		t.Fatalf("expected purger called once, got %d", purger.called)
	}
	if purger.window != notificationRetentionDays*24*time.Hour {
		t.Fatalf("unexpected window %s", purger.window)
	}
}

func TestNotificationCleanupJobPropagatesErrors(t *testing.T) {
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		Notifications: &fakePurger{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
