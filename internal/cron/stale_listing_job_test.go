package cron

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/palletbase/palletbase-backend/internal/insights"
	"github.com/palletbase/palletbase-backend/internal/notifications"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type fakeStaleSource struct {
	users map[uuid.UUID][]models.Item
	err   error
}

func (f *fakeStaleSource) UserIDs(_ context.Context) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]uuid.UUID, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStaleSource) Stale(_ context.Context, userID uuid.UUID) ([]models.Item, insights.Config, error) {
	return f.users[userID], insights.Config{StaleThresholdDays: 30}, nil
}

type fakeNotifier struct {
	sent []notifications.NotifyInput
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, input notifications.NotifyInput) (*models.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, input)
	return &models.Notification{}, nil
}

type fakeDedupe struct {
	seen map[string]bool
}

func (f *fakeDedupe) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeDedupe) DedupeKey(scope, id string) string {
	return fmt.Sprintf("%s:%s", scope, id)
}

func newStaleJob(t *testing.T, source *fakeStaleSource, notifier *fakeNotifier, dedupe *fakeDedupe) Job {
	t.Helper()
	job, err := NewStaleListingJob(StaleListingJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Insights: source,
		Notifier: notifier,
		Dedupe:   dedupe,
	})
	if err != nil {
		t.Fatalf("NewStaleListingJob: %v", err)
	}
	return job
}

func TestStaleListingJobNotifiesOncePerItem(t *testing.T) {
	userID := uuid.New()
	item := models.Item{ID: uuid.New(), Name: "Blender"}
	source := &fakeStaleSource{users: map[uuid.UUID][]models.Item{userID: {item}}}
	notifier := &fakeNotifier{}
	dedupe := &fakeDedupe{}
	job := newStaleJob(t, source, notifier, dedupe)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.sent))
	}
	if notifier.sent[0].UserID != userID {
		t.Fatal("notification sent to wrong user")
	}

	// the second cycle sees the same stale item; the marker suppresses it
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected no repeat notification, got %d", len(notifier.sent))
	}
}

func TestStaleListingJobRelistingStartsNewEpisode(t *testing.T) {
	userID := uuid.New()
	firstListed := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	item := models.Item{ID: uuid.New(), Name: "Blender", ListedAt: &firstListed}
	source := &fakeStaleSource{users: map[uuid.UUID][]models.Item{userID: {item}}}
	notifier := &fakeNotifier{}
	job := newStaleJob(t, source, notifier, &fakeDedupe{})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification for the first episode, got %d", len(notifier.sent))
	}

	// the item is re-listed and crosses the threshold again
	relisted := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	item.ListedAt = &relisted
	source.users[userID] = []models.Item{item}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected a fresh notification after re-listing, got %d", len(notifier.sent))
	}
}

func TestStaleListingJobSingularMessageNamesItem(t *testing.T) {
	userID := uuid.New()
	source := &fakeStaleSource{users: map[uuid.UUID][]models.Item{
		userID: {{ID: uuid.New(), Name: "Blender"}},
	}}
	notifier := &fakeNotifier{}
	job := newStaleJob(t, source, notifier, &fakeDedupe{})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := `"Blender" has been listed 30+ days without selling`
	if notifier.sent[0].Message != want {
		t.Fatalf("expected %q, got %q", want, notifier.sent[0].Message)
	}
}

func TestStaleListingJobSkipsUsersWithoutStaleItems(t *testing.T) {
	source := &fakeStaleSource{users: map[uuid.UUID][]models.Item{uuid.New(): nil}}
	notifier := &fakeNotifier{}
	job := newStaleJob(t, source, notifier, &fakeDedupe{})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.sent))
	}
}

func TestStaleListingJobPropagatesListError(t *testing.T) {
	source := &fakeStaleSource{err: errors.New("boom")}
	job := newStaleJob(t, source, &fakeNotifier{}, &fakeDedupe{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
