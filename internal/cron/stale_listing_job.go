package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/palletbase/palletbase-backend/internal/insights"
	"github.com/palletbase/palletbase-backend/internal/notifications"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

const (
	staleListingJobName = "stale-listings"
	staleDedupeScope    = "stale-notified"
	// staleDedupeTTL bounds how long a dedupe marker outlives an episode. An
	// item that stays listed past the marker gets one fresh reminder.
	staleDedupeTTL = 60 * 24 * time.Hour
)

type staleSource interface {
	UserIDs(ctx context.Context) ([]uuid.UUID, error)
	Stale(ctx context.Context, userID uuid.UUID) ([]models.Item, insights.Config, error)
}

type notifier interface {
	Notify(ctx context.Context, input notifications.NotifyInput) (*models.Notification, error)
}

type dedupeStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	DedupeKey(scope, id string) string
}

// StaleListingJobParams configure the stale-listing notification job.
type StaleListingJobParams struct {
	Logger   *logger.Logger
	Insights staleSource
	Notifier notifier
	Dedupe   dedupeStore
}

// NewStaleListingJob builds the job that notifies users about listings that
// crossed their staleness threshold. Each item triggers at most one
// notification per episode; the dedupe marker lives in Redis.
func NewStaleListingJob(params StaleListingJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Insights == nil {
		return nil, fmt.Errorf("insights source required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Dedupe == nil {
		return nil, fmt.Errorf("dedupe store required")
	}
	return &staleListingJob{
		logg:     params.Logger,
		insights: params.Insights,
		notifier: params.Notifier,
		dedupe:   params.Dedupe,
	}, nil
}

type staleListingJob struct {
	logg     *logger.Logger
	insights staleSource
	notifier notifier
	dedupe   dedupeStore
}

func (j *staleListingJob) Name() string { return staleListingJobName }

func (j *staleListingJob) Run(ctx context.Context) error {
	userIDs, err := j.insights.UserIDs(ctx)
	if err != nil {
		return fmt.Errorf("stale listings: %w", err)
	}

	var notified, failed int
	for _, userID := range userIDs {
		sent, err := j.runUser(ctx, userID)
		if err != nil {
			failed++
			userCtx := j.logg.WithField(ctx, "user_id", userID.String())
			j.logg.Error(userCtx, "stale listing scan failed", err)
			continue
		}
		if sent {
			notified++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"users_scanned":  len(userIDs),
		"users_notified": notified,
		"users_failed":   failed,
	})
	j.logg.Info(logCtx, "stale listing scan complete")
	return nil
}

// runUser notifies one user about listings that newly crossed the threshold.
// Items already covered by a dedupe marker are skipped, so a listing nags
// once when it goes stale, not on every cycle.
func (j *staleListingJob) runUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	stale, cfg, err := j.insights.Stale(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(stale) == 0 {
		return false, nil
	}

	var fresh []models.Item
	for _, item := range stale {
		key := j.dedupe.DedupeKey(staleDedupeScope, episodeID(item))
		ok, err := j.dedupe.SetNX(ctx, key, userID.String(), staleDedupeTTL)
		if err != nil {
			return false, err
		}
		if ok {
			fresh = append(fresh, item)
		}
	}
	if len(fresh) == 0 {
		return false, nil
	}

	message := fmt.Sprintf("%d items have been listed %d+ days without selling", len(fresh), cfg.StaleThresholdDays)
	if len(fresh) == 1 {
		message = fmt.Sprintf("%q has been listed %d+ days without selling", fresh[0].Name, cfg.StaleThresholdDays)
	}
	link := "/items?stale=true"
	_, err = j.notifier.Notify(ctx, notifications.NotifyInput{
		UserID:  userID,
		Type:    enums.NotificationTypeStaleInventory,
		Title:   "Stale inventory",
		Message: message,
		Link:    &link,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// episodeID scopes the dedupe marker to the current staleness episode.
// Re-listing resets ListedAt, which yields a fresh key and makes the item
// eligible for another notification.
func episodeID(item models.Item) string {
	if item.ListedAt == nil {
		return item.ID.String()
	}
	return item.ID.String() + ":" + item.ListedAt.UTC().Format(time.RFC3339)
}
