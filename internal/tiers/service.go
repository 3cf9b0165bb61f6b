package tiers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

// Service exposes plan lookups and limit enforcement backed by live usage
// counts. The comparison itself stays in the pure limit engine; this layer
// only supplies the counts and the user's tier.
type Service interface {
	TierFor(ctx context.Context, userID uuid.UUID) (enums.SubscriptionTier, error)
	EnsureWithin(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error
	EnsureEnabled(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error
	Usage(ctx context.Context, userID uuid.UUID) (*UsageReport, error)
}

// UsageEntry reports one limit key: how much is used, the cap, and how close
// the user is. Limit is -1 for unlimited; Percent is null for unlimited and
// boolean limits; Used is null for keys the service does not meter.
type UsageEntry struct {
	Key     enums.LimitKey `json:"key"`
	Kind    string         `json:"kind"`
	Enabled *bool          `json:"enabled,omitempty"`
	Used    *int           `json:"used,omitempty"`
	Limit   *int           `json:"limit,omitempty"`
	Percent *float64       `json:"percent,omitempty"`
}

// UsageReport covers every limit key for the user's tier.
type UsageReport struct {
	Tier    enums.SubscriptionTier `json:"tier"`
	Entries []UsageEntry           `json:"entries"`
}

type usageSource interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	CountActivePallets(ctx context.Context, userID uuid.UUID) (int, error)
	CountArchivedPallets(ctx context.Context, userID uuid.UUID) (int, error)
	CountActiveItems(ctx context.Context, userID uuid.UUID) (int, error)
	CountArchivedItems(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	repo usageSource
}

// NewService constructs the tier service.
func NewService(repo usageSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tiers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) TierFor(ctx context.Context, userID uuid.UUID) (enums.SubscriptionTier, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user.Tier, nil
}

// EnsureWithin checks a countable limit against current usage and returns a
// limit-exceeded error when the action would pass the cap.
func (s *service) EnsureWithin(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error {
	tier, err := s.TierFor(ctx, userID)
	if err != nil {
		return err
	}

	count, metered, err := s.countFor(ctx, userID, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count usage")
	}
	if !metered {
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("limit key %s is not metered", key))
	}

	if !CanPerform(tier, key, count) {
		return limitExceeded(tier, key, count)
	}
	return nil
}

// EnsureEnabled checks a boolean feature flag for the user's tier.
func (s *service) EnsureEnabled(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error {
	tier, err := s.TierFor(ctx, userID)
	if err != nil {
		return err
	}
	if !CanPerform(tier, key, 0) {
		return limitExceeded(tier, key, 0)
	}
	return nil
}

func (s *service) Usage(ctx context.Context, userID uuid.UUID) (*UsageReport, error) {
	tier, err := s.TierFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &UsageReport{Tier: tier}
	for _, key := range enums.LimitKeys() {
		limit := Lookup(tier, key)
		entry := UsageEntry{Key: key}

		if limit.Kind() == KindBool {
			entry.Kind = "bool"
			enabled := limit.Enabled()
			entry.Enabled = &enabled
			report.Entries = append(report.Entries, entry)
			continue
		}

		entry.Kind = "numeric"
		max := limit.Max()
		entry.Limit = &max

		count, metered, err := s.countFor(ctx, userID, key)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count usage")
		}
		if metered {
			used := count
			entry.Used = &used
			entry.Percent = UsagePercent(tier, key, count)
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

// countFor returns the live count for metered keys. Per-item and
// time-window keys are enforced by their owning services, which carry the
// scoping context this report lacks.
func (s *service) countFor(ctx context.Context, userID uuid.UUID, key enums.LimitKey) (int, bool, error) {
	switch key {
	case enums.LimitActivePallets:
		count, err := s.repo.CountActivePallets(ctx, userID)
		return count, true, err
	case enums.LimitArchivedPallets:
		count, err := s.repo.CountArchivedPallets(ctx, userID)
		return count, true, err
	case enums.LimitActiveItems:
		count, err := s.repo.CountActiveItems(ctx, userID)
		return count, true, err
	case enums.LimitArchivedItems:
		count, err := s.repo.CountArchivedItems(ctx, userID)
		return count, true, err
	default:
		return 0, false, nil
	}
}

func limitExceeded(tier enums.SubscriptionTier, key enums.LimitKey, count int) error {
	limit := Lookup(tier, key)
	err := pkgerrors.New(pkgerrors.CodeLimitExceeded, fmt.Sprintf("%s limit reached for the %s plan", key, tier))
	details := map[string]any{
		"key":  key.String(),
		"tier": tier.String(),
	}
	if limit.Kind() == KindNumeric {
		details["used"] = count
		details["limit"] = limit.Max()
	}
	return err.WithDetails(details)
}
