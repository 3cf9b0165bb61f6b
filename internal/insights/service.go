package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/palletbase/palletbase-backend/internal/tiers"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

// Service assembles the dashboard feed for a user, honoring their plan's
// staleness configuration.
type Service interface {
	Feed(ctx context.Context, userID uuid.UUID) ([]Insight, error)
	Stale(ctx context.Context, userID uuid.UUID) ([]models.Item, Config, error)
	UserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type service struct {
	repo         Repository
	defaultStale int
	now          func() time.Time
}

// NewService returns the insights service. defaultStaleDays is the
// operator-level threshold; zero falls back to the built-in default.
func NewService(repo Repository, defaultStaleDays int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("insights service requires a repository")
	}
	return &service{repo: repo, defaultStale: defaultStaleDays, now: time.Now}, nil
}

func (s *service) Feed(ctx context.Context, userID uuid.UUID) ([]Insight, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	pallets, err := s.repo.ListPallets(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load pallets")
	}
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load items")
	}
	return Generate(pallets, items, s.configFor(user)), nil
}

// Stale returns the user's stale listed items, oldest first, together with
// the config they were evaluated under so callers can name the threshold.
func (s *service) Stale(ctx context.Context, userID uuid.UUID) ([]models.Item, Config, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, Config{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, Config{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load items")
	}
	cfg := s.configFor(user).normalized()
	return StaleItems(items, cfg), cfg, nil
}

func (s *service) UserIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list users")
	}
	return ids, nil
}

// configFor applies the user's custom threshold only when their plan carries
// the flag. A downgraded user keeps the stored value but it stops applying.
func (s *service) configFor(user *models.User) Config {
	cfg := Config{StaleThresholdDays: s.defaultStale, Now: s.now()}
	if user.StaleThresholdDays != nil &&
		tiers.Lookup(user.Tier, enums.LimitCustomStaleThreshold).Enabled() {
		cfg.StaleThresholdDays = *user.StaleThresholdDays
	}
	return cfg
}
