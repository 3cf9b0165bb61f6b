package photos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/internal/tiers"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

// PhotoRemover deletes a stored photo object. The storage backend lives
// behind this interface; removal failures are surfaced, not swallowed.
type PhotoRemover interface {
	Remove(ctx context.Context, storagePath string) error
}

// Service exposes item photo management.
type Service interface {
	Add(ctx context.Context, userID, itemID uuid.UUID, input AddPhotoInput) (*models.ItemPhoto, error)
	List(ctx context.Context, userID, itemID uuid.UUID) ([]models.ItemPhoto, error)
	Delete(ctx context.Context, userID, itemID, photoID uuid.UUID) error
}

// AddPhotoInput holds the validated payload to attach a photo.
type AddPhotoInput struct {
	StoragePath string
	Position    int
}

type tierLoader interface {
	TierFor(ctx context.Context, userID uuid.UUID) (enums.SubscriptionTier, error)
}

type service struct {
	repo    Repository
	plans   tierLoader
	remover PhotoRemover
}

// NewService constructs a photo service instance.
func NewService(repo Repository, plans tierLoader, remover PhotoRemover) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("photo repository required")
	}
	if plans == nil {
		return nil, fmt.Errorf("tier loader required")
	}
	if remover == nil {
		return nil, fmt.Errorf("photo remover required")
	}
	return &service{repo: repo, plans: plans, remover: remover}, nil
}

// Add attaches a photo to an item, subject to the per-item plan cap.
func (s *service) Add(ctx context.Context, userID, itemID uuid.UUID, input AddPhotoInput) (*models.ItemPhoto, error) {
	path := strings.TrimSpace(input.StoragePath)
	if path == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage path is required")
	}
	if input.Position < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must be non-negative")
	}

	item, err := s.loadItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	tier, err := s.plans.TierFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountForItem(ctx, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count photos")
	}
	if !tiers.CanPerform(tier, enums.LimitPhotosPerItem, count) {
		limit := tiers.Lookup(tier, enums.LimitPhotosPerItem)
		return nil, pkgerrors.New(pkgerrors.CodeLimitExceeded,
			fmt.Sprintf("photos_per_item limit reached for the %s plan", tier)).
			WithDetails(map[string]any{"used": count, "limit": limit.Max()})
	}

	photo := &models.ItemPhoto{
		ItemID:      item.ID,
		StoragePath: path,
		Position:    input.Position,
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert photo")
	}
	return photo, nil
}

func (s *service) List(ctx context.Context, userID, itemID uuid.UUID) ([]models.ItemPhoto, error) {
	item, err := s.loadItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForItem(ctx, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list photos")
	}
	return rows, nil
}

// Delete removes the row first and then the stored object; a storage failure
// after the row is gone is reported to the caller.
func (s *service) Delete(ctx context.Context, userID, itemID, photoID uuid.UUID) error {
	item, err := s.loadItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	photo, err := s.repo.FindPhoto(ctx, item.ID, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photo")
	}

	if err := s.repo.DeletePhotos(ctx, []uuid.UUID{photo.ID}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete photo")
	}
	if err := s.remover.Remove(ctx, photo.StoragePath); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove stored photo")
	}
	return nil
}

func (s *service) loadItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}
