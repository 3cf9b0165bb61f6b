package pallets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/palletbase/palletbase-backend/internal/allocation"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
)

// Service exposes pallet lifecycle operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreatePalletInput) (*models.Pallet, error)
	List(ctx context.Context, userID uuid.UUID, status *enums.PalletStatus) ([]PalletSummary, error)
	Get(ctx context.Context, userID, palletID uuid.UUID) (*PalletDetail, error)
	Update(ctx context.Context, userID, palletID uuid.UUID, input UpdatePalletInput) (*models.Pallet, error)
	Complete(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error)
	DismissCompletionPrompt(ctx context.Context, userID, palletID uuid.UUID) error
	Delete(ctx context.Context, userID, palletID uuid.UUID) error
}

// CreatePalletInput holds the validated payload to create a pallet.
type CreatePalletInput struct {
	Name         string
	Supplier     *string
	PurchaseCost decimal.Decimal
	SalesTax     *decimal.Decimal
	PurchaseDate time.Time
}

// UpdatePalletInput holds optional mutation values for a pallet.
type UpdatePalletInput struct {
	Name         *string
	Supplier     *string
	PurchaseCost *decimal.Decimal
	SalesTax     *decimal.Decimal
	PurchaseDate *time.Time
}

// PalletSummary is the list-view shape: the row plus derived cost figures.
type PalletSummary struct {
	Pallet      models.Pallet   `json:"pallet"`
	ItemCount   int             `json:"item_count"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	CostPerItem decimal.Decimal `json:"cost_per_item"`
}

// PalletDetail is the single-pallet view with per-item cost bases.
type PalletDetail struct {
	Pallet    models.Pallet   `json:"pallet"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Items     []ItemWithCost  `json:"items"`
}

// ItemWithCost pairs an item with its effective cost basis.
type ItemWithCost struct {
	Item      models.Item     `json:"item"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

type palletStore interface {
	Create(ctx context.Context, pallet *models.Pallet) error
	FindByID(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error)
	FindByIDWithItems(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *enums.PalletStatus) ([]models.Pallet, error)
	Update(ctx context.Context, pallet *models.Pallet) error
	Delete(ctx context.Context, userID, palletID uuid.UUID) error
	CountItems(ctx context.Context, palletID uuid.UUID, status *enums.ItemStatus) (int, error)
}

type limitGuard interface {
	EnsureWithin(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error
}

type service struct {
	repo   palletStore
	limits limitGuard
}

// NewService constructs a pallet service instance.
func NewService(repo palletStore, limits limitGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pallet repository required")
	}
	if limits == nil {
		return nil, fmt.Errorf("limit guard required")
	}
	return &service{repo: repo, limits: limits}, nil
}

// Create inserts an unprocessed pallet after the active-pallet limit check.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreatePalletInput) (*models.Pallet, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pallet name is required")
	}
	if input.PurchaseCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase cost must be non-negative")
	}
	if input.SalesTax != nil && input.SalesTax.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales tax must be non-negative")
	}
	if input.PurchaseDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase date is required")
	}

	if err := s.limits.EnsureWithin(ctx, userID, enums.LimitActivePallets); err != nil {
		return nil, err
	}

	pallet := &models.Pallet{
		UserID:       userID,
		Name:         name,
		Supplier:     input.Supplier,
		PurchaseCost: input.PurchaseCost,
		SalesTax:     input.SalesTax,
		PurchaseDate: input.PurchaseDate,
		Status:       enums.PalletStatusUnprocessed,
		Version:      1,
	}
	if err := s.repo.Create(ctx, pallet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pallet")
	}
	return pallet, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, status *enums.PalletStatus) ([]PalletSummary, error) {
	rows, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pallets")
	}

	summaries := make([]PalletSummary, 0, len(rows))
	for _, pallet := range rows {
		summaries = append(summaries, PalletSummary{
			Pallet:      pallet,
			ItemCount:   len(pallet.Items),
			TotalCost:   pallet.TotalCost(),
			CostPerItem: allocation.EvenSplit(pallet, len(pallet.Items)),
		})
	}
	return summaries, nil
}

func (s *service) Get(ctx context.Context, userID, palletID uuid.UUID) (*PalletDetail, error) {
	pallet, err := s.loadWithItems(ctx, userID, palletID)
	if err != nil {
		return nil, err
	}

	detail := &PalletDetail{
		Pallet:    *pallet,
		TotalCost: pallet.TotalCost(),
		Items:     make([]ItemWithCost, 0, len(pallet.Items)),
	}
	bases := allocation.CostBasisAll(pallet.Items, []models.Pallet{*pallet})
	for _, item := range pallet.Items {
		detail.Items = append(detail.Items, ItemWithCost{
			Item:      item,
			CostBasis: bases[item.ID.String()],
		})
	}
	return detail, nil
}

// Update applies the provided fields and bumps the version counter.
func (s *service) Update(ctx context.Context, userID, palletID uuid.UUID, input UpdatePalletInput) (*models.Pallet, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pallet name cannot be empty")
	}
	if input.PurchaseCost != nil && input.PurchaseCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase cost must be non-negative")
	}
	if input.SalesTax != nil && input.SalesTax.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales tax must be non-negative")
	}

	pallet, err := s.load(ctx, userID, palletID)
	if err != nil {
		return nil, err
	}

	applyPalletUpdate(pallet, input)
	pallet.Version++
	if err := s.repo.Update(ctx, pallet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update pallet")
	}
	return pallet, nil
}

// Complete archives a processing pallet. Every item must be listed or sold,
// and the archived-pallet limit applies before the transition.
func (s *service) Complete(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error) {
	pallet, err := s.load(ctx, userID, palletID)
	if err != nil {
		return nil, err
	}
	if pallet.Status != enums.PalletStatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only a processing pallet can be completed")
	}

	unlistedStatus := enums.ItemStatusUnlisted
	unlisted, err := s.repo.CountItems(ctx, palletID, &unlistedStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unlisted items")
	}
	if unlisted > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pallet still has unlisted items").
			WithDetails(map[string]any{"unlisted_items": unlisted})
	}

	if err := s.limits.EnsureWithin(ctx, userID, enums.LimitArchivedPallets); err != nil {
		return nil, err
	}

	if !pallet.Status.CanTransitionTo(enums.PalletStatusCompleted) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pallet status cannot move to completed")
	}
	pallet.Status = enums.PalletStatusCompleted
	pallet.Version++
	if err := s.repo.Update(ctx, pallet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: complete pallet")
	}
	return pallet, nil
}

// DismissCompletionPrompt records that the user declined the completion
// nudge; the readiness insight stays suppressed until the flag resets.
func (s *service) DismissCompletionPrompt(ctx context.Context, userID, palletID uuid.UUID) error {
	pallet, err := s.load(ctx, userID, palletID)
	if err != nil {
		return err
	}
	if pallet.CompletionPromptDismissed {
		return nil
	}
	pallet.CompletionPromptDismissed = true
	if err := s.repo.Update(ctx, pallet); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: dismiss prompt")
	}
	return nil
}

// Delete removes the pallet and relies on FK cascades for items, photos and
// expense links.
func (s *service) Delete(ctx context.Context, userID, palletID uuid.UUID) error {
	if _, err := s.load(ctx, userID, palletID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, palletID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete pallet")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error) {
	pallet, err := s.repo.FindByID(ctx, userID, palletID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pallet")
	}
	return pallet, nil
}

func (s *service) loadWithItems(ctx context.Context, userID, palletID uuid.UUID) (*models.Pallet, error) {
	pallet, err := s.repo.FindByIDWithItems(ctx, userID, palletID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pallet")
	}
	return pallet, nil
}

func applyPalletUpdate(pallet *models.Pallet, input UpdatePalletInput) {
	if input.Name != nil {
		pallet.Name = strings.TrimSpace(*input.Name)
	}
	if input.Supplier != nil {
		pallet.Supplier = input.Supplier
	}
	if input.PurchaseCost != nil {
		pallet.PurchaseCost = *input.PurchaseCost
	}
	if input.SalesTax != nil {
		pallet.SalesTax = input.SalesTax
	}
	if input.PurchaseDate != nil {
		pallet.PurchaseDate = *input.PurchaseDate
	}
}
