package items

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

// Service exposes the item lifecycle: intake, listing, sale, allocation
// overrides.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateItemInput) (*models.Item, error)
	List(ctx context.Context, userID uuid.UUID, params ListParams) ([]ItemWithCost, error)
	Get(ctx context.Context, userID, itemID uuid.UUID) (*ItemWithCost, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error)
	MarkListed(ctx context.Context, userID, itemID uuid.UUID, listingPrice *decimal.Decimal) (*models.Item, error)
	RecordSale(ctx context.Context, userID, itemID uuid.UUID, input SaleInput) (*models.Item, error)
	SetAllocatedCost(ctx context.Context, userID, itemID uuid.UUID, value *decimal.Decimal) (*models.Item, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

// CreateItemInput holds the validated payload to create an item. A zero
// Quantity means the field was omitted and defaults to 1; negative values
// are rejected.
type CreateItemInput struct {
	PalletID     *uuid.UUID
	Name         string
	Quantity     int
	Condition    enums.ItemCondition
	RetailPrice  *decimal.Decimal
	ListingPrice *decimal.Decimal
	PurchaseCost *decimal.Decimal
}

// UpdateItemInput holds optional mutation values for an item.
type UpdateItemInput struct {
	Name         *string
	Quantity     *int
	Condition    *enums.ItemCondition
	RetailPrice  *decimal.Decimal
	ListingPrice *decimal.Decimal
	PurchaseCost *decimal.Decimal
}

// SaleInput captures the terms of a completed sale.
type SaleInput struct {
	SalePrice    decimal.Decimal
	SoldAt       *time.Time
	SalesChannel *enums.SalesChannel
	PlatformFee  *decimal.Decimal
	ShippingCost *decimal.Decimal
}

// ListParams filters the item listing.
type ListParams struct {
	Status   *enums.ItemStatus
	PalletID *uuid.UUID
}

// ItemWithCost pairs an item with its effective cost basis.
type ItemWithCost struct {
	Item      models.Item     `json:"item"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type limitGuard interface {
	EnsureWithin(ctx context.Context, userID uuid.UUID, key enums.LimitKey) error
}

type service struct {
	repo   Repository
	tx     txRunner
	limits limitGuard
}

// NewService constructs an item service instance.
func NewService(repo Repository, tx txRunner, limits limitGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if limits == nil {
		return nil, fmt.Errorf("limit guard required")
	}
	return &service{repo: repo, tx: tx, limits: limits}, nil
}

// Create inserts an unlisted item. Adding the first item to an unprocessed
// pallet moves the pallet to processing in the same transaction.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateItemInput) (*models.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	quantity := input.Quantity
	if quantity == 0 {
		// omitted in the payload
		quantity = 1
	}
	if !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item condition")
	}
	if err := validateOptionalAmounts(input.RetailPrice, input.ListingPrice, input.PurchaseCost); err != nil {
		return nil, err
	}

	if err := s.limits.EnsureWithin(ctx, userID, enums.LimitActiveItems); err != nil {
		return nil, err
	}

	item := &models.Item{
		UserID:       userID,
		PalletID:     input.PalletID,
		Name:         name,
		Quantity:     quantity,
		Condition:    input.Condition,
		RetailPrice:  input.RetailPrice,
		ListingPrice: input.ListingPrice,
		PurchaseCost: input.PurchaseCost,
		Status:       enums.ItemStatusUnlisted,
	}

	if input.PalletID == nil {
		if err := s.repo.Create(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
		}
		return item, nil
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		pallet, err := txRepo.FindPallet(ctx, userID, *input.PalletID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pallet not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pallet")
		}
		if pallet.Status == enums.PalletStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot add items to a completed pallet")
		}

		if err := txRepo.Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
		}

		if pallet.Status == enums.PalletStatusUnprocessed {
			pallet.Status = enums.PalletStatusProcessing
			if err := txRepo.UpdatePallet(ctx, pallet); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update pallet status")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params ListParams) ([]ItemWithCost, error) {
	rows, err := s.repo.List(ctx, ListQuery{
		UserID:   userID,
		Status:   params.Status,
		PalletID: params.PalletID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	palletIDs := collectPalletIDs(rows)
	pallets, err := s.repo.PalletsByIDs(ctx, userID, palletIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pallets")
	}
	counts, err := s.repo.CountByPallet(ctx, palletIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pallet items")
	}

	palletsByID := make(map[uuid.UUID]*models.Pallet, len(pallets))
	for i := range pallets {
		palletsByID[pallets[i].ID] = &pallets[i]
	}

	out := make([]ItemWithCost, 0, len(rows))
	for _, item := range rows {
		var pallet *models.Pallet
		var siblings int
		if item.PalletID != nil {
			pallet = palletsByID[*item.PalletID]
			siblings = counts[*item.PalletID]
		}
		out = append(out, ItemWithCost{
			Item:      item,
			CostBasis: allocation.CostBasis(item, pallet, siblings),
		})
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, itemID uuid.UUID) (*ItemWithCost, error) {
	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	basis, err := s.costBasisFor(ctx, userID, item)
	if err != nil {
		return nil, err
	}
	return &ItemWithCost{Item: *item, CostBasis: basis}, nil
}

// Update applies the provided fields. Changing the listing price of a listed
// item restarts its staleness clock.
func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.Condition != nil && !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item condition")
	}
	if err := validateOptionalAmounts(input.RetailPrice, input.ListingPrice, input.PurchaseCost); err != nil {
		return nil, err
	}

	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == enums.ItemStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "sold items cannot be edited")
	}

	if listingPriceChanged(item, input.ListingPrice) && item.Status == enums.ItemStatusListed {
		now := time.Now().UTC()
		item.ListedAt = &now
	}
	applyItemUpdate(item, input)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
	}
	return item, nil
}

// MarkListed moves an unlisted item to listed and stamps the listing date.
func (s *service) MarkListed(ctx context.Context, userID, itemID uuid.UUID, listingPrice *decimal.Decimal) (*models.Item, error) {
	if listingPrice != nil && listingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing price must be non-negative")
	}

	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Status.CanTransitionTo(enums.ItemStatusListed) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s item cannot be listed", item.Status))
	}

	now := time.Now().UTC()
	item.Status = enums.ItemStatusListed
	item.ListedAt = &now
	if listingPrice != nil {
		item.ListingPrice = listingPrice
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list item")
	}
	return item, nil
}

// RecordSale archives the item with its sale terms. The cost basis is
// resolved and locked into the allocated cost at this moment so later pallet
// edits never rewrite realized profit. Selling is never blocked by the
// archived-item limit.
func (s *service) RecordSale(ctx context.Context, userID, itemID uuid.UUID, input SaleInput) (*models.Item, error) {
	if input.SalePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price must be non-negative")
	}
	if input.PlatformFee != nil && input.PlatformFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "platform fee must be non-negative")
	}
	if input.ShippingCost != nil && input.ShippingCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping cost must be non-negative")
	}
	if input.SalesChannel != nil && !input.SalesChannel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sales channel")
	}

	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == enums.ItemStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item is already sold")
	}

	basis, err := s.costBasisFor(ctx, userID, item)
	if err != nil {
		return nil, err
	}

	soldAt := time.Now().UTC()
	if input.SoldAt != nil && !input.SoldAt.IsZero() {
		soldAt = input.SoldAt.UTC()
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item.Status = enums.ItemStatusSold
		item.SalePrice = &input.SalePrice
		item.SoldAt = &soldAt
		item.SalesChannel = input.SalesChannel
		item.PlatformFee = input.PlatformFee
		item.ShippingCost = input.ShippingCost
		if item.AllocatedCost == nil {
			item.AllocatedCost = &basis
		}

		if err := txRepo.Update(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record sale")
		}
		if err := txRepo.ArchivePhotos(ctx, item.ID, soldAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: archive photos")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
	}
	return item, nil
}

// SetAllocatedCost sets or clears the manual cost override. The override is
// immutable once the item has sold.
func (s *service) SetAllocatedCost(ctx context.Context, userID, itemID uuid.UUID, value *decimal.Decimal) (*models.Item, error) {
	if value != nil && value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocated cost must be non-negative")
	}

	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == enums.ItemStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "allocation is locked after sale")
	}

	item.AllocatedCost = value
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set allocated cost")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.load(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) costBasisFor(ctx context.Context, userID uuid.UUID, item *models.Item) (decimal.Decimal, error) {
	if item.PalletID == nil || item.AllocatedCost != nil {
		return allocation.CostBasis(*item, nil, 0), nil
	}

	pallet, err := s.repo.FindPallet(ctx, userID, *item.PalletID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return allocation.CostBasis(*item, nil, 0), nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pallet")
	}
	counts, err := s.repo.CountByPallet(ctx, []uuid.UUID{pallet.ID})
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pallet items")
	}
	return allocation.CostBasis(*item, pallet, counts[pallet.ID]), nil
}

func collectPalletIDs(items []models.Item) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	var ids []uuid.UUID
	for _, item := range items {
		if item.PalletID == nil {
			continue
		}
		if _, ok := seen[*item.PalletID]; ok {
			continue
		}
		seen[*item.PalletID] = struct{}{}
		ids = append(ids, *item.PalletID)
	}
	return ids
}

func validateOptionalAmounts(amounts ...*decimal.Decimal) error {
	for _, amount := range amounts {
		if amount != nil && amount.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "amounts must be non-negative")
		}
	}
	return nil
}

func listingPriceChanged(item *models.Item, next *decimal.Decimal) bool {
	if next == nil {
		return false
	}
	if item.ListingPrice == nil {
		return true
	}
	return !item.ListingPrice.Equal(*next)
}

func applyItemUpdate(item *models.Item, input UpdateItemInput) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.RetailPrice != nil {
		item.RetailPrice = input.RetailPrice
	}
	if input.ListingPrice != nil {
		item.ListingPrice = input.ListingPrice
	}
	if input.PurchaseCost != nil {
		item.PurchaseCost = input.PurchaseCost
	}
}
