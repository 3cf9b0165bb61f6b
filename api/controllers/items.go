package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/palletbase/palletbase-backend/api/responses"
	"github.com/palletbase/palletbase-backend/api/validators"
	"github.com/palletbase/palletbase-backend/internal/items"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type itemPayload struct {
	PalletID     *string `json:"pallet_id,omitempty"`
	Name         string  `json:"name" validate:"required,max=200"`
	Quantity     int     `json:"quantity,omitempty"`
	Condition    string  `json:"condition" validate:"required"`
	RetailPrice  *string `json:"retail_price,omitempty"`
	ListingPrice *string `json:"listing_price,omitempty"`
	PurchaseCost *string `json:"purchase_cost,omitempty"`
}

type itemUpdatePayload struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Quantity     *int    `json:"quantity,omitempty"`
	Condition    *string `json:"condition,omitempty"`
	RetailPrice  *string `json:"retail_price,omitempty"`
	ListingPrice *string `json:"listing_price,omitempty"`
	PurchaseCost *string `json:"purchase_cost,omitempty"`
}

type markListedPayload struct {
	ListingPrice *string `json:"listing_price,omitempty"`
}

type salePayload struct {
	SalePrice    string  `json:"sale_price" validate:"required"`
	SoldAt       *string `json:"sold_at,omitempty"`
	SalesChannel *string `json:"sales_channel,omitempty"`
	PlatformFee  *string `json:"platform_fee,omitempty"`
	ShippingCost *string `json:"shipping_cost,omitempty"`
}

type allocatedCostPayload struct {
	AllocatedCost *string `json:"allocated_cost"`
}

// CreateItem records an item, standalone or under a pallet.
func CreateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := items.CreateItemInput{
			Name:     validators.SanitizeString(payload.Name, maxNameLength),
			Quantity: payload.Quantity,
		}
		if payload.PalletID != nil && strings.TrimSpace(*payload.PalletID) != "" {
			palletID, err := uuid.Parse(*payload.PalletID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pallet id"))
				return
			}
			input.PalletID = &palletID
		}
		condition, err := enums.ParseItemCondition(payload.Condition)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition"))
			return
		}
		input.Condition = condition
		if input.RetailPrice, err = parseOptionalMoney("retail_price", payload.RetailPrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.ListingPrice, err = parseOptionalMoney("listing_price", payload.ListingPrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.PurchaseCost, err = parseOptionalMoney("purchase_cost", payload.PurchaseCost); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ListItems returns items with their effective cost basis, optionally
// filtered by status or pallet.
func ListItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var params items.ListParams
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseItemStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("pallet_id")); raw != "" {
			palletID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pallet filter"))
				return
			}
			params.PalletID = &palletID
		}

		rows, err := svc.List(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetItem returns one item with its cost basis and photos.
func GetItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), userID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// UpdateItem applies a partial update to an item.
func UpdateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemUpdatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := items.UpdateItemInput{
			Name:     payload.Name,
			Quantity: payload.Quantity,
		}
		if payload.Condition != nil {
			condition, err := enums.ParseItemCondition(*payload.Condition)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition"))
				return
			}
			input.Condition = &condition
		}
		if input.RetailPrice, err = parseOptionalMoney("retail_price", payload.RetailPrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.ListingPrice, err = parseOptionalMoney("listing_price", payload.ListingPrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.PurchaseCost, err = parseOptionalMoney("purchase_cost", payload.PurchaseCost); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), userID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// MarkItemListed transitions an item to listed, stamping the listing date.
func MarkItemListed(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload markListedPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := parseOptionalMoney("listing_price", payload.ListingPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.MarkListed(r.Context(), userID, itemID, price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// RecordItemSale records a completed sale and locks the item's allocation.
func RecordItemSale(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload salePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := items.SaleInput{}
		if input.SalePrice, err = parseMoney("sale_price", payload.SalePrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.SoldAt, err = parseOptionalDate("sold_at", payload.SoldAt); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.SalesChannel != nil && strings.TrimSpace(*payload.SalesChannel) != "" {
			channel, err := enums.ParseSalesChannel(*payload.SalesChannel)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sales channel"))
				return
			}
			input.SalesChannel = &channel
		}
		if input.PlatformFee, err = parseOptionalMoney("platform_fee", payload.PlatformFee); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.ShippingCost, err = parseOptionalMoney("shipping_cost", payload.ShippingCost); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.RecordSale(r.Context(), userID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// SetItemAllocatedCost sets or clears the manual cost-basis override.
func SetItemAllocatedCost(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload allocatedCostPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		value, err := parseOptionalMoney("allocated_cost", payload.AllocatedCost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.SetAllocatedCost(r.Context(), userID, itemID, value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteItem removes an item and its photos.
func DeleteItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
