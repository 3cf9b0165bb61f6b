package controllers

import (
	"net/http"
	"strings"

	"github.com/palletbase/palletbase-backend/api/responses"
	"github.com/palletbase/palletbase-backend/api/validators"
	"github.com/palletbase/palletbase-backend/internal/pallets"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type palletPayload struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Supplier     *string `json:"supplier,omitempty" validate:"omitempty,max=200"`
	PurchaseCost string  `json:"purchase_cost" validate:"required"`
	SalesTax     *string `json:"sales_tax,omitempty"`
	PurchaseDate string  `json:"purchase_date" validate:"required"`
}

type palletUpdatePayload struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Supplier     *string `json:"supplier,omitempty" validate:"omitempty,max=200"`
	PurchaseCost *string `json:"purchase_cost,omitempty"`
	SalesTax     *string `json:"sales_tax,omitempty"`
	PurchaseDate *string `json:"purchase_date,omitempty"`
}

// CreatePallet records a new pallet purchase.
func CreatePallet(svc pallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload palletPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cost, err := parseMoney("purchase_cost", payload.PurchaseCost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tax, err := parseOptionalMoney("sales_tax", payload.SalesTax)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchaseDate, err := parseDate("purchase_date", payload.PurchaseDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pallet, err := svc.Create(r.Context(), userID, pallets.CreatePalletInput{
			Name:         validators.SanitizeString(payload.Name, maxNameLength),
			Supplier:     payload.Supplier,
			PurchaseCost: cost,
			SalesTax:     tax,
			PurchaseDate: purchaseDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pallet)
	}
}

// ListPallets returns the caller's pallets with derived cost figures.
func ListPallets(svc pallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.PalletStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParsePalletStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		summaries, err := svc.List(r.Context(), userID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

// GetPallet returns one pallet with per-item cost bases.
func GetPallet(svc pallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		palletID, err := pathUUID(r, "palletID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), userID, palletID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdatePallet applies a partial update to a pallet.
func UpdatePallet(svc pallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		palletID, err := pathUUID(r, "palletID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload palletUpdatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cost, err := parseOptionalMoney("purchase_cost", payload.PurchaseCost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tax, err := parseOptionalMoney("sales_tax", payload.SalesTax)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchaseDate, err := parseOptionalDate("purchase_date", payload.PurchaseDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pallet, err := svc.Update(r.Context(), userID, palletID, pallets.UpdatePalletInput{
			Name:         payload.Name,
			Supplier:     payload.Supplier,
			PurchaseCost: cost,
			SalesTax:     tax,
			PurchaseDate: purchaseDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pallet)
	}
}

// CompletePallet archives a fully listed pallet.
func CompletePallet(svc pallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		palletID, err := pathUUID(r, "palletID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pallet, err := svc.Complete(r.Context(), userID, palletID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pallet)
	}
}

// DismissCompletionPrompt silences the ready-to-complete nudge for a pallet.
func DismissCompletionPrompt(svc pallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		palletID, err := pathUUID(r, "palletID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DismissCompletionPrompt(r.Context(), userID, palletID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"dismissed": true})
	}
}

// DeletePallet removes a pallet and everything hanging off it.
func DeletePallet(svc pallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		palletID, err := pathUUID(r, "palletID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, palletID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
