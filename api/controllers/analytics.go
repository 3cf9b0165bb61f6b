package controllers

import (
	"net/http"
	"strings"

	"github.com/palletbase/palletbase-backend/api/responses"
	"github.com/palletbase/palletbase-backend/api/validators"
	"github.com/palletbase/palletbase-backend/internal/analytics"
	"github.com/palletbase/palletbase-backend/internal/profit"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

// Dashboard returns the current-month report alongside lifetime totals.
func Dashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dash, err := svc.Dashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}

// ProfitReport computes profit metrics for a named period or a custom
// from/to window. Exactly one of the two must be supplied.
func ProfitReport(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		rawPeriod := strings.TrimSpace(query.Get("period"))
		rawFrom := strings.TrimSpace(query.Get("from"))
		rawTo := strings.TrimSpace(query.Get("to"))

		if rawPeriod != "" && (rawFrom != "" || rawTo != "") {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "period and from/to are mutually exclusive"))
			return
		}

		if rawFrom != "" || rawTo != "" {
			from, err := parseDate("from", rawFrom)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			to, err := parseDate("to", rawTo)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			metrics, err := svc.WindowMetrics(r.Context(), userID, from, to)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, metrics)
			return
		}

		if rawPeriod == "" {
			rawPeriod = string(profit.PeriodMonth)
		}
		period, err := profit.ParsePeriod(rawPeriod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid period"))
			return
		}

		report, err := svc.Report(r.Context(), userID, period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

type quickSellPayload struct {
	ItemID       string  `json:"item_id" validate:"required,uuid4"`
	SalePrice    string  `json:"sale_price" validate:"required"`
	PlatformFee  *string `json:"platform_fee,omitempty"`
	ShippingCost *string `json:"shipping_cost,omitempty"`
}

// QuickSellPreview answers "what would I net at this price" without
// recording a sale.
func QuickSellPreview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quickSellPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseID("item_id", payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		salePrice, err := parseMoney("sale_price", payload.SalePrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		platformFee, err := parseOptionalMoney("platform_fee", payload.PlatformFee)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shippingCost, err := parseOptionalMoney("shipping_cost", payload.ShippingCost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.QuickSellPreview(r.Context(), userID, itemID, analytics.PreviewInput{
			SalePrice:    salePrice,
			PlatformFee:  platformFee,
			ShippingCost: shippingCost,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}
