package controllers

import (
	"net/http"

	"github.com/palletbase/palletbase-backend/api/responses"
	"github.com/palletbase/palletbase-backend/internal/insights"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

// InsightsFeed returns the caller's inventory health insights, ordered
// by severity.
func InsightsFeed(svc insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		feed, err := svc.Feed(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, feed)
	}
}

type staleItemsResponse struct {
	Items              []models.Item `json:"items"`
	StaleThresholdDays int           `json:"stale_threshold_days"`
}

// StaleItems lists items past the caller's stale threshold, oldest first.
func StaleItems(svc insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, cfg, err := svc.Stale(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, staleItemsResponse{
			Items:              items,
			StaleThresholdDays: cfg.StaleThresholdDays,
		})
	}
}
