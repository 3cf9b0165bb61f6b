package controllers

import (
	"net/http"
	"time"

	"github.com/palletbase/palletbase-backend/api/responses"
	"github.com/palletbase/palletbase-backend/api/validators"
	"github.com/palletbase/palletbase-backend/internal/mileage"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type tripPayload struct {
	TripDate  string   `json:"trip_date" validate:"required"`
	Purpose   string   `json:"purpose" validate:"required"`
	Miles     string   `json:"miles" validate:"required"`
	PalletIDs []string `json:"pallet_ids,omitempty"`
}

// CreateTrip records a mileage trip, locking the current deduction rate.
func CreateTrip(svc mileage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload tripPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tripDate, err := parseDate("trip_date", payload.TripDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purpose, err := enums.ParseTripPurpose(payload.Purpose)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purpose"))
			return
		}
		miles, err := parseMoney("miles", payload.Miles)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		palletIDs, err := parseUUIDList("pallet_ids", payload.PalletIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trip, err := svc.Create(r.Context(), userID, mileage.CreateTripInput{
			TripDate:  tripDate,
			Purpose:   purpose,
			Miles:     miles,
			PalletIDs: palletIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, trip)
	}
}

// ListTrips returns the caller's trips, optionally limited to one year.
func ListTrips(svc mileage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var year *int
		value, err := validators.ParseQueryInt(r, "year", 0, 0, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if value != 0 {
			year = &value
		}

		trips, err := svc.List(r.Context(), userID, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trips)
	}
}

// TripYearTotals sums miles and persisted deductions for one tax year.
func TripYearTotals(svc mileage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		year, err := validators.ParseQueryInt(r, "year", time.Now().UTC().Year(), 0, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.YearTotals(r.Context(), userID, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// DeleteTrip removes a mileage trip.
func DeleteTrip(svc mileage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tripID, err := pathUUID(r, "tripID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, tripID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
