package controllers

import (
	"net/http"

	"github.com/palletbase/palletbase-backend/api/responses"
	"github.com/palletbase/palletbase-backend/api/validators"
	"github.com/palletbase/palletbase-backend/internal/expenses"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	pkgerrors "github.com/palletbase/palletbase-backend/pkg/errors"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type expensePayload struct {
	Amount      string   `json:"amount" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	ExpenseDate string   `json:"expense_date" validate:"required"`
	PalletIDs   []string `json:"pallet_ids,omitempty"`
}

type expenseUpdatePayload struct {
	Amount      *string   `json:"amount,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	ExpenseDate *string   `json:"expense_date,omitempty"`
	PalletIDs   *[]string `json:"pallet_ids,omitempty"`
}

// CreateExpense records a business expense, optionally linked to pallets.
func CreateExpense(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload expensePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := parseMoney("amount", payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := enums.ParseExpenseCategory(payload.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}
		expenseDate, err := parseDate("expense_date", payload.ExpenseDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		palletIDs, err := parseUUIDList("pallet_ids", payload.PalletIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.Create(r.Context(), userID, expenses.CreateExpenseInput{
			Amount:      amount,
			Category:    category,
			Description: payload.Description,
			ExpenseDate: expenseDate,
			PalletIDs:   palletIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// ListExpenses returns the caller's expenses, newest first.
func ListExpenses(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetExpense returns one expense with its pallet links.
func GetExpense(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expenseID, err := pathUUID(r, "expenseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.Get(r.Context(), userID, expenseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, expense)
	}
}

// UpdateExpense applies a partial update, including pallet relinking.
func UpdateExpense(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expenseID, err := pathUUID(r, "expenseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload expenseUpdatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := expenses.UpdateExpenseInput{Description: payload.Description}
		if input.Amount, err = parseOptionalMoney("amount", payload.Amount); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Category != nil {
			category, err := enums.ParseExpenseCategory(*payload.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}
		if input.ExpenseDate, err = parseOptionalDate("expense_date", payload.ExpenseDate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.PalletIDs != nil {
			palletIDs, err := parseUUIDList("pallet_ids", *payload.PalletIDs)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.PalletIDs = &palletIDs
		}

		expense, err := svc.Update(r.Context(), userID, expenseID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, expense)
	}
}

// DeleteExpense removes an expense and its links.
func DeleteExpense(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expenseID, err := pathUUID(r, "expenseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, expenseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
