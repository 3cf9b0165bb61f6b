// Package allocation derives the cost basis of an item for profit math.
//
// Resolution follows a strict priority order: a manual override always wins,
// then an even split of the parent pallet's total cost, then the item's own
// purchase cost, then zero. The functions here are pure; callers pass a
// consistent snapshot and persist any derived values themselves.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
)

// CostBasis resolves the cost basis for one item.
//
// pallet may be nil when the item is individually sourced. palletItemCount is
// the number of items currently in the pallet; a zero count yields a zero
// basis rather than dividing by zero.
func CostBasis(item models.Item, pallet *models.Pallet, palletItemCount int) decimal.Decimal {
	if item.AllocatedCost != nil {
		return *item.AllocatedCost
	}
	if item.PalletID != nil && pallet != nil {
		return EvenSplit(*pallet, palletItemCount)
	}
	if item.PurchaseCost != nil {
		return *item.PurchaseCost
	}
	return decimal.Zero
}

// EvenSplit divides the pallet's total cost (purchase cost plus sales tax)
// evenly across itemCount items, rounded to cents.
func EvenSplit(pallet models.Pallet, itemCount int) decimal.Decimal {
	if itemCount <= 0 {
		return decimal.Zero
	}
	return pallet.TotalCost().Div(decimal.NewFromInt(int64(itemCount))).Round(2)
}

// CostBasisAll resolves the basis for every item in one pass. Pallets are
// looked up by ID and sibling counts are derived from the snapshot itself, so
// items added or removed later only shift the default split, while rows
// carrying an explicit allocation are untouched.
func CostBasisAll(items []models.Item, pallets []models.Pallet) map[string]decimal.Decimal {
	palletsByID := make(map[string]*models.Pallet, len(pallets))
	for i := range pallets {
		palletsByID[pallets[i].ID.String()] = &pallets[i]
	}

	counts := make(map[string]int, len(pallets))
	for _, item := range items {
		if item.PalletID != nil {
			counts[item.PalletID.String()]++
		}
	}

	out := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		var pallet *models.Pallet
		var count int
		if item.PalletID != nil {
			pallet = palletsByID[item.PalletID.String()]
			count = counts[item.PalletID.String()]
		}
		out[item.ID.String()] = CostBasis(item, pallet, count)
	}
	return out
}
