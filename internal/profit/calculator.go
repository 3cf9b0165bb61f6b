// Package profit aggregates sales, cost of goods, fees and expenses over a
// time window and derives net profit and ROI.
//
// Sold items are attributed to the window containing their sale date; listing
// and purchase dates are irrelevant here. Expenses are windowed by expense
// date alone; they count whether or not anything sold. Sold items keep the
// allocation they were locked with, so cost of goods reads the stored fields
// rather than re-running the allocator.
package profit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// Metrics is the aggregate for one window.
type Metrics struct {
	Revenue    decimal.Decimal `json:"revenue"`
	COGS       decimal.Decimal `json:"cogs"`
	Fees       decimal.Decimal `json:"fees"`
	Expenses   decimal.Decimal `json:"expenses"`
	NetProfit  decimal.Decimal `json:"net_profit"`
	ROIPercent decimal.Decimal `json:"roi_percent"`
	ItemsSold  int             `json:"items_sold"`
}

// Report pairs a window's metrics with the immediately preceding period for
// trend display. Previous is nil when the period has no prior window.
type Report struct {
	Period   Period   `json:"period"`
	Current  Metrics  `json:"current"`
	Previous *Metrics `json:"previous,omitempty"`
}

// Calculate aggregates the given snapshot over one window.
func Calculate(items []models.Item, expenses []models.Expense, w Window) Metrics {
	m := Metrics{
		Revenue:  decimal.Zero,
		COGS:     decimal.Zero,
		Fees:     decimal.Zero,
		Expenses: decimal.Zero,
	}

	for _, item := range items {
		if item.Status != enums.ItemStatusSold || item.SoldAt == nil || !w.Contains(*item.SoldAt) {
			continue
		}
		m.ItemsSold++
		m.Revenue = m.Revenue.Add(valueOrZero(item.SalePrice))
		m.COGS = m.COGS.Add(costOfGoods(item))
		m.Fees = m.Fees.Add(valueOrZero(item.PlatformFee)).Add(valueOrZero(item.ShippingCost))
	}

	for _, expense := range expenses {
		if !w.Contains(expense.ExpenseDate) {
			continue
		}
		m.Expenses = m.Expenses.Add(expense.Amount)
	}

	m.NetProfit = m.Revenue.Sub(m.COGS).Sub(m.Fees).Sub(m.Expenses)
	m.ROIPercent = roi(m.NetProfit, m.COGS.Add(m.Expenses))
	return m
}

// CalculateForPeriod builds the report for a named period anchored at now,
// including the prior calendar period when one exists.
func CalculateForPeriod(items []models.Item, expenses []models.Expense, period Period, now time.Time) Report {
	window := CurrentWindow(period, now)
	report := Report{
		Period:  period,
		Current: Calculate(items, expenses, window),
	}
	if prev, ok := PreviousWindow(period, window); ok {
		metrics := Calculate(items, expenses, prev)
		report.Previous = &metrics
	}
	return report
}

// SalePreview is the projected outcome of selling one item at a given price,
// shown before the sale is recorded.
type SalePreview struct {
	SalePrice  decimal.Decimal `json:"sale_price"`
	CostBasis  decimal.Decimal `json:"cost_basis"`
	Fees       decimal.Decimal `json:"fees"`
	NetProfit  decimal.Decimal `json:"net_profit"`
	ROIPercent decimal.Decimal `json:"roi_percent"`
}

// PreviewSale computes the profit and ROI a sale would produce. costBasis is
// the allocator's output for the item; fee and shipping may be zero.
func PreviewSale(salePrice, costBasis, platformFee, shippingCost decimal.Decimal) SalePreview {
	fees := platformFee.Add(shippingCost)
	net := salePrice.Sub(costBasis).Sub(fees)
	return SalePreview{
		SalePrice:  salePrice,
		CostBasis:  costBasis,
		Fees:       fees,
		NetProfit:  net,
		ROIPercent: roi(net, costBasis),
	}
}

// roi returns profit over basis as a percentage, or zero when the basis is
// not positive. Never NaN or infinity.
func roi(netProfit, totalCostBasis decimal.Decimal) decimal.Decimal {
	if !totalCostBasis.IsPositive() {
		return decimal.Zero
	}
	return netProfit.Div(totalCostBasis).Mul(oneHundred).Round(2)
}

func costOfGoods(item models.Item) decimal.Decimal {
	if item.AllocatedCost != nil {
		return *item.AllocatedCost
	}
	if item.PurchaseCost != nil {
		return *item.PurchaseCost
	}
	return decimal.Zero
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
