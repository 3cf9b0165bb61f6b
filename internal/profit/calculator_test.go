package profit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

func soldItem(soldAt time.Time, sale, allocated, fee, shipping string) models.Item {
	item := models.Item{
		ID:     uuid.New(),
		Status: enums.ItemStatusSold,
		SoldAt: timePtr(soldAt),
	}
	if sale != "" {
		item.SalePrice = decPtr(sale)
	}
	if allocated != "" {
		item.AllocatedCost = decPtr(allocated)
	}
	if fee != "" {
		item.PlatformFee = decPtr(fee)
	}
	if shipping != "" {
		item.ShippingCost = decPtr(shipping)
	}
	return item
}

func TestCalculateJanuaryScenario(t *testing.T) {
	// Item sold 2026-01-15 for $50, allocated cost $20, fee $5, shipping $0;
	// $10 expense on 2026-01-10. Net profit $15, ROI 50%.
	window := CurrentWindow(PeriodMonth, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))

	items := []models.Item{
		soldItem(time.Date(2026, time.January, 15, 14, 0, 0, 0, time.UTC), "50", "20", "5", "0"),
	}
	expenses := []models.Expense{
		{ID: uuid.New(), Amount: dec("10"), ExpenseDate: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)},
	}

	m := Calculate(items, expenses, window)

	assert.True(t, m.Revenue.Equal(dec("50")), "revenue %s", m.Revenue)
	assert.True(t, m.COGS.Equal(dec("20")), "cogs %s", m.COGS)
	assert.True(t, m.Fees.Equal(dec("5")), "fees %s", m.Fees)
	assert.True(t, m.Expenses.Equal(dec("10")), "expenses %s", m.Expenses)
	assert.True(t, m.NetProfit.Equal(dec("15")), "net %s", m.NetProfit)
	assert.True(t, m.ROIPercent.Equal(dec("50")), "roi %s", m.ROIPercent)
	assert.Equal(t, 1, m.ItemsSold)
}

func TestCalculateIgnoresUnsoldAndOutOfWindow(t *testing.T) {
	window := CurrentWindow(PeriodMonth, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))

	listed := models.Item{
		ID:           uuid.New(),
		Status:       enums.ItemStatusListed,
		ListingPrice: decPtr("99"),
		ListedAt:     timePtr(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)),
	}
	soldFebruary := soldItem(time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), "40", "10", "", "")
	soldNoDate := models.Item{ID: uuid.New(), Status: enums.ItemStatusSold, SalePrice: decPtr("40")}

	m := Calculate([]models.Item{listed, soldFebruary, soldNoDate}, nil, window)

	assert.True(t, m.Revenue.IsZero())
	assert.Equal(t, 0, m.ItemsSold)
}

func TestCalculateCOGSFallsBackToPurchaseCost(t *testing.T) {
	window := CurrentWindow(PeriodMonth, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))

	item := soldItem(time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), "30", "", "", "")
	item.PurchaseCost = decPtr("12")

	m := Calculate([]models.Item{item}, nil, window)
	assert.True(t, m.COGS.Equal(dec("12")), "cogs %s", m.COGS)
}

func TestCalculateExpensesCountWithoutSales(t *testing.T) {
	window := CurrentWindow(PeriodMonth, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))
	expenses := []models.Expense{
		{ID: uuid.New(), Amount: dec("25"), ExpenseDate: time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC)},
	}

	m := Calculate(nil, expenses, window)
	assert.True(t, m.Expenses.Equal(dec("25")))
	assert.True(t, m.NetProfit.Equal(dec("-25")))
	// ROI has a positive basis here (expenses alone) so it is -100%.
	assert.True(t, m.ROIPercent.Equal(dec("-100")), "roi %s", m.ROIPercent)
}

func TestCalculateROIZeroBasisIsZero(t *testing.T) {
	window := CurrentWindow(PeriodMonth, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))
	item := soldItem(time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), "30", "0", "", "")

	m := Calculate([]models.Item{item}, nil, window)
	assert.True(t, m.ROIPercent.IsZero(), "roi must be 0, not NaN/Inf; got %s", m.ROIPercent)
}

func TestSaleAtPeriodBoundaryIsIncluded(t *testing.T) {
	window := CurrentWindow(PeriodMonth, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))
	boundary := soldItem(window.End, "10", "5", "", "")

	m := Calculate([]models.Item{boundary}, nil, window)
	assert.Equal(t, 1, m.ItemsSold, "inclusive end bound")
}

func TestCalculateForPeriodIncludesPreviousMonth(t *testing.T) {
	now := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)

	items := []models.Item{
		soldItem(time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC), "100", "40", "", ""),
		soldItem(time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC), "60", "30", "", ""),
	}

	report := CalculateForPeriod(items, nil, PeriodMonth, now)

	require.NotNil(t, report.Previous)
	assert.True(t, report.Current.Revenue.Equal(dec("100")))
	assert.True(t, report.Previous.Revenue.Equal(dec("60")))
}

func TestCalculateForPeriodAllOmitsPrevious(t *testing.T) {
	report := CalculateForPeriod(nil, nil, PeriodAll, time.Now())
	assert.Nil(t, report.Previous)
}

func TestPreviewSale(t *testing.T) {
	preview := PreviewSale(dec("50"), dec("20"), dec("5"), dec("0"))
	assert.True(t, preview.NetProfit.Equal(dec("25")))
	assert.True(t, preview.ROIPercent.Equal(dec("125")), "roi %s", preview.ROIPercent)

	free := PreviewSale(dec("50"), dec("0"), dec("0"), dec("0"))
	assert.True(t, free.ROIPercent.IsZero(), "zero basis must not divide")
}
