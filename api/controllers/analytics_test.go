package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/internal/analytics"
	"github.com/palletbase/palletbase-backend/internal/profit"
)

type testAnalyticsService struct {
	reportFn  func(ctx context.Context, userID uuid.UUID, period profit.Period) (*profit.Report, error)
	windowFn  func(ctx context.Context, userID uuid.UUID, from, to time.Time) (*profit.Metrics, error)
	previewFn func(ctx context.Context, userID, itemID uuid.UUID, input analytics.PreviewInput) (*profit.SalePreview, error)
}

func (s *testAnalyticsService) Dashboard(context.Context, uuid.UUID) (*analytics.Dashboard, error) {
	return &analytics.Dashboard{}, nil
}

func (s *testAnalyticsService) Report(ctx context.Context, userID uuid.UUID, period profit.Period) (*profit.Report, error) {
	if s.reportFn != nil {
		return s.reportFn(ctx, userID, period)
	}
	return &profit.Report{Period: period}, nil
}

func (s *testAnalyticsService) WindowMetrics(ctx context.Context, userID uuid.UUID, from, to time.Time) (*profit.Metrics, error) {
	if s.windowFn != nil {
		return s.windowFn(ctx, userID, from, to)
	}
	return &profit.Metrics{}, nil
}

func (s *testAnalyticsService) QuickSellPreview(ctx context.Context, userID, itemID uuid.UUID, input analytics.PreviewInput) (*profit.SalePreview, error) {
	if s.previewFn != nil {
		return s.previewFn(ctx, userID, itemID, input)
	}
	return &profit.SalePreview{}, nil
}

func TestProfitReportDefaultsToMonth(t *testing.T) {
	var got profit.Period
	svc := &testAnalyticsService{
		reportFn: func(_ context.Context, _ uuid.UUID, period profit.Period) (*profit.Report, error) {
			got = period
			return &profit.Report{Period: period}, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/profit", nil), uuid.New())
	resp := httptest.NewRecorder()
	ProfitReport(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got != profit.PeriodMonth {
		t.Fatalf("unexpected period %q", got)
	}
}

func TestProfitReportRejectsPeriodWithWindow(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/profit?period=week&from=2026-01-01", nil), uuid.New())
	resp := httptest.NewRecorder()
	ProfitReport(&testAnalyticsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestProfitReportWindowRequiresBothBounds(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/profit?from=2026-01-01", nil), uuid.New())
	resp := httptest.NewRecorder()
	ProfitReport(&testAnalyticsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestProfitReportCustomWindow(t *testing.T) {
	var gotFrom, gotTo time.Time
	svc := &testAnalyticsService{
		windowFn: func(_ context.Context, _ uuid.UUID, from, to time.Time) (*profit.Metrics, error) {
			gotFrom, gotTo = from, to
			return &profit.Metrics{}, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/profit?from=2026-01-01&to=2026-02-01", nil), uuid.New())
	resp := httptest.NewRecorder()
	ProfitReport(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotFrom.Format("2006-01-02") != "2026-01-01" || gotTo.Format("2006-01-02") != "2026-02-01" {
		t.Fatalf("unexpected window %s..%s", gotFrom, gotTo)
	}
}

func TestQuickSellPreviewParsesPayload(t *testing.T) {
	itemID := uuid.New()
	var got analytics.PreviewInput
	svc := &testAnalyticsService{
		previewFn: func(_ context.Context, _ uuid.UUID, id uuid.UUID, input analytics.PreviewInput) (*profit.SalePreview, error) {
			if id != itemID {
				t.Fatalf("unexpected item %s", id)
			}
			got = input
			return &profit.SalePreview{SalePrice: input.SalePrice}, nil
		},
	}

	body := `{"item_id":"` + itemID.String() + `","sale_price":"45.99","platform_fee":"5.99"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/analytics/quick-sell", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	QuickSellPreview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !got.SalePrice.Equal(decimal.RequireFromString("45.99")) {
		t.Fatalf("unexpected sale price %s", got.SalePrice)
	}
	if got.PlatformFee == nil || !got.PlatformFee.Equal(decimal.RequireFromString("5.99")) {
		t.Fatalf("unexpected platform fee %v", got.PlatformFee)
	}
	if got.ShippingCost != nil {
		t.Fatalf("expected nil shipping cost, got %v", got.ShippingCost)
	}
}

func TestQuickSellPreviewRejectsMissingItem(t *testing.T) {
	body := `{"sale_price":"45.99"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/analytics/quick-sell", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	QuickSellPreview(&testAnalyticsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
