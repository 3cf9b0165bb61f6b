package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/api/middleware"
	"github.com/palletbase/palletbase-backend/internal/pallets"
	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
	"github.com/palletbase/palletbase-backend/pkg/logger"
)

type testPalletsService struct {
	createFn func(ctx context.Context, userID uuid.UUID, input pallets.CreatePalletInput) (*models.Pallet, error)
	listFn   func(ctx context.Context, userID uuid.UUID, status *enums.PalletStatus) ([]pallets.PalletSummary, error)
}

func (s *testPalletsService) Create(ctx context.Context, userID uuid.UUID, input pallets.CreatePalletInput) (*models.Pallet, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, input)
	}
	return &models.Pallet{}, nil
}

func (s *testPalletsService) List(ctx context.Context, userID uuid.UUID, status *enums.PalletStatus) ([]pallets.PalletSummary, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, status)
	}
	return nil, nil
}

func (s *testPalletsService) Get(context.Context, uuid.UUID, uuid.UUID) (*pallets.PalletDetail, error) {
	return nil, nil
}

func (s *testPalletsService) Update(context.Context, uuid.UUID, uuid.UUID, pallets.UpdatePalletInput) (*models.Pallet, error) {
	return nil, nil
}

func (s *testPalletsService) Complete(context.Context, uuid.UUID, uuid.UUID) (*models.Pallet, error) {
	return nil, nil
}

func (s *testPalletsService) DismissCompletionPrompt(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (s *testPalletsService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestCreatePalletParsesMoneyAndDate(t *testing.T) {
	userID := uuid.New()
	var got pallets.CreatePalletInput
	svc := &testPalletsService{
		createFn: func(_ context.Context, uid uuid.UUID, input pallets.CreatePalletInput) (*models.Pallet, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			got = input
			return &models.Pallet{Name: input.Name}, nil
		},
	}

	body := `{"name":"Liquidation lot","purchase_cost":"250.00","sales_tax":"20.63","purchase_date":"2026-03-01"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/pallets", strings.NewReader(body)), userID)
	resp := httptest.NewRecorder()
	CreatePallet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !got.PurchaseCost.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("unexpected cost %s", got.PurchaseCost)
	}
	if got.SalesTax == nil || !got.SalesTax.Equal(decimal.RequireFromString("20.63")) {
		t.Fatalf("unexpected tax %v", got.SalesTax)
	}
	if got.PurchaseDate.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("unexpected date %s", got.PurchaseDate)
	}
}

func TestCreatePalletRejectsBadMoney(t *testing.T) {
	svc := &testPalletsService{
		createFn: func(context.Context, uuid.UUID, pallets.CreatePalletInput) (*models.Pallet, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	body := `{"name":"Lot","purchase_cost":"not-money","purchase_date":"2026-03-01"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/pallets", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	CreatePallet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestCreatePalletRequiresUserContext(t *testing.T) {
	body := `{"name":"Lot","purchase_cost":"10","purchase_date":"2026-03-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreatePallet(&testPalletsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestListPalletsRejectsUnknownStatus(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/pallets?status=bogus", nil), uuid.New())
	resp := httptest.NewRecorder()
	ListPallets(&testPalletsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestListPalletsPassesStatusFilter(t *testing.T) {
	var got *enums.PalletStatus
	svc := &testPalletsService{
		listFn: func(_ context.Context, _ uuid.UUID, status *enums.PalletStatus) ([]pallets.PalletSummary, error) {
			got = status
			return []pallets.PalletSummary{}, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/pallets?status=completed", nil), uuid.New())
	resp := httptest.NewRecorder()
	ListPallets(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got == nil || *got != enums.PalletStatusCompleted {
		t.Fatalf("unexpected status filter %v", got)
	}

	var envelope struct {
		Data []pallets.PalletSummary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}
