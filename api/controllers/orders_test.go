package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/internal/orders"
	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubOrdersService struct {
	convertResult *orders.ConversionResult
	convertErr    error
	convertedID   uint
}

func (s *stubOrdersService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
}

func (s *stubOrdersService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) ListByClient(ctx context.Context, clientID uint) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	return nil, nil
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, id uint, status enums.OrderStatus) (*models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) ConvertToSale(ctx context.Context, orderID uint) (*orders.ConversionResult, error) {
	s.convertedID = orderID
	if s.convertErr != nil {
		return nil, s.convertErr
	}
	return s.convertResult, nil
}

func convertRequest(t *testing.T, id string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/orders/"+id+"/convert-to-sale", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestConvertOrderToSaleResponseShape(t *testing.T) {
	saleID := uint(12)
	stub := &stubOrdersService{
		convertResult: &orders.ConversionResult{
			SaleID: saleID,
			Order: &models.Order{
				ID:     7,
				Status: enums.OrderStatusProcessed,
				SaleID: &saleID,
				Total:  decimal.NewFromInt(100),
			},
		},
	}

	rec := httptest.NewRecorder()
	ConvertOrderToSale(stub, testLogger()).ServeHTTP(rec, convertRequest(t, "7"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.convertedID != 7 {
		t.Fatalf("expected order 7 to be converted, got %d", stub.convertedID)
	}

	var body struct {
		Message string `json:"message"`
		SaleID  uint   `json:"sale_id"`
		Order   struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
			SaleID *uint  `json:"sale_id"`
		} `json:"order"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.SaleID != 12 {
		t.Fatalf("expected sale_id 12, got %d", body.SaleID)
	}
	if body.Order.Status != "processed" {
		t.Fatalf("expected processed order, got %q", body.Order.Status)
	}
	if body.Order.SaleID == nil || *body.Order.SaleID != 12 {
		t.Fatalf("expected order.sale_id 12, got %v", body.Order.SaleID)
	}
}

func TestConvertOrderToSalePreconditionFailure(t *testing.T) {
	stub := &stubOrdersService{
		convertErr: pkgerrors.New(pkgerrors.CodeStateConflict, "Order must be confirmed to convert to sale"),
	}

	rec := httptest.NewRecorder()
	ConvertOrderToSale(stub, testLogger()).ServeHTTP(rec, convertRequest(t, "9"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["error"] != "Order must be confirmed to convert to sale" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestConvertOrderToSaleInvalidID(t *testing.T) {
	stub := &stubOrdersService{}

	rec := httptest.NewRecorder()
	ConvertOrderToSale(stub, testLogger()).ServeHTTP(rec, convertRequest(t, "zero"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}
	if stub.convertedID != 0 {
		t.Fatalf("service should not be called for a bad id")
	}
}

func TestCreateOrderRejectsUnknownFields(t *testing.T) {
	stub := &stubOrdersService{}
	payload := `{"client_id":1,"payment_method":"cash","delivery_method":"store_pickup","bogus":true,"items":[{"product_id":1,"quantity":1,"unit_price":"10"}]}`

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	CreateOrder(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}
