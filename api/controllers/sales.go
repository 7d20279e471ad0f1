package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/sales"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type saleItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
	Discount  decimal.Decimal `json:"discount"`
}

type saleCreateRequest struct {
	ClientID      uint              `json:"client_id" validate:"required"`
	EmployeeID    uint              `json:"employee_id" validate:"required"`
	StatusID      uint              `json:"status_id" validate:"required"`
	AppointmentID *uint             `json:"appointment_id,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer"`
	Items         []saleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// CreateSale registers a direct point-of-sale transaction and decrements
// product stock in the same transaction.
func CreateSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saleCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := sales.CreateSaleInput{
			ClientID:      req.ClientID,
			EmployeeID:    req.EmployeeID,
			StatusID:      req.StatusID,
			AppointmentID: req.AppointmentID,
			PaymentMethod: enums.PaymentMethod(req.PaymentMethod),
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, sales.SaleItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Discount:  item.Discount,
			})
		}
		sale, err := svc.CreateSale(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Sale created", map[string]any{"sale": sale})
	}
}

func ListSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListSales(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ListSaleStatuses(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := svc.ListStatuses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, statuses)
	}
}

// RegisterPayment records a partial or full payment against a sale. The
// running total of payments may never exceed the sale total.
func RegisterPayment(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req paymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.RegisterPayment(r.Context(), saleID, req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Payment registered", map[string]any{"payment": payment})
	}
}

func ListSalePayments(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payments, err := svc.ListPayments(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payments)
	}
}
