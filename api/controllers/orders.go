package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/api/middleware"
	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/orders"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type orderItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

type orderCreateRequest struct {
	ClientID        uint               `json:"client_id" validate:"required"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=cash card transfer"`
	DeliveryMethod  string             `json:"delivery_method" validate:"required,oneof=store_pickup home_delivery"`
	DeliveryAddress string             `json:"delivery_address" validate:"max=255"`
	PaymentProofURL *string            `json:"payment_proof_url,omitempty" validate:"omitempty,url"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrder registers a customer order with its items. Totals are computed
// server side; stock does not move until the order is converted to a sale.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := orders.CreateOrderInput{
			ClientID:        req.ClientID,
			UserID:          middleware.UserIDFromContext(r.Context()),
			PaymentMethod:   enums.PaymentMethod(req.PaymentMethod),
			DeliveryMethod:  enums.DeliveryMethod(req.DeliveryMethod),
			DeliveryAddress: req.DeliveryAddress,
			PaymentProofURL: req.PaymentProofURL,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, orders.OrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Order created", map[string]any{"order": order})
	}
}

func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListClientOrders returns a client's order history with items nested.
func ListClientOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByClient(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetOrder returns the order with its items and client nested.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ListOrderItems(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListOrderItems(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// UpdateOrderStatus moves an order along its lifecycle. The processed status
// is reserved for conversion and cannot be set here.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateStatus(r.Context(), id, enums.OrderStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Order updated", map[string]any{"order": order})
	}
}

// ConvertOrderToSale turns a confirmed order into a sale, decrementing stock
// and marking the order processed, all in one transaction.
func ConvertOrderToSale(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ConvertToSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Order converted to sale", map[string]any{
			"sale_id": result.SaleID,
			"order":   result.Order,
		})
	}
}
