package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/suppliers"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type supplierRequest struct {
	Kind           string `json:"kind" validate:"max=20"`
	DocumentType   string `json:"document_type" validate:"max=4"`
	DocumentNumber string `json:"document_number" validate:"max=20"`
	LegalName      string `json:"legal_name" validate:"required,min=1,max=60"`
	ContactName    string `json:"contact_name" validate:"max=50"`
	Phone          string `json:"phone" validate:"max=20"`
	Email          string `json:"email" validate:"omitempty,email,max=50"`
	Department     string `json:"department" validate:"max=30"`
	Municipality   string `json:"municipality" validate:"max=30"`
	Address        string `json:"address" validate:"max=60"`
}

func (req supplierRequest) toInput() suppliers.SupplierInput {
	return suppliers.SupplierInput{
		Kind:           req.Kind,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		LegalName:      req.LegalName,
		ContactName:    req.ContactName,
		Phone:          req.Phone,
		Email:          req.Email,
		Department:     req.Department,
		Municipality:   req.Municipality,
		Address:        req.Address,
	}
}

type purchaseItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

type purchaseRequest struct {
	SupplierID uint                  `json:"supplier_id" validate:"required"`
	Items      []purchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

func CreateSupplier(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req supplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.CreateSupplier(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Supplier created", map[string]any{"supplier": supplier})
	}
}

func ListSuppliers(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListSuppliers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateSupplier(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req supplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.UpdateSupplier(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Supplier updated", map[string]any{"supplier": supplier})
	}
}

func DisableSupplier(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableSupplier(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Supplier disabled", nil)
	}
}

// ReceivePurchase registers a stock receipt: the purchase with its items plus
// the matching product stock increments, all in one transaction.
func ReceivePurchase(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := suppliers.PurchaseInput{SupplierID: req.SupplierID}
		for _, item := range req.Items {
			input.Items = append(input.Items, suppliers.PurchaseItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		purchase, err := svc.ReceivePurchase(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Purchase registered", map[string]any{"purchase": purchase})
	}
}

func ListPurchases(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListPurchases(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetPurchase(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchase, err := svc.GetPurchase(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchase)
	}
}
