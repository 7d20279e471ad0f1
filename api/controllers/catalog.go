package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/catalog"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type brandRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type brandUpdateRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Active *bool   `json:"active,omitempty"`
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=100"`
}

type categoryUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=100"`
	Active      *bool   `json:"active,omitempty"`
}

type productCreateRequest struct {
	CategoryID    uint            `json:"category_id" validate:"required"`
	BrandID       uint            `json:"brand_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=1,max=60"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock" validate:"gte=0"`
	MinStock      int             `json:"min_stock" validate:"gte=0"`
	Description   string          `json:"description" validate:"max=120"`
	ImageURLs     []string        `json:"image_urls" validate:"dive,url"`
}

type productUpdateRequest struct {
	CategoryID    *uint            `json:"category_id,omitempty"`
	BrandID       *uint            `json:"brand_id,omitempty"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=60"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	MinStock      *int             `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=120"`
	Active        *bool            `json:"active,omitempty"`
	ImageURLs     *[]string        `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}

func CreateBrand(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req brandRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.CreateBrand(r.Context(), req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Brand created", map[string]any{"brand": brand})
	}
}

func ListBrands(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brands)
	}
}

func UpdateBrand(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req brandUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.UpdateBrand(r.Context(), id, catalog.UpdateBrandInput{Name: req.Name, Active: req.Active})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Brand updated", map[string]any{"brand": brand})
	}
}

func DisableBrand(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableBrand(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Brand disabled", nil)
	}
}

func CreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Category created", map[string]any{"category": category})
	}
}

func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func UpdateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req categoryUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.UpdateCategory(r.Context(), id, catalog.UpdateCategoryInput{
			Name:        req.Name,
			Description: req.Description,
			Active:      req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Category updated", map[string]any{"category": category})
	}
}

func DisableCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Category disabled", nil)
	}
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			CategoryID:    req.CategoryID,
			BrandID:       req.BrandID,
			Name:          req.Name,
			SalePrice:     req.SalePrice,
			PurchasePrice: req.PurchasePrice,
			Stock:         req.Stock,
			MinStock:      req.MinStock,
			Description:   req.Description,
			ImageURLs:     req.ImageURLs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Product created", map[string]any{"product": product})
	}
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ListLowStockProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req productUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			CategoryID:    req.CategoryID,
			BrandID:       req.BrandID,
			Name:          req.Name,
			SalePrice:     req.SalePrice,
			PurchasePrice: req.PurchasePrice,
			MinStock:      req.MinStock,
			Description:   req.Description,
			Active:        req.Active,
			ImageURLs:     req.ImageURLs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Product updated", map[string]any{"product": product})
	}
}

func DisableProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Product disabled", nil)
	}
}
