package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

// Service exposes catalog management: brands, categories, products and their
// images. Stock is read-only here; it moves only through sales conversion and
// purchase receipt.
type Service interface {
	CreateBrand(ctx context.Context, name string) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrand(ctx context.Context, id uint) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id uint, input UpdateBrandInput) (*models.Brand, error)
	DisableBrand(ctx context.Context, id uint) error

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, input UpdateCategoryInput) (*models.Category, error)
	DisableCategory(ctx context.Context, id uint) error

	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error)
	DisableProduct(ctx context.Context, id uint) error
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description string
}

// UpdateBrandInput holds optional mutation values for a brand.
type UpdateBrandInput struct {
	Name   *string
	Active *bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Active      *bool
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID    uint
	BrandID       uint
	Name          string
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	Stock         int
	MinStock      int
	Description   string
	ImageURLs     []string
}

// UpdateProductInput holds optional mutation values for a product. Stock is
// deliberately absent.
type UpdateProductInput struct {
	CategoryID    *uint
	BrandID       *uint
	Name          *string
	SalePrice     *decimal.Decimal
	PurchasePrice *decimal.Decimal
	MinStock      *int
	Description   *string
	Active        *bool
	ImageURLs     *[]string
}

type service struct {
	repo *Repository
}

// NewService constructs the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}
	brand, err := s.repo.CreateBrand(ctx, &models.Brand{Name: name, Active: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert brand")
	}
	return brand, nil
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	out, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}
	return out, nil
}

func (s *service) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	brand, err := s.repo.FindBrandByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Brand not found", "db: load brand")
	}
	return brand, nil
}

func (s *service) UpdateBrand(ctx context.Context, id uint, input UpdateBrandInput) (*models.Brand, error) {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name cannot be empty")
		}
		brand.Name = trimmed
	}
	if input.Active != nil {
		brand.Active = *input.Active
	}
	if err := s.repo.SaveBrand(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update brand")
	}
	return brand, nil
}

func (s *service) DisableBrand(ctx context.Context, id uint) error {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return err
	}
	brand.Active = false
	if err := s.repo.SaveBrand(ctx, brand); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: disable brand")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.repo.CreateCategory(ctx, &models.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Active:      true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	out, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category not found", "db: load category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uint, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		category.Name = trimmed
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}
	if input.Active != nil {
		category.Active = *input.Active
	}
	if err := s.repo.SaveCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return category, nil
}

func (s *service) DisableCategory(ctx context.Context, id uint) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	category.Active = false
	if err := s.repo.SaveCategory(ctx, category); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: disable category")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateProductPrices(input.SalePrice, input.PurchasePrice); err != nil {
		return nil, err
	}
	if input.Stock < 0 || input.MinStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock values cannot be negative")
	}
	if _, err := s.GetCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.GetBrand(ctx, input.BrandID); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:    input.CategoryID,
		BrandID:       input.BrandID,
		Name:          strings.TrimSpace(input.Name),
		SalePrice:     input.SalePrice,
		PurchasePrice: input.PurchasePrice,
		Stock:         input.Stock,
		MinStock:      input.MinStock,
		Description:   strings.TrimSpace(input.Description),
		Active:        true,
	}
	for _, url := range input.ImageURLs {
		product.Images = append(product.Images, models.ProductImage{URL: url})
	}

	if _, err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	out, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return out, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]models.Product, error) {
	out, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock")
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "db: load product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.BrandID != nil {
		if _, err := s.GetBrand(ctx, *input.BrandID); err != nil {
			return nil, err
		}
		product.BrandID = *input.BrandID
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = trimmed
	}
	salePrice := product.SalePrice
	purchasePrice := product.PurchasePrice
	if input.SalePrice != nil {
		salePrice = *input.SalePrice
	}
	if input.PurchasePrice != nil {
		purchasePrice = *input.PurchasePrice
	}
	if err := validateProductPrices(salePrice, purchasePrice); err != nil {
		return nil, err
	}
	product.SalePrice = salePrice
	product.PurchasePrice = purchasePrice
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_stock cannot be negative")
		}
		product.MinStock = *input.MinStock
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	product.Images = nil
	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	if input.ImageURLs != nil {
		images := make([]models.ProductImage, 0, len(*input.ImageURLs))
		for _, url := range *input.ImageURLs {
			images = append(images, models.ProductImage{URL: url})
		}
		if err := s.repo.ReplaceProductImages(ctx, id, images); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product images")
		}
	}

	return s.GetProduct(ctx, id)
}

// DisableProduct soft-deletes by clearing the active flag so historic sale
// and order lines keep a valid product reference.
func (s *service) DisableProduct(ctx context.Context, id uint) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	product.Active = false
	product.Images = nil
	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: disable product")
	}
	return nil
}

func validateProductPrices(salePrice, purchasePrice decimal.Decimal) error {
	if salePrice.IsNegative() || purchasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	return nil
}

func notFoundOr(err error, notFoundMsg, wrapMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMsg)
}
