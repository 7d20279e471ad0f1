package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
	))
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func seedCatalog(t *testing.T, svc Service) (*models.Brand, *models.Category) {
	t.Helper()

	brand, err := svc.CreateBrand(context.Background(), "Ray-Ban")
	require.NoError(t, err)
	category, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Frames"})
	require.NoError(t, err)
	return brand, category
}

func TestCreateProduct(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	brand, category := seedCatalog(t, svc)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID:    category.ID,
		BrandID:       brand.ID,
		Name:          "Aviator Classic",
		SalePrice:     decimal.NewFromInt(120),
		PurchasePrice: decimal.NewFromInt(70),
		Stock:         10,
		MinStock:      2,
		ImageURLs:     []string{"https://cdn.example.com/aviator.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Aviator Classic", product.Name)
	assert.True(t, product.Active)
	require.Len(t, product.Images, 1)
	assert.Equal(t, "https://cdn.example.com/aviator.jpg", product.Images[0].URL)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	brand, _ := seedCatalog(t, svc)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID: 99,
		BrandID:    brand.ID,
		Name:       "Orphan",
		SalePrice:  decimal.NewFromInt(10),
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateProductReplacesImages(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	brand, category := seedCatalog(t, svc)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID: category.ID,
		BrandID:    brand.ID,
		Name:       "Wayfarer",
		SalePrice:  decimal.NewFromInt(100),
		ImageURLs:  []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	require.NoError(t, err)

	urls := []string{"https://cdn.example.com/c.jpg"}
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		ImageURLs: &urls,
	})
	require.NoError(t, err)

	require.Len(t, updated.Images, 1)
	assert.Equal(t, "https://cdn.example.com/c.jpg", updated.Images[0].URL)
}

func TestUpdateProductCannotTouchStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	brand, category := seedCatalog(t, svc)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID: category.ID,
		BrandID:    brand.ID,
		Name:       "Clubmaster",
		SalePrice:  decimal.NewFromInt(90),
		Stock:      7,
	})
	require.NoError(t, err)

	name := "Clubmaster II"
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Clubmaster II", updated.Name)
	assert.Equal(t, 7, updated.Stock)
}

func TestDisableProductKeepsRow(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	brand, category := seedCatalog(t, svc)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID: category.ID,
		BrandID:    brand.ID,
		Name:       "Round Metal",
		SalePrice:  decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DisableProduct(context.Background(), product.ID))

	reloaded, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)
}

func TestListLowStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	brand, category := seedCatalog(t, svc)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID: category.ID,
		BrandID:    brand.ID,
		Name:       "Plenty",
		SalePrice:  decimal.NewFromInt(10),
		Stock:      50,
		MinStock:   5,
	})
	require.NoError(t, err)

	low, err := svc.CreateProduct(context.Background(), CreateProductInput{
		CategoryID: category.ID,
		BrandID:    brand.ID,
		Name:       "Scarce",
		SalePrice:  decimal.NewFromInt(10),
		Stock:      2,
		MinStock:   5,
	})
	require.NoError(t, err)

	out, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, low.ID, out[0].ID)
}

func TestCreateBrandValidation(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.CreateBrand(context.Background(), "   ")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
