package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
)

// Repository wires together brand, category, and product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var out []models.Brand
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindBrandByID(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *Repository) SaveBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).Preload("Images").Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ReplaceProductImages swaps the full image set for a product.
func (r *Repository) ReplaceProductImages(ctx context.Context, productID uint, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ProductID = productID
	}
	return tx.Create(&images).Error
}

// ListLowStock returns active products whose stock fell to or below their
// minimum threshold.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND stock <= min_stock", true).
		Order("id").
		Find(&out).Error
	return out, err
}
