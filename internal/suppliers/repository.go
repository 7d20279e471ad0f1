package suppliers

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
)

// Repository wires together supplier and purchase persistence.
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

func (r *Repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *Repository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindSupplierByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *Repository) SaveSupplier(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *Repository) CreatePurchase(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *Repository) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	var out []models.Purchase
	err := r.db.WithContext(ctx).Preload("Items").Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindPurchaseByID(ctx context.Context, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).Preload("Items").First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// FindProductForUpdate locks the product row on dialects that support it.
func (r *Repository) FindProductForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := q.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) SetProductStock(ctx context.Context, id uint, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}
