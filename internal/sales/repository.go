package sales

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
)

// Repository wires together sale, sale item, and payment persistence.
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

func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *Repository) ListSales(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	err := r.db.WithContext(ctx).Preload("Items").Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindSaleByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *Repository) FindStatusByID(ctx context.Context, id uint) (*models.SaleStatus, error) {
	var status models.SaleStatus
	if err := r.db.WithContext(ctx).First(&status, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *Repository) ListStatuses(ctx context.Context) ([]models.SaleStatus, error) {
	var out []models.SaleStatus
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *Repository) ListPayments(ctx context.Context, saleID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("id").
		Find(&out).Error
	return out, err
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
