package orders

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
)

// Repository defines persistence operations for orders and the rows the
// conversion writes alongside them.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByClient(ctx context.Context, clientID uint) ([]models.Order, error)
	ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	MarkConverted(ctx context.Context, id uint, saleID uint) error

	CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error)
	CreateSaleItems(ctx context.Context, items []models.SaleItem) error
	FindProductForUpdate(ctx context.Context, id uint) (*models.Product, error)
	SetProductStock(ctx context.Context, id uint, stock int) error

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Client").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// forUpdate adds a row lock on dialects that support it. SQLite serializes
// writers on the database lock, so the clause is skipped there.
func (r *repository) forUpdate(q *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// FindByIDForUpdate locks the order row for the remainder of the transaction.
// Items are loaded in a second query; order items are immutable after intake
// so they need no lock of their own.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.forUpdate(r.db.WithContext(ctx)).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("id").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *repository) ListByClient(ctx context.Context, clientID uint) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("client_id = ?", clientID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *repository) ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var out []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) MarkConverted(ctx context.Context, id uint, saleID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sale_id": saleID,
			"status":  string(enums.OrderStatusProcessed),
		}).Error
}

func (r *repository) CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *repository) CreateSaleItems(ctx context.Context, items []models.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindProductForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.forUpdate(r.db.WithContext(ctx)).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) SetProductStock(ctx context.Context, id uint, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}
