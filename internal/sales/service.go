package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

// Service exposes direct point-of-sale registration and installment payments.
// Direct sales decrement stock the same way order conversion does.
type Service interface {
	CreateSale(ctx context.Context, input CreateSaleInput) (*models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	GetSale(ctx context.Context, id uint) (*models.Sale, error)
	ListStatuses(ctx context.Context) ([]models.SaleStatus, error)
	RegisterPayment(ctx context.Context, saleID uint, amount decimal.Decimal) (*models.Payment, error)
	ListPayments(ctx context.Context, saleID uint) ([]models.Payment, error)
}

// CreateSaleInput holds the validated payload to register a sale.
type CreateSaleInput struct {
	ClientID      uint
	EmployeeID    uint
	StatusID      uint
	AppointmentID *uint
	PaymentMethod enums.PaymentMethod
	Items         []SaleItemInput
}

// SaleItemInput is one sold product line.
type SaleItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	dbClient txRunner
	logg     *logger.Logger
}

// NewService constructs the sales service.
func NewService(repo *Repository, dbClient txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

// CreateSale registers the sale with its items and decrements stock in one
// transaction. Line subtotals and the total are computed server-side.
func (s *service) CreateSale(ctx context.Context, input CreateSaleInput) (*models.Sale, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() || item.Discount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item amounts cannot be negative")
		}
	}

	if _, err := s.repo.FindStatusByID(ctx, input.StatusID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sale status")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sale status")
	}

	sale := &models.Sale{
		ClientID:      input.ClientID,
		EmployeeID:    input.EmployeeID,
		StatusID:      input.StatusID,
		AppointmentID: input.AppointmentID,
		PaymentMethod: input.PaymentMethod,
	}
	total := decimal.Zero
	for _, item := range input.Items {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(item.Discount)
		if subtotal.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot exceed the line amount")
		}
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	sale.Total = total

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.CreateSale(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert sale")
		}

		for _, item := range sale.Items {
			product, err := txRepo.FindProductForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("Product %d does not exist", item.ProductID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock product")
			}

			remaining := product.Stock - item.Quantity
			if remaining < 0 {
				if s.logg != nil {
					wctx := s.logg.WithFields(ctx, map[string]any{
						"product_id": product.ID,
						"requested":  item.Quantity,
						"available":  product.Stock,
					})
					s.logg.Warn(wctx, "sale.create.oversell_clamped")
				}
				remaining = 0
			}
			if err := txRepo.SetProductStock(ctx, product.ID, remaining); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product stock")
			}
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale")
	}

	return s.GetSale(ctx, sale.ID)
}

func (s *service) ListSales(ctx context.Context) ([]models.Sale, error) {
	out, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales")
	}
	return out, nil
}

func (s *service) GetSale(ctx context.Context, id uint) (*models.Sale, error) {
	sale, err := s.repo.FindSaleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sale")
	}
	return sale, nil
}

func (s *service) ListStatuses(ctx context.Context) ([]models.SaleStatus, error) {
	out, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sale statuses")
	}
	return out, nil
}

// RegisterPayment appends an installment to the sale. The running payment sum
// may not exceed the sale total.
func (s *service) RegisterPayment(ctx context.Context, saleID uint, amount decimal.Decimal) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	for _, payment := range sale.Payments {
		paid = paid.Add(payment.Amount)
	}
	if paid.Add(amount).GreaterThan(sale.Total) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Payment would exceed the sale total")
	}

	payment := &models.Payment{SaleID: saleID, Amount: amount}
	if _, err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert payment")
	}
	return payment, nil
}

func (s *service) ListPayments(ctx context.Context, saleID uint) ([]models.Payment, error) {
	if _, err := s.GetSale(ctx, saleID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListPayments(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list payments")
	}
	return out, nil
}
