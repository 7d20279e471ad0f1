package suppliers

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

// Service exposes supplier management and purchase receipt. Receiving a
// purchase is the only operation that increases product stock.
type Service interface {
	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id uint) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, input SupplierInput) (*models.Supplier, error)
	DisableSupplier(ctx context.Context, id uint) error

	ReceivePurchase(ctx context.Context, input PurchaseInput) (*models.Purchase, error)
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	GetPurchase(ctx context.Context, id uint) (*models.Purchase, error)
}

// SupplierInput holds the payload to create or fully update a supplier.
type SupplierInput struct {
	Kind           string
	DocumentType   string
	DocumentNumber string
	LegalName      string
	ContactName    string
	Phone          string
	Email          string
	Department     string
	Municipality   string
	Address        string
}

// PurchaseInput holds the payload to register a stock receipt.
type PurchaseInput struct {
	SupplierID uint
	Items      []PurchaseItemInput
}

// PurchaseItemInput is one received product line.
type PurchaseItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	dbClient txRunner
}

// NewService constructs the supplier service.
func NewService(repo *Repository, dbClient txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.LegalName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier legal name is required")
	}
	supplier := supplierFromInput(input)
	supplier.Active = true
	if _, err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return supplier, nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	out, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	return out, nil
}

func (s *service) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.repo.FindSupplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return supplier, nil
}

func (s *service) UpdateSupplier(ctx context.Context, id uint, input SupplierInput) (*models.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.LegalName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier legal name is required")
	}
	updated := supplierFromInput(input)
	updated.ID = supplier.ID
	updated.Active = supplier.Active
	if err := s.repo.SaveSupplier(ctx, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	return updated, nil
}

func (s *service) DisableSupplier(ctx context.Context, id uint) error {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return err
	}
	supplier.Active = false
	if err := s.repo.SaveSupplier(ctx, supplier); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: disable supplier")
	}
	return nil
}

// ReceivePurchase registers the purchase with its items and increments each
// product's stock in the same transaction.
func (s *service) ReceivePurchase(ctx context.Context, input PurchaseInput) (*models.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
	}
	if _, err := s.GetSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		SupplierID: input.SupplierID,
		Active:     true,
	}
	total := decimal.Zero
	for _, item := range input.Items {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		purchase.Items = append(purchase.Items, models.PurchaseItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	purchase.Total = total

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.CreatePurchase(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert purchase")
		}

		for _, item := range purchase.Items {
			product, err := txRepo.FindProductForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("Product %d does not exist", item.ProductID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock product")
			}
			if err := txRepo.SetProductStock(ctx, product.ID, product.Stock+item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment stock")
			}
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "receive purchase")
	}

	return s.GetPurchase(ctx, purchase.ID)
}

func (s *service) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	out, err := s.repo.ListPurchases(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchases")
	}
	return out, nil
}

func (s *service) GetPurchase(ctx context.Context, id uint) (*models.Purchase, error) {
	purchase, err := s.repo.FindPurchaseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load purchase")
	}
	return purchase, nil
}

func supplierFromInput(input SupplierInput) *models.Supplier {
	return &models.Supplier{
		Kind:           strings.TrimSpace(input.Kind),
		DocumentType:   strings.TrimSpace(input.DocumentType),
		DocumentNumber: strings.TrimSpace(input.DocumentNumber),
		LegalName:      strings.TrimSpace(input.LegalName),
		ContactName:    strings.TrimSpace(input.ContactName),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          strings.TrimSpace(input.Email),
		Department:     strings.TrimSpace(input.Department),
		Municipality:   strings.TrimSpace(input.Municipality),
		Address:        strings.TrimSpace(input.Address),
	}
}
