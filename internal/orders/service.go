package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/config"
	"github.com/H3nrYP0/optica-api/pkg/db"
	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

// Service exposes order intake, lifecycle transitions, and the order-to-sale
// conversion workflow.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListByClient(ctx context.Context, clientID uint) ([]models.Order, error)
	ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	UpdateStatus(ctx context.Context, id uint, status enums.OrderStatus) (*models.Order, error)
	ConvertToSale(ctx context.Context, orderID uint) (*ConversionResult, error)
}

// CreateOrderInput holds the validated payload to register an order with its
// items in one call.
type CreateOrderInput struct {
	ClientID        uint
	UserID          uint
	PaymentMethod   enums.PaymentMethod
	DeliveryMethod  enums.DeliveryMethod
	DeliveryAddress string
	PaymentProofURL *string
	Items           []OrderItemInput
}

// OrderItemInput is one requested product line.
type OrderItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// ConversionResult is what a successful conversion hands back to the HTTP
// layer: the new sale id plus the order as persisted after the transition.
type ConversionResult struct {
	SaleID uint
	Order  *models.Order
}

// Allowed manual transitions. processed is reachable only through
// ConvertToSale, never through a plain status update.
var orderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:       {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:     {enums.OrderStatusInPreparation, enums.OrderStatusCancelled},
	enums.OrderStatusInPreparation: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:       {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered:     {},
	enums.OrderStatusProcessed:     {},
	enums.OrderStatusCancelled:     {},
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	dbClient txRunner
	cfg      config.ConversionConfig
	logg     *logger.Logger
}

// NewService constructs the order service.
func NewService(repo Repository, dbClient txRunner, cfg config.ConversionConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, cfg: cfg, logg: logg}, nil
}

// CreateOrder persists the order and its items in one transaction. Line
// subtotals and the order total are computed server-side from quantity and
// unit price; client-supplied totals are ignored.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
	}

	order := &models.Order{
		ClientID:        input.ClientID,
		UserID:          input.UserID,
		PaymentMethod:   input.PaymentMethod,
		DeliveryMethod:  input.DeliveryMethod,
		DeliveryAddress: input.DeliveryAddress,
		PaymentProofURL: input.PaymentProofURL,
		Status:          enums.OrderStatusPending,
	}

	total := decimal.Zero
	for _, item := range input.Items {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	order.Total = total

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}

	return s.GetOrder(ctx, order.ID)
}

func (s *service) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context) ([]models.Order, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return out, nil
}

func (s *service) ListByClient(ctx context.Context, clientID uint) ([]models.Order, error) {
	out, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list client orders")
	}
	return out, nil
}

func (s *service) ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list order items")
	}
	return items, nil
}

// UpdateStatus applies a manual lifecycle transition.
func (s *service) UpdateStatus(ctx context.Context, id uint, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if status == enums.OrderStatusProcessed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Orders are marked processed through conversion only")
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("Order cannot move from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, string(status)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	return s.GetOrder(ctx, id)
}

// ConvertToSale runs the order-to-sale workflow atomically: precondition
// checks under a row lock, sale creation, item copy, stock decrement, and
// the processed transition. Any failure rolls back the whole unit.
func (s *service) ConvertToSale(ctx context.Context, orderID uint) (*ConversionResult, error) {
	var saleID uint

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock order")
		}

		if order.SaleID != nil || order.Status == enums.OrderStatusProcessed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Order has already been converted to a sale")
		}
		if order.Status != enums.OrderStatusConfirmed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Order must be confirmed to convert to sale")
		}
		if len(order.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Order has no items to convert")
		}

		sale := &models.Sale{
			ClientID:      order.ClientID,
			StatusID:      s.cfg.DefaultSaleStatusID,
			EmployeeID:    s.cfg.DefaultEmployeeID,
			PaymentMethod: order.PaymentMethod,
			Total:         order.Total,
		}
		if _, err := txRepo.CreateSale(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert sale")
		}

		saleItems := make([]models.SaleItem, 0, len(order.Items))
		for _, item := range order.Items {
			saleItems = append(saleItems, models.SaleItem{
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Discount:  decimal.Zero,
				Subtotal:  item.Subtotal,
			})
		}
		if err := txRepo.CreateSaleItems(ctx, saleItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert sale items")
		}

		for _, item := range order.Items {
			if err := s.decrementStock(ctx, txRepo, item); err != nil {
				return err
			}
		}

		if err := txRepo.MarkConverted(ctx, order.ID, sale.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link sale to order")
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "convert order")
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &ConversionResult{SaleID: saleID, Order: order}, nil
}

// decrementStock subtracts the sold quantity under a row lock, clamping at
// zero. Overselling is tolerated and logged so the workflow never fails on a
// stock race; the clamp keeps the invariant that stock is never negative.
func (s *service) decrementStock(ctx context.Context, txRepo Repository, item models.OrderItem) error {
	product, err := txRepo.FindProductForUpdate(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("Product %d in order no longer exists", item.ProductID))
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
			s.logg.Warn(wctx, "order.convert.oversell_clamped")
		}
		remaining = 0
	}

	if err := txRepo.SetProductStock(ctx, product.ID, remaining); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product stock")
	}
	return nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range orderTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

var _ txRunner = (*db.Client)(nil)
