package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/config"
	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Client{},
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.SaleStatus{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), testTxRunner{db: conn}, config.ConversionConfig{
		DefaultEmployeeID:   1,
		DefaultSaleStatusID: 1,
	}, nil)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, id uint, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         id,
		CategoryID: 1,
		BrandID:    1,
		Name:       "Test frame",
		SalePrice:  decimal.NewFromInt(50),
		Stock:      stock,
		Active:     true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func seedOrder(t *testing.T, conn *gorm.DB, id uint, status enums.OrderStatus, items []models.OrderItem) *models.Order {
	t.Helper()

	total := decimal.Zero
	for i := range items {
		items[i].Subtotal = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		total = total.Add(items[i].Subtotal)
	}
	order := &models.Order{
		ID:            id,
		ClientID:      1,
		UserID:        1,
		Total:         total,
		PaymentMethod: enums.PaymentMethodCash,
		Status:        status,
		Items:         items,
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestConvertToSaleHappyPath(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seedProduct(t, conn, 3, 5)
	seedOrder(t, conn, 7, enums.OrderStatusConfirmed, []models.OrderItem{
		{ProductID: 3, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
	})

	result, err := svc.ConvertToSale(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotZero(t, result.SaleID)

	require.NotNil(t, result.Order.SaleID)
	assert.Equal(t, result.SaleID, *result.Order.SaleID)
	assert.Equal(t, enums.OrderStatusProcessed, result.Order.Status)

	var sale models.Sale
	require.NoError(t, conn.Preload("Items").First(&sale, result.SaleID).Error)
	assert.Equal(t, uint(1), sale.ClientID)
	assert.Equal(t, uint(1), sale.EmployeeID)
	assert.Equal(t, uint(1), sale.StatusID)
	assert.Equal(t, enums.PaymentMethodCash, sale.PaymentMethod)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(100)))

	require.Len(t, sale.Items, 1)
	assert.Equal(t, uint(3), sale.Items[0].ProductID)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.True(t, sale.Items[0].UnitPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, sale.Items[0].Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, sale.Items[0].Discount.IsZero())

	var product models.Product
	require.NoError(t, conn.First(&product, 3).Error)
	assert.Equal(t, 3, product.Stock)
}

func TestConvertToSaleCopiesEveryItem(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seedProduct(t, conn, 1, 10)
	seedProduct(t, conn, 2, 10)
	seedProduct(t, conn, 3, 10)
	seedOrder(t, conn, 1, enums.OrderStatusConfirmed, []models.OrderItem{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		{ProductID: 2, Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
		{ProductID: 3, Quantity: 3, UnitPrice: decimal.NewFromInt(30)},
	})

	result, err := svc.ConvertToSale(ctx, 1)
	require.NoError(t, err)

	var items []models.SaleItem
	require.NoError(t, conn.Where("sale_id = ?", result.SaleID).Order("product_id").Find(&items).Error)
	require.Len(t, items, 3)

	for i, item := range items {
		assert.Equal(t, uint(i+1), item.ProductID)
		assert.Equal(t, i+1, item.Quantity)
	}

	var stocks []models.Product
	require.NoError(t, conn.Order("id").Find(&stocks).Error)
	assert.Equal(t, 9, stocks[0].Stock)
	assert.Equal(t, 8, stocks[1].Stock)
	assert.Equal(t, 7, stocks[2].Stock)
}

func TestConvertToSaleRejectsNonConfirmedOrder(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seedProduct(t, conn, 3, 5)
	seedOrder(t, conn, 9, enums.OrderStatusPending, []models.OrderItem{
		{ProductID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	})

	result, err := svc.ConvertToSale(ctx, 9)
	require.Error(t, err)
	assert.Nil(t, result)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, "Order must be confirmed to convert to sale", typed.Message())

	// nothing written, nothing decremented
	var saleCount int64
	require.NoError(t, conn.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)

	var product models.Product
	require.NoError(t, conn.First(&product, 3).Error)
	assert.Equal(t, 5, product.Stock)

	var order models.Order
	require.NoError(t, conn.First(&order, 9).Error)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Nil(t, order.SaleID)
}

func TestConvertToSaleGuardsAgainstReconversion(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seedProduct(t, conn, 3, 5)
	seedOrder(t, conn, 7, enums.OrderStatusConfirmed, []models.OrderItem{
		{ProductID: 3, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
	})

	_, err := svc.ConvertToSale(ctx, 7)
	require.NoError(t, err)

	result, err := svc.ConvertToSale(ctx, 7)
	require.Error(t, err)
	assert.Nil(t, result)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// one sale only, stock decremented once
	var saleCount int64
	require.NoError(t, conn.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Equal(t, int64(1), saleCount)

	var product models.Product
	require.NoError(t, conn.First(&product, 3).Error)
	assert.Equal(t, 3, product.Stock)
}

func TestConvertToSaleClampsStockAtZero(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seedProduct(t, conn, 3, 1)
	seedOrder(t, conn, 7, enums.OrderStatusConfirmed, []models.OrderItem{
		{ProductID: 3, Quantity: 4, UnitPrice: decimal.NewFromInt(50)},
	})

	result, err := svc.ConvertToSale(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, result)

	var product models.Product
	require.NoError(t, conn.First(&product, 3).Error)
	assert.Equal(t, 0, product.Stock)
}

func TestConvertToSaleMissingOrder(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.ConvertToSale(context.Background(), 404)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestConvertToSaleRejectsEmptyOrder(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)

	seedOrder(t, conn, 5, enums.OrderStatusConfirmed, nil)

	_, err := svc.ConvertToSale(context.Background(), 5)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCreateOrderComputesTotals(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		ClientID:       1,
		UserID:         1,
		PaymentMethod:  enums.PaymentMethodTransfer,
		DeliveryMethod: enums.DeliveryMethodHomeDelivery,
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromFloat(12.5)},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(55)), "total was %s", order.Total)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(25)))
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{ClientID: 1, UserID: 1})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListByClientFiltersOrders(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seedProduct(t, conn, 3, 5)
	seedOrder(t, conn, 7, enums.OrderStatusPending, []models.OrderItem{
		{ProductID: 3, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	})
	require.NoError(t, conn.Create(&models.Order{
		ID: 8, ClientID: 2, UserID: 1, Total: decimal.NewFromInt(50),
		PaymentMethod: enums.PaymentMethodCash, Status: enums.OrderStatusPending,
	}).Error)

	mine, err := svc.ListByClient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, uint(7), mine[0].ID)
	assert.Len(t, mine[0].Items, 1)

	none, err := svc.ListByClient(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateStatusTransitions(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seedOrder(t, conn, 1, enums.OrderStatusPending, []models.OrderItem{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	})

	order, err := svc.UpdateStatus(ctx, 1, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)

	// confirmed -> pending is not a defined transition
	_, err = svc.UpdateStatus(ctx, 1, enums.OrderStatusPending)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// processed is reserved for conversion
	_, err = svc.UpdateStatus(ctx, 1, enums.OrderStatusProcessed)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
