package sales

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

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

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Product{},
		&models.SaleStatus{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
	))
	require.NoError(t, conn.Create(&models.SaleStatus{ID: 1, Name: "pending"}).Error)
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), testTxRunner{db: conn}, nil)
	require.NoError(t, err)
	return svc
}

func seedSaleProduct(t *testing.T, conn *gorm.DB, id uint, stock int) {
	t.Helper()

	require.NoError(t, conn.Create(&models.Product{
		ID:         id,
		CategoryID: 1,
		BrandID:    1,
		Name:       "Lens cleaner",
		SalePrice:  decimal.NewFromInt(15),
		Stock:      stock,
		Active:     true,
	}).Error)
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	conn := setupSalesTestDB(t)
	svc := newTestService(t, conn)
	seedSaleProduct(t, conn, 1, 8)

	sale, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      1,
		EmployeeID:    1,
		StatusID:      1,
		PaymentMethod: enums.PaymentMethodCard,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: 3, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)

	assert.True(t, sale.Total.Equal(decimal.NewFromInt(45)))

	var product models.Product
	require.NoError(t, conn.First(&product, 1).Error)
	assert.Equal(t, 5, product.Stock)
}

func TestCreateSaleAppliesDiscount(t *testing.T) {
	conn := setupSalesTestDB(t)
	svc := newTestService(t, conn)
	seedSaleProduct(t, conn, 1, 8)

	sale, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      1,
		EmployeeID:    1,
		StatusID:      1,
		PaymentMethod: enums.PaymentMethodCash,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(15), Discount: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	assert.True(t, sale.Total.Equal(decimal.NewFromInt(25)))
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].Discount.Equal(decimal.NewFromInt(5)))
}

func TestCreateSaleUnknownStatus(t *testing.T) {
	conn := setupSalesTestDB(t)
	svc := newTestService(t, conn)
	seedSaleProduct(t, conn, 1, 8)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      1,
		EmployeeID:    1,
		StatusID:      42,
		PaymentMethod: enums.PaymentMethodCash,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateSaleUnknownProductRollsBack(t *testing.T) {
	conn := setupSalesTestDB(t)
	svc := newTestService(t, conn)
	seedSaleProduct(t, conn, 1, 8)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		ClientID:      1,
		EmployeeID:    1,
		StatusID:      1,
		PaymentMethod: enums.PaymentMethodCash,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
			{ProductID: 999, Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.Error(t, err)

	var saleCount int64
	require.NoError(t, conn.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)

	var product models.Product
	require.NoError(t, conn.First(&product, 1).Error)
	assert.Equal(t, 8, product.Stock)
}

func TestRegisterPaymentCapsAtTotal(t *testing.T) {
	conn := setupSalesTestDB(t)
	svc := newTestService(t, conn)
	seedSaleProduct(t, conn, 1, 8)
	ctx := context.Background()

	sale, err := svc.CreateSale(ctx, CreateSaleInput{
		ClientID:      1,
		EmployeeID:    1,
		StatusID:      1,
		PaymentMethod: enums.PaymentMethodCash,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)

	_, err = svc.RegisterPayment(ctx, sale.ID, decimal.NewFromInt(20))
	require.NoError(t, err)

	// 20 paid of 30: another 20 would overshoot
	_, err = svc.RegisterPayment(ctx, sale.ID, decimal.NewFromInt(20))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	_, err = svc.RegisterPayment(ctx, sale.ID, decimal.NewFromInt(10))
	require.NoError(t, err)

	payments, err := svc.ListPayments(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
}

func TestRegisterPaymentValidation(t *testing.T) {
	conn := setupSalesTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.RegisterPayment(context.Background(), 1, decimal.Zero)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.RegisterPayment(context.Background(), 99, decimal.NewFromInt(5))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
