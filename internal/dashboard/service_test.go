package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Client{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.SaleStatus{},
		&models.Sale{},
		&models.Order{},
		&models.Employee{},
		&models.Service{},
		&models.AppointmentStatus{},
		&models.Appointment{},
	))
	return conn
}

func TestStatsCountsEntities(t *testing.T) {
	conn := setupDashboardTestDB(t)

	now := time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC)
	svc := &service{db: conn, now: func() time.Time { return now }}

	require.NoError(t, conn.Create(&models.Client{FirstName: "Ana", LastName: "Diaz", Active: true}).Error)
	// Select("*") forces the zero-valued active column through; a plain
	// Create drops it in favor of the schema default (true).
	require.NoError(t, conn.Select("*").Create(&models.Client{FirstName: "Old", LastName: "Row", Active: false}).Error)

	require.NoError(t, conn.Create(&models.Category{Name: "frames", Active: true}).Error)
	require.NoError(t, conn.Create(&models.Brand{Name: "acme", Active: true}).Error)
	require.NoError(t, conn.Create(&models.Product{
		CategoryID: 1, BrandID: 1, Name: "healthy", SalePrice: decimal.NewFromInt(10),
		Stock: 20, MinStock: 5, Active: true,
	}).Error)
	require.NoError(t, conn.Create(&models.Product{
		CategoryID: 1, BrandID: 1, Name: "scarce", SalePrice: decimal.NewFromInt(10),
		Stock: 2, MinStock: 5, Active: true,
	}).Error)

	require.NoError(t, conn.Create(&models.Order{
		ClientID: 1, UserID: 1, Status: enums.OrderStatusPending, Total: decimal.NewFromInt(10),
		PaymentMethod: enums.PaymentMethodCash, Date: now,
	}).Error)
	require.NoError(t, conn.Create(&models.Order{
		ClientID: 1, UserID: 1, Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(10),
		PaymentMethod: enums.PaymentMethodCash, Date: now,
	}).Error)

	require.NoError(t, conn.Create(&models.SaleStatus{Name: "paid"}).Error)
	require.NoError(t, conn.Create(&models.Employee{Name: "Luis Gomez", DocumentNumber: "100", HiredAt: now, Active: true}).Error)
	require.NoError(t, conn.Create(&models.Sale{
		ClientID: 1, EmployeeID: 1, StatusID: 1, PaymentMethod: enums.PaymentMethodCash,
		Total: decimal.NewFromInt(120), Date: now,
	}).Error)
	require.NoError(t, conn.Create(&models.Sale{
		ClientID: 1, EmployeeID: 1, StatusID: 1, PaymentMethod: enums.PaymentMethodCash,
		Total: decimal.NewFromInt(80), Date: now.AddDate(0, 0, -3),
	}).Error)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Clients)
	assert.Equal(t, int64(2), stats.Products)
	assert.Equal(t, int64(1), stats.LowStockProducts)
	assert.Equal(t, int64(2), stats.Orders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(2), stats.Sales)
	assert.Equal(t, int64(1), stats.SalesToday)
	assert.True(t, stats.RevenueToday.Equal(decimal.NewFromInt(120)),
		"revenue today = %s", stats.RevenueToday)
}
