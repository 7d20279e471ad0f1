package entities

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

func setupEntitiesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductImage{},
		&models.Client{},
	))
	return conn
}

func TestGetDispatchesByKind(t *testing.T) {
	conn := setupEntitiesTestDB(t)
	svc := NewService(conn)

	require.NoError(t, conn.Create(&models.Category{Name: "frames", Active: true}).Error)
	require.NoError(t, conn.Create(&models.Brand{Name: "acme", Active: true}).Error)
	require.NoError(t, conn.Create(&models.Product{
		CategoryID: 1, BrandID: 1, Name: "aviator", SalePrice: decimal.NewFromInt(90),
		Stock: 3, Active: true,
	}).Error)
	require.NoError(t, conn.Create(&models.ProductImage{ProductID: 1, URL: "https://img.example.com/aviator.jpg"}).Error)
	require.NoError(t, conn.Create(&models.Client{FirstName: "Ana", LastName: "Diaz", Active: true}).Error)

	got, err := svc.Get(context.Background(), enums.EntityProducts, 1)
	require.NoError(t, err)
	product, ok := got.(*models.Product)
	require.True(t, ok)
	assert.Equal(t, "aviator", product.Name)
	require.Len(t, product.Images, 1)

	got, err = svc.Get(context.Background(), enums.EntityClients, 1)
	require.NoError(t, err)
	client, ok := got.(*models.Client)
	require.True(t, ok)
	assert.Equal(t, "Ana", client.FirstName)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	conn := setupEntitiesTestDB(t)
	svc := NewService(conn)

	_, err := svc.Get(context.Background(), enums.EntityClients, 42)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Client 42 not found", typed.Message())
}

func TestParseEntityKindRejectsUnknownSegment(t *testing.T) {
	_, err := enums.ParseEntityKind("invoices")
	require.Error(t, err)

	kind, err := enums.ParseEntityKind("appointments")
	require.NoError(t, err)
	assert.Equal(t, enums.EntityAppointments, kind)
}
