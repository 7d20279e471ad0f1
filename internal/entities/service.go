package entities

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

// Service resolves the generic detail endpoint. The URL segment is parsed
// into an EntityKind up front, so lookups dispatch over a closed set of
// entities instead of a runtime table-name registry.
type Service interface {
	Get(ctx context.Context, kind enums.EntityKind, id uint) (any, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the generic entity lookup service.
func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

func (s *service) Get(ctx context.Context, kind enums.EntityKind, id uint) (any, error) {
	conn := s.db.WithContext(ctx)

	var (
		dest  any
		query *gorm.DB
	)
	switch kind {
	case enums.EntityProducts:
		dest = &models.Product{}
		query = conn.Preload("Images")
	case enums.EntityClients:
		dest = &models.Client{}
		query = conn
	case enums.EntityEmployees:
		dest = &models.Employee{}
		query = conn.Preload("Schedules")
	case enums.EntitySuppliers:
		dest = &models.Supplier{}
		query = conn
	case enums.EntitySales:
		dest = &models.Sale{}
		query = conn.Preload("Items").Preload("Payments")
	case enums.EntityAppointments:
		dest = &models.Appointment{}
		query = conn.Preload("Client").Preload("Service").Preload("Employee").Preload("Status")
	case enums.EntityServices:
		dest = &models.Service{}
		query = conn
	case enums.EntityUsers:
		dest = &models.User{}
		query = conn.Preload("Role")
	case enums.EntityBrands:
		dest = &models.Brand{}
		query = conn
	case enums.EntityCategories:
		dest = &models.Category{}
		query = conn
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Unknown resource %q", kind))
	}

	if err := query.First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("%s %d not found", kind.Singular(), id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load entity")
	}
	return dest, nil
}
