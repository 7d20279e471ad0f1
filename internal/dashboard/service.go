package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

// Stats aggregates the counters shown on the landing dashboard.
type Stats struct {
	Clients           int64           `json:"clients"`
	Products          int64           `json:"products"`
	LowStockProducts  int64           `json:"low_stock_products"`
	Sales             int64           `json:"sales"`
	SalesToday        int64           `json:"sales_today"`
	RevenueToday      decimal.Decimal `json:"revenue_today"`
	Orders            int64           `json:"orders"`
	PendingOrders     int64           `json:"pending_orders"`
	Appointments      int64           `json:"appointments"`
	AppointmentsToday int64           `json:"appointments_today"`
}

// Service computes dashboard statistics.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService builds the dashboard service.
func NewService(db *gorm.DB) Service {
	return &service{db: db, now: time.Now}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{RevenueToday: decimal.Zero}
	conn := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Clients, conn.Model(&models.Client{}).Where("active = ?", true)},
		{&stats.Products, conn.Model(&models.Product{}).Where("active = ?", true)},
		{&stats.LowStockProducts, conn.Model(&models.Product{}).Where("active = ? AND stock <= min_stock", true)},
		{&stats.Sales, conn.Model(&models.Sale{})},
		{&stats.Orders, conn.Model(&models.Order{})},
		{&stats.PendingOrders, conn.Model(&models.Order{}).Where("status = ?", "pending")},
		{&stats.Appointments, conn.Model(&models.Appointment{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: dashboard count")
		}
	}

	dayStart := s.now().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	if err := conn.Model(&models.Sale{}).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Count(&stats.SalesToday).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count sales today")
	}

	var revenue []models.Sale
	if err := conn.Select("total").
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Find(&revenue).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum revenue today")
	}
	for _, sale := range revenue {
		stats.RevenueToday = stats.RevenueToday.Add(sale.Total)
	}

	if err := conn.Model(&models.Appointment{}).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Count(&stats.AppointmentsToday).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count appointments today")
	}

	return stats, nil
}
