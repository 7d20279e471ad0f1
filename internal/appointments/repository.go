package appointments

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
)

// Repository wires together service catalog and appointment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateOffering(ctx context.Context, offering *models.Service) (*models.Service, error) {
	if err := r.db.WithContext(ctx).Create(offering).Error; err != nil {
		return nil, err
	}
	return offering, nil
}

func (r *Repository) ListOfferings(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindOfferingByID(ctx context.Context, id uint) (*models.Service, error) {
	var offering models.Service
	if err := r.db.WithContext(ctx).First(&offering, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offering, nil
}

func (r *Repository) SaveOffering(ctx context.Context, offering *models.Service) error {
	return r.db.WithContext(ctx).Save(offering).Error
}

func (r *Repository) FindStatusByID(ctx context.Context, id uint) (*models.AppointmentStatus, error) {
	var status models.AppointmentStatus
	if err := r.db.WithContext(ctx).First(&status, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *Repository) ListStatuses(ctx context.Context) ([]models.AppointmentStatus, error) {
	var out []models.AppointmentStatus
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) CreateAppointment(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return nil, err
	}
	return appointment, nil
}

func (r *Repository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Status").
		Order("date, start_time").
		Find(&out).Error
	return out, err
}

func (r *Repository) FindAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Employee").
		Preload("Status").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *Repository) SaveAppointment(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// ListByEmployeeAndDate returns the employee's appointments on a calendar day.
func (r *Repository) ListByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		Order("start_time").
		Find(&out).Error
	return out, err
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Service").
		Where("employee_id = ?", employeeID).
		Order("date, start_time").
		Find(&out).Error
	return out, err
}
