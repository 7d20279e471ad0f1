package people

import (
	"context"

	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
)

// Repository wires together client, employee, schedule, and prescription
// persistence.
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

func (r *Repository) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (r *Repository) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindClientByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *Repository) SaveClient(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var out []models.Employee
	err := r.db.WithContext(ctx).Preload("Schedules").Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindEmployeeByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Preload("Schedules").First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *Repository) SaveEmployee(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// ReplaceSchedules swaps the full weekly schedule for an employee.
func (r *Repository) ReplaceSchedules(ctx context.Context, employeeID uint, schedules []models.Schedule) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("employee_id = ?", employeeID).Delete(&models.Schedule{}).Error; err != nil {
		return err
	}
	if len(schedules) == 0 {
		return nil
	}
	for i := range schedules {
		schedules[i].EmployeeID = employeeID
	}
	return tx.Create(&schedules).Error
}

func (r *Repository) CreatePrescription(ctx context.Context, prescription *models.Prescription) (*models.Prescription, error) {
	if err := r.db.WithContext(ctx).Create(prescription).Error; err != nil {
		return nil, err
	}
	return prescription, nil
}

// ListPrescriptionsByClient returns the client's formula history, newest
// first.
func (r *Repository) ListPrescriptionsByClient(ctx context.Context, clientID uint) ([]models.Prescription, error) {
	var out []models.Prescription
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC, id DESC").
		Find(&out).Error
	return out, err
}
