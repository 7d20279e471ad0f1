package people

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

// Service exposes client, employee, schedule, and prescription management.
type Service interface {
	CreateClient(ctx context.Context, input ClientInput) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	UpdateClient(ctx context.Context, id uint, input ClientInput) (*models.Client, error)
	DisableClient(ctx context.Context, id uint) error

	CreateEmployee(ctx context.Context, input EmployeeInput) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id uint, input EmployeeInput) (*models.Employee, error)
	DisableEmployee(ctx context.Context, id uint) error
	ReplaceSchedules(ctx context.Context, employeeID uint, inputs []ScheduleInput) (*models.Employee, error)

	CreatePrescription(ctx context.Context, input PrescriptionInput) (*models.Prescription, error)
	ListClientPrescriptions(ctx context.Context, clientID uint) ([]models.Prescription, error)
}

// ClientInput holds the payload to create or fully update a client.
type ClientInput struct {
	DocumentType   string
	DocumentNumber string
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	Gender         string
	Phone          string
	Email          string
	Municipality   string
	Address        string
	Occupation     string
	EmergencyPhone string
}

// EmployeeInput holds the payload to create or fully update an employee.
type EmployeeInput struct {
	DocumentType   string
	DocumentNumber string
	Name           string
	Phone          string
	Address        string
	HiredAt        time.Time
	Position       string
}

// ScheduleInput is one weekly working block. Weekday runs 0-6 starting on
// Monday; times use the HH:MM wall-clock format.
type ScheduleInput struct {
	Weekday   int
	StartTime string
	EndTime   string
}

// PrescriptionInput records one optical formula measurement.
type PrescriptionInput struct {
	ClientID    uint
	Description string
	ODSphere    string
	ODCylinder  string
	ODAxis      string
	OSSphere    string
	OSCylinder  string
	OSAxis      string
}

type service struct {
	repo *Repository
}

// NewService constructs the people service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("people repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateClient(ctx context.Context, input ClientInput) (*models.Client, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client first and last name are required")
	}
	client := clientFromInput(input)
	client.Active = true
	if _, err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert client")
	}
	return client, nil
}

func (s *service) ListClients(ctx context.Context) ([]models.Client, error) {
	out, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clients")
	}
	return out, nil
}

func (s *service) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.repo.FindClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load client")
	}
	return client, nil
}

func (s *service) UpdateClient(ctx context.Context, id uint, input ClientInput) (*models.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client first and last name are required")
	}
	updated := clientFromInput(input)
	updated.ID = client.ID
	updated.Active = client.Active
	if err := s.repo.SaveClient(ctx, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update client")
	}
	return updated, nil
}

func (s *service) DisableClient(ctx context.Context, id uint) error {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return err
	}
	client.Active = false
	if err := s.repo.SaveClient(ctx, client); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: disable client")
	}
	return nil
}

func (s *service) CreateEmployee(ctx context.Context, input EmployeeInput) (*models.Employee, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee name is required")
	}
	if strings.TrimSpace(input.DocumentNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee document number is required")
	}
	employee := employeeFromInput(input)
	employee.Active = true
	if _, err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert employee")
	}
	return employee, nil
}

func (s *service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	out, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list employees")
	}
	return out, nil
}

func (s *service) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.repo.FindEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
	}
	return employee, nil
}

func (s *service) UpdateEmployee(ctx context.Context, id uint, input EmployeeInput) (*models.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee name is required")
	}
	updated := employeeFromInput(input)
	updated.ID = employee.ID
	updated.Active = employee.Active
	updated.Schedules = nil
	if err := s.repo.SaveEmployee(ctx, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update employee")
	}
	return s.GetEmployee(ctx, id)
}

func (s *service) DisableEmployee(ctx context.Context, id uint) error {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	employee.Active = false
	employee.Schedules = nil
	if err := s.repo.SaveEmployee(ctx, employee); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: disable employee")
	}
	return nil
}

func (s *service) ReplaceSchedules(ctx context.Context, employeeID uint, inputs []ScheduleInput) (*models.Employee, error) {
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	schedules := make([]models.Schedule, 0, len(inputs))
	for _, input := range inputs {
		if input.Weekday < 0 || input.Weekday > 6 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weekday must be between 0 and 6")
		}
		if !validClockTime(input.StartTime) || !validClockTime(input.EndTime) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "schedule times must use the HH:MM format")
		}
		if input.StartTime >= input.EndTime {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "schedule start must precede end")
		}
		schedules = append(schedules, models.Schedule{
			Weekday:   input.Weekday,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			Active:    true,
		})
	}

	if err := s.repo.ReplaceSchedules(ctx, employeeID, schedules); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace schedules")
	}
	return s.GetEmployee(ctx, employeeID)
}

func (s *service) CreatePrescription(ctx context.Context, input PrescriptionInput) (*models.Prescription, error) {
	if _, err := s.GetClient(ctx, input.ClientID); err != nil {
		return nil, err
	}
	prescription := &models.Prescription{
		ClientID:    input.ClientID,
		Description: strings.TrimSpace(input.Description),
		ODSphere:    input.ODSphere,
		ODCylinder:  input.ODCylinder,
		ODAxis:      input.ODAxis,
		OSSphere:    input.OSSphere,
		OSCylinder:  input.OSCylinder,
		OSAxis:      input.OSAxis,
	}
	if _, err := s.repo.CreatePrescription(ctx, prescription); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert prescription")
	}
	return prescription, nil
}

func (s *service) ListClientPrescriptions(ctx context.Context, clientID uint) ([]models.Prescription, error) {
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListPrescriptionsByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list prescriptions")
	}
	return out, nil
}

func clientFromInput(input ClientInput) *models.Client {
	return &models.Client{
		DocumentType:   strings.TrimSpace(input.DocumentType),
		DocumentNumber: strings.TrimSpace(input.DocumentNumber),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		BirthDate:      input.BirthDate,
		Gender:         strings.TrimSpace(input.Gender),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          strings.TrimSpace(input.Email),
		Municipality:   strings.TrimSpace(input.Municipality),
		Address:        strings.TrimSpace(input.Address),
		Occupation:     strings.TrimSpace(input.Occupation),
		EmergencyPhone: strings.TrimSpace(input.EmergencyPhone),
	}
}

func employeeFromInput(input EmployeeInput) *models.Employee {
	return &models.Employee{
		DocumentType:   strings.TrimSpace(input.DocumentType),
		DocumentNumber: strings.TrimSpace(input.DocumentNumber),
		Name:           strings.TrimSpace(input.Name),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		HiredAt:        input.HiredAt,
		Position:       strings.TrimSpace(input.Position),
	}
}

// validClockTime accepts HH:MM between 00:00 and 23:59.
func validClockTime(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}
