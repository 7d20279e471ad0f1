package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

// Service exposes the bookable service catalog and appointment scheduling.
type Service interface {
	CreateOffering(ctx context.Context, input OfferingInput) (*models.Service, error)
	ListOfferings(ctx context.Context) ([]models.Service, error)
	GetOffering(ctx context.Context, id uint) (*models.Service, error)
	UpdateOffering(ctx context.Context, id uint, input OfferingInput) (*models.Service, error)
	DisableOffering(ctx context.Context, id uint) error

	ListStatuses(ctx context.Context) ([]models.AppointmentStatus, error)

	Book(ctx context.Context, input BookInput) (*models.Appointment, error)
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id, statusID uint) (*models.Appointment, error)
	ListByEmployee(ctx context.Context, employeeID uint) ([]models.Appointment, error)
}

// OfferingInput holds the payload to create or update a bookable service.
type OfferingInput struct {
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	Description     string
}

// BookInput holds the payload to book an appointment slot.
type BookInput struct {
	ClientID      uint
	ServiceID     uint
	EmployeeID    uint
	StatusID      uint
	PaymentMethod enums.PaymentMethod
	Date          time.Time
	StartTime     string
}

type service struct {
	repo *Repository
}

// NewService constructs the appointments service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("appointments repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateOffering(ctx context.Context, input OfferingInput) (*models.Service, error) {
	if err := validateOffering(input); err != nil {
		return nil, err
	}
	offering := &models.Service{
		Name:            strings.TrimSpace(input.Name),
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		Description:     strings.TrimSpace(input.Description),
		Active:          true,
	}
	if _, err := s.repo.CreateOffering(ctx, offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert service")
	}
	return offering, nil
}

func (s *service) ListOfferings(ctx context.Context) ([]models.Service, error) {
	out, err := s.repo.ListOfferings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list services")
	}
	return out, nil
}

func (s *service) GetOffering(ctx context.Context, id uint) (*models.Service, error) {
	offering, err := s.repo.FindOfferingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load service")
	}
	return offering, nil
}

func (s *service) UpdateOffering(ctx context.Context, id uint, input OfferingInput) (*models.Service, error) {
	offering, err := s.GetOffering(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateOffering(input); err != nil {
		return nil, err
	}
	offering.Name = strings.TrimSpace(input.Name)
	offering.DurationMinutes = input.DurationMinutes
	offering.Price = input.Price
	offering.Description = strings.TrimSpace(input.Description)
	if err := s.repo.SaveOffering(ctx, offering); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update service")
	}
	return offering, nil
}

// DisableOffering takes a service off the bookable list; Book rejects
// inactive services while existing appointments keep their snapshot.
func (s *service) DisableOffering(ctx context.Context, id uint) error {
	offering, err := s.GetOffering(ctx, id)
	if err != nil {
		return err
	}
	offering.Active = false
	if err := s.repo.SaveOffering(ctx, offering); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: disable service")
	}
	return nil
}

func (s *service) ListStatuses(ctx context.Context) ([]models.AppointmentStatus, error) {
	out, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list appointment statuses")
	}
	return out, nil
}

// Book schedules an appointment. The duration snapshot comes from the
// service so later price or duration edits do not rewrite history, and the
// employee cannot be double-booked into an overlapping slot.
func (s *service) Book(ctx context.Context, input BookInput) (*models.Appointment, error) {
	start, err := parseClockTime(input.StartTime)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_time must use the HH:MM format")
	}

	offering, err := s.GetOffering(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if !offering.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Service is not bookable")
	}
	if _, err := s.repo.FindStatusByID(ctx, input.StatusID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown appointment status")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load appointment status")
	}

	sameDay, err := s.repo.ListByEmployeeAndDate(ctx, input.EmployeeID, input.Date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list day appointments")
	}
	end := start + offering.DurationMinutes
	for _, existing := range sameDay {
		existingStart, parseErr := parseClockTime(existing.StartTime)
		if parseErr != nil {
			continue
		}
		existingEnd := existingStart + existing.DurationMinutes
		if start < existingEnd && existingStart < end {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Employee already has an appointment in that slot")
		}
	}

	appointment := &models.Appointment{
		ClientID:        input.ClientID,
		ServiceID:       input.ServiceID,
		EmployeeID:      input.EmployeeID,
		StatusID:        input.StatusID,
		PaymentMethod:   input.PaymentMethod,
		Date:            input.Date,
		StartTime:       input.StartTime,
		DurationMinutes: offering.DurationMinutes,
	}
	if _, err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert appointment")
	}
	return s.GetAppointment(ctx, appointment.ID)
}

func (s *service) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	out, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list appointments")
	}
	return out, nil
}

func (s *service) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.repo.FindAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Appointment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load appointment")
	}
	return appointment, nil
}

func (s *service) UpdateAppointmentStatus(ctx context.Context, id, statusID uint) (*models.Appointment, error) {
	appointment, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindStatusByID(ctx, statusID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown appointment status")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load appointment status")
	}
	appointment.StatusID = statusID
	appointment.Client = nil
	appointment.Service = nil
	appointment.Employee = nil
	appointment.Status = nil
	if err := s.repo.SaveAppointment(ctx, appointment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update appointment")
	}
	return s.GetAppointment(ctx, id)
}

func (s *service) ListByEmployee(ctx context.Context, employeeID uint) ([]models.Appointment, error) {
	out, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list employee appointments")
	}
	return out, nil
}

func validateOffering(input OfferingInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "service name is required")
	}
	if input.DurationMinutes <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "duration must be positive")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}

// parseClockTime converts HH:MM to minutes since midnight.
func parseClockTime(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
