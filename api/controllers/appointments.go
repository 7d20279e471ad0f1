package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/appointments"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type offeringRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=50"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,gt=0"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Description     string          `json:"description" validate:"max=100"`
}

type bookAppointmentRequest struct {
	ClientID      uint   `json:"client_id" validate:"required"`
	ServiceID     uint   `json:"service_id" validate:"required"`
	EmployeeID    uint   `json:"employee_id" validate:"required"`
	StatusID      uint   `json:"status_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash card transfer"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" validate:"required"`
}

type appointmentStatusRequest struct {
	StatusID uint `json:"status_id" validate:"required"`
}

func CreateService(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req offeringRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offering, err := svc.CreateOffering(r.Context(), appointments.OfferingInput{
			Name:            req.Name,
			DurationMinutes: req.DurationMinutes,
			Price:           req.Price,
			Description:     req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Service created", map[string]any{"service": offering})
	}
}

func ListServices(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerings, err := svc.ListOfferings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offerings)
	}
}

func UpdateService(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req offeringRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offering, err := svc.UpdateOffering(r.Context(), id, appointments.OfferingInput{
			Name:            req.Name,
			DurationMinutes: req.DurationMinutes,
			Price:           req.Price,
			Description:     req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Service updated", map[string]any{"service": offering})
	}
}

func DisableService(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableOffering(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Service disabled", nil)
	}
}

func ListAppointmentStatuses(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := svc.ListStatuses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, statuses)
	}
}

// BookAppointment reserves a slot for a client with an employee. Overlapping
// slots for the same employee on the same day are rejected.
func BookAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookAppointmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "date must use the YYYY-MM-DD format"))
			return
		}
		appointment, err := svc.Book(r.Context(), appointments.BookInput{
			ClientID:      req.ClientID,
			ServiceID:     req.ServiceID,
			EmployeeID:    req.EmployeeID,
			StatusID:      req.StatusID,
			PaymentMethod: enums.PaymentMethod(req.PaymentMethod),
			Date:          date,
			StartTime:     req.StartTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Appointment booked", map[string]any{"appointment": appointment})
	}
}

func ListAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListAppointments(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateAppointmentStatus(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req appointmentStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		appointment, err := svc.UpdateAppointmentStatus(r.Context(), id, req.StatusID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Appointment updated", map[string]any{"appointment": appointment})
	}
}
