package controllers

import (
	"net/http"
	"time"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/appointments"
	"github.com/H3nrYP0/optica-api/internal/people"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type employeeRequest struct {
	DocumentType   string `json:"document_type" validate:"max=4"`
	DocumentNumber string `json:"document_number" validate:"required,max=20"`
	Name           string `json:"name" validate:"required,min=1,max=50"`
	Phone          string `json:"phone" validate:"max=20"`
	Address        string `json:"address" validate:"max=60"`
	HiredAt        string `json:"hired_at" validate:"required,datetime=2006-01-02"`
	Position       string `json:"position" validate:"max=30"`
}

func (req employeeRequest) toInput() (people.EmployeeInput, error) {
	hiredAt, err := time.Parse("2006-01-02", req.HiredAt)
	if err != nil {
		return people.EmployeeInput{}, pkgerrors.New(pkgerrors.CodeValidation, "hired_at must use the YYYY-MM-DD format")
	}
	return people.EmployeeInput{
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		HiredAt:        hiredAt,
		Position:       req.Position,
	}, nil
}

type scheduleRequest struct {
	Weekday   int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type replaceSchedulesRequest struct {
	Schedules []scheduleRequest `json:"schedules" validate:"required,min=1,dive"`
}

func CreateEmployee(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req employeeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.CreateEmployee(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Employee created", map[string]any{"employee": employee})
	}
}

func ListEmployees(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employees, err := svc.ListEmployees(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employees)
	}
}

func UpdateEmployee(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req employeeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.UpdateEmployee(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Employee updated", map[string]any{"employee": employee})
	}
}

func DisableEmployee(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableEmployee(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Employee disabled", nil)
	}
}

// ReplaceEmployeeSchedules swaps the employee's full weekly schedule.
func ReplaceEmployeeSchedules(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req replaceSchedulesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inputs := make([]people.ScheduleInput, 0, len(req.Schedules))
		for _, s := range req.Schedules {
			inputs = append(inputs, people.ScheduleInput{
				Weekday:   s.Weekday,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
			})
		}
		employee, err := svc.ReplaceSchedules(r.Context(), id, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Schedules replaced", map[string]any{"employee": employee})
	}
}

// ListEmployeeAppointments returns every appointment assigned to the employee.
func ListEmployeeAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByEmployee(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
