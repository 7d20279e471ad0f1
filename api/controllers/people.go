package controllers

import (
	"net/http"
	"time"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/people"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type clientRequest struct {
	DocumentType   string  `json:"document_type" validate:"max=4"`
	DocumentNumber string  `json:"document_number" validate:"max=20"`
	FirstName      string  `json:"first_name" validate:"required,min=1,max=25"`
	LastName       string  `json:"last_name" validate:"required,min=1,max=25"`
	BirthDate      *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender         string  `json:"gender" validate:"max=10"`
	Phone          string  `json:"phone" validate:"max=20"`
	Email          string  `json:"email" validate:"omitempty,email,max=50"`
	Municipality   string  `json:"municipality" validate:"max=30"`
	Address        string  `json:"address" validate:"max=60"`
	Occupation     string  `json:"occupation" validate:"max=30"`
	EmergencyPhone string  `json:"emergency_phone" validate:"max=20"`
}

func (req clientRequest) toInput() (people.ClientInput, error) {
	input := people.ClientInput{
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Gender:         req.Gender,
		Phone:          req.Phone,
		Email:          req.Email,
		Municipality:   req.Municipality,
		Address:        req.Address,
		Occupation:     req.Occupation,
		EmergencyPhone: req.EmergencyPhone,
	}
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "birth_date must use the YYYY-MM-DD format")
		}
		input.BirthDate = &parsed
	}
	return input, nil
}

type prescriptionRequest struct {
	Description string `json:"description" validate:"max=100"`
	ODSphere    string `json:"od_sphere" validate:"max=10"`
	ODCylinder  string `json:"od_cylinder" validate:"max=10"`
	ODAxis      string `json:"od_axis" validate:"max=10"`
	OSSphere    string `json:"os_sphere" validate:"max=10"`
	OSCylinder  string `json:"os_cylinder" validate:"max=10"`
	OSAxis      string `json:"os_axis" validate:"max=10"`
}

func CreateClient(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		client, err := svc.CreateClient(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Client created", map[string]any{"client": client})
	}
}

func ListClients(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := svc.ListClients(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, clients)
	}
}

func UpdateClient(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req clientRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		client, err := svc.UpdateClient(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Client updated", map[string]any{"client": client})
	}
}

func DisableClient(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableClient(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Client disabled", nil)
	}
}

// CreatePrescription registers an optical formula for the client in the path.
func CreatePrescription(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req prescriptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prescription, err := svc.CreatePrescription(r.Context(), people.PrescriptionInput{
			ClientID:    clientID,
			Description: req.Description,
			ODSphere:    req.ODSphere,
			ODCylinder:  req.ODCylinder,
			ODAxis:      req.ODAxis,
			OSSphere:    req.OSSphere,
			OSCylinder:  req.OSCylinder,
			OSAxis:      req.OSAxis,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Prescription created", map[string]any{"prescription": prescription})
	}
}

// ListClientPrescriptions returns the client's formula history, newest first.
func ListClientPrescriptions(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prescriptions, err := svc.ListClientPrescriptions(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prescriptions)
	}
}
