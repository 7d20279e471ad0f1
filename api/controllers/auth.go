package controllers

import (
	"net/http"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/users"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a bearer token plus the user.
func Login(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
