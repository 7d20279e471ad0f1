package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/entities"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

// EntityDetail serves the generic GET /{table}/{id} detail endpoint. The path
// segment is parsed into a typed entity kind before any lookup happens.
func EntityDetail(svc entities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segment := chi.URLParam(r, "table")
		kind, err := enums.ParseEntityKind(segment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Unknown resource %q", segment)))
			return
		}
		EntityDetailFor(kind, svc, logg)(w, r)
	}
}

// EntityDetailFor serves the detail endpoint for one fixed entity kind.
func EntityDetailFor(kind enums.EntityKind, svc entities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entity, err := svc.Get(r.Context(), kind, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entity)
	}
}
