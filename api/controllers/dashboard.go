package controllers

import (
	"net/http"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/internal/dashboard"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

// DashboardStats returns the landing-page counters.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
