package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

// URLParamID reads a chi route parameter as a positive numeric identifier.
func URLParamID(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a positive integer")
	}
	return uint(value), nil
}
