package handlers

import (
	"errors"
	"maps"
	"net/http"
	"slices"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/view/dto/catalog"
)

// HealthResponse reports liveness and backend reachability.
type HealthResponse struct {
	Status     string `json:"status"`
	Backend    string `json:"backend"`
	Workspaces int    `json:"workspaces"`
}

// statusFor maps a core error to the status of the re-rendered page.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// formErrors splits err into messages for the fields the form displays and a
// general message for everything else.
func formErrors(err error, shown ...string) catalog.FormErrors {
	errs := catalog.FormErrors{}
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || len(vErr.Fields) == 0 {
		errs[""] = domain.UserMessage(err)
		return errs
	}
	for _, field := range slices.Sorted(maps.Keys(vErr.Fields)) {
		msg := vErr.Fields[field]
		if slices.Contains(shown, field) {
			errs[field] = msg
			continue
		}
		if errs[""] != "" {
			errs[""] += " "
		}
		errs[""] += msg
	}
	return errs
}
