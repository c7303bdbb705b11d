package manifest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/tidwall/gjson"
)

// errorMessages extracts the human readable messages from an error body. The
// backend reports either a single string or a list of strings.
func errorMessages(body []byte) []string {
	msg := gjson.GetBytes(body, "message")
	switch {
	case msg.IsArray():
		var out []string
		for _, m := range msg.Array() {
			if s := strings.TrimSpace(m.String()); s != "" {
				out = append(out, s)
			}
		}
		return out
	case msg.Exists() && msg.String() != "":
		return []string{msg.String()}
	}
	if e := gjson.GetBytes(body, "error"); e.Exists() && e.String() != "" {
		return []string{e.String()}
	}
	return nil
}

// validationError turns backend validation messages into a ValidationError.
// Messages conventionally start with the offending property name.
func validationError(body []byte) *domain.ValidationError {
	msgs := errorMessages(body)
	vErr := &domain.ValidationError{Fields: map[string]string{}}
	for _, m := range msgs {
		field, _, found := strings.Cut(m, " ")
		if !found || field == "" {
			continue
		}
		if _, dup := vErr.Fields[field]; !dup {
			vErr.Fields[field] = m
		}
	}
	if len(vErr.Fields) == 0 {
		vErr.Fields = nil
		vErr.Message = strings.Join(msgs, "; ")
		if vErr.Message == "" {
			vErr.Message = "The submitted data was rejected."
		}
	}
	return vErr
}

// statusError maps a non-2xx response onto the domain error taxonomy.
func statusError(op string, resp response) error {
	switch {
	case resp.status >= 500:
		return fmt.Errorf("%w: %s returned %d", domain.ErrNetwork, op, resp.status)
	case resp.status == http.StatusUnauthorized, resp.status == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	case resp.status == http.StatusBadRequest, resp.status == http.StatusUnprocessableEntity:
		return validationError(resp.body)
	default:
		return fmt.Errorf("%s returned %d: %s", op, resp.status, strings.Join(errorMessages(resp.body), "; "))
	}
}
