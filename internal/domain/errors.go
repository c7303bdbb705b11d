package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the domain layer. Gateway adapters wrap their transport
// and driver failures with one of these so callers can branch with errors.Is.
var (
	// ErrNetwork means the backend could not be reached or answered with a
	// server-side failure.
	ErrNetwork = errors.New("backend unreachable")

	// ErrUnauthenticated means there is no valid session. It is expected for
	// anonymous visitors and drives landing-screen routing.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials indicates a sign-in attempt failed due to an incorrect
	// email or password combination.
	ErrInvalidCredentials = errors.New("invalid credentials provided")

	// ErrDuplicateAccount indicates a sign-up attempt failed because the email
	// address is already registered.
	ErrDuplicateAccount = errors.New("an account with this email already exists")

	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrAttachmentRead is returned when a selected file cannot be read. It is
	// never fatal: the submission proceeds without the attachment.
	ErrAttachmentRead = errors.New("attachment could not be read")

	// ErrSubmitInFlight is returned when a form is submitted again before the
	// previous submission completed.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrNotPermitted is returned when an affordance is used that the current
	// user is not offered.
	ErrNotPermitted = errors.New("action not permitted")
)

// ValidationError carries per-field messages for user-correctable input errors.
type ValidationError struct {
	// Fields maps a field name to a human readable message.
	Fields map[string]string
	// Message is an optional overall message, usually from the backend.
	Message string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Message == "" {
			return ErrValidation.Error()
		}
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UserMessage converts an error into the short text shown inline on the
// originating form.
func UserMessage(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrDuplicateAccount):
		return "A user with this email already exists."
	case errors.Is(err, ErrNetwork):
		return "The server could not be reached. Please try again."
	case errors.Is(err, ErrUnauthenticated):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrSubmitInFlight):
		return "Your previous submission is still being saved."
	case errors.Is(err, ErrNotPermitted):
		return "You are not allowed to do that."
	default:
		return "An error occurred."
	}
}
