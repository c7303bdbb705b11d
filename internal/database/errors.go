package database

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyExists is matched by errors reporting a unique index violation.
var ErrAlreadyExists = errors.New("record already exists")

// DBError is a driver error annotated with the operation and statement.
type DBError struct {
	err     error
	context string
	query   string
}

// NewDBError creates a DBError. context describes the operation that failed.
func NewDBError(err error, context string) *DBError {
	return &DBError{err: err, context: context}
}

// WithQuery adds the statement text to the error.
func (e *DBError) WithQuery(query string) *DBError {
	e.query = strings.Join(strings.Fields(query), " ")
	return e
}

func (e *DBError) Error() string {
	msg := e.context
	if e.query != "" {
		msg = fmt.Sprintf("%s (query: %s)", msg, e.query)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DBError) Unwrap() error {
	return e.err
}

// Is lets errors.Is(err, ErrAlreadyExists) match driver messages about
// duplicate records.
func (e *DBError) Is(target error) bool {
	if target == ErrAlreadyExists {
		return IsAlreadyExists(e.err)
	}
	return false
}

// IsAlreadyExists reports whether err is a duplicate record error.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains")
}
