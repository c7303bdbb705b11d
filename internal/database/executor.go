package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

const defaultQueryTimeout = 10 * time.Second

// bounded applies defaultQueryTimeout unless ctx already carries a deadline.
func bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// wrap classifies a driver error. Connection problems become ErrNetwork so
// callers can tell an unreachable backend from a rejected statement.
func wrap(err error, query string) error {
	if IsConnectionError(err) {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return NewDBError(err, "query execution failed").WithQuery(query)
}

// Query executes a SurrealQL statement with parameters and returns the rows
// of its first result set.
//
// Example:
//
//	rows, err := Query[restaurantRow](ctx, db, "SELECT * FROM restaurant", nil)
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	ctx, cancel := bounded(ctx)
	defer cancel()

	queryResults, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, wrap(err, query)
	}
	if queryResults == nil || len(*queryResults) == 0 {
		return nil, nil
	}
	return (*queryResults)[0].Result, nil
}

// QueryOne executes a statement and returns its first row, or nil when there
// is none.
func QueryOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	// CREATE/UPDATE/DELETE statements don't support LIMIT.
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") && !hasLimitClause(query) {
		query += " LIMIT 1"
	}

	results, err := Query[T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func hasLimitClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " LIMIT ")
}
