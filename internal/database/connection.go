package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// ExponentialBackoffRetryer retries an operation with exponential backoff.
type ExponentialBackoffRetryer struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	multiplier float64
	jitter     bool
}

// NewExponentialBackoffRetryer creates a retryer suited to an interactive
// client: a handful of quick attempts rather than a long outage ride-through.
func NewExponentialBackoffRetryer(maxRetries int) *ExponentialBackoffRetryer {
	return &ExponentialBackoffRetryer{
		maxRetries: maxRetries,
		baseDelay:  100 * time.Millisecond,
		maxDelay:   2 * time.Second,
		multiplier: 2.0,
		jitter:     true,
	}
}

// Retry executes fn until it succeeds, the attempts run out, or ctx is done.
func (r *ExponentialBackoffRetryer) Retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}

		delay := r.calculateDelay(attempt)
		slog.DebugContext(ctx, "Retry attempt failed, waiting before next attempt",
			"event", "retry_attempt",
			"attempt", attempt+1, "max_attempts", r.maxRetries+1,
			"delay_ms", delay.Milliseconds(), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

func (r *ExponentialBackoffRetryer) calculateDelay(attempt int) time.Duration {
	delay := float64(r.baseDelay) * math.Pow(r.multiplier, float64(attempt))
	if delay > float64(r.maxDelay) {
		delay = float64(r.maxDelay)
	}
	if r.jitter {
		delay += rand.Float64() * delay * 0.25
	}
	return time.Duration(delay)
}

// DialConfig names the endpoint and scope of a connection.
type DialConfig struct {
	URL       string
	Namespace string
	Database  string
	Retries   int
}

// Dial opens a connection and selects the namespace and database. Connection
// failures are wrapped in domain.ErrNetwork.
func Dial(ctx context.Context, cfg DialConfig) (*surrealdb.DB, error) {
	var conn *surrealdb.DB
	retryer := NewExponentialBackoffRetryer(cfg.Retries)

	err := retryer.Retry(ctx, func() error {
		db, err := surrealdb.FromEndpointURLString(ctx, cfg.URL)
		if err != nil {
			return err
		}
		if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
			_ = db.Close(ctx)
			return err
		}
		conn = db
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to connect to database",
			"event", "db_connect_failure",
			"db_url", RedactURL(cfg.URL),
			"error", err,
		)
		return nil, fmt.Errorf("%w: connect to %s: %v", domain.ErrNetwork, RedactURL(cfg.URL), err)
	}

	slog.DebugContext(ctx, "Database connection established",
		"event", "db_connect_success",
		"db_url", RedactURL(cfg.URL),
		"namespace", cfg.Namespace,
		"database", cfg.Database,
	)
	return conn, nil
}

// IsConnectionError reports whether err is likely due to a lost or failed
// connection rather than a rejected statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrNetwork) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected eof") ||
		strings.Contains(msg, "use of closed network connection")
}

// RedactURL returns dbURL with any password replaced.
func RedactURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	return parsedURL.Redacted()
}
