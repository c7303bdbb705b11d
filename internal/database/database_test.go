package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	r := NewExponentialBackoffRetryer(3)
	r.baseDelay = time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_GivesUp(t *testing.T) {
	r := NewExponentialBackoffRetryer(1)
	r.baseDelay = time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExponentialBackoffRetryer(5).Retry(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, IsConnectionError(nil))
	assert.True(t, IsConnectionError(errors.New("dial tcp: connection refused")))
	assert.True(t, IsConnectionError(fmt.Errorf("x: %w", domain.ErrNetwork)))
	assert.False(t, IsConnectionError(errors.New("There was a problem with the database: Parse error")))
}

func TestWrap(t *testing.T) {
	err := wrap(errors.New("unexpected EOF"), "SELECT * FROM restaurant")
	assert.ErrorIs(t, err, domain.ErrNetwork)

	err = wrap(errors.New("Database index `unique_email` already contains 'a@b.c'"), "CREATE user")
	var dbErr *DBError
	require.ErrorAs(t, err, &dbErr)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NotErrorIs(t, err, domain.ErrNetwork)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "ws://root:xxxxx@localhost:8000/rpc", RedactURL("ws://root:secret@localhost:8000/rpc"))
}

func TestBounded(t *testing.T) {
	ctx, cancel := bounded(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(defaultQueryTimeout), deadline, time.Second)

	parent, parentCancel := context.WithTimeout(context.Background(), time.Minute)
	defer parentCancel()
	ctx, cancel = bounded(parent)
	defer cancel()
	deadline, _ = ctx.Deadline()
	want, _ := parent.Deadline()
	assert.Equal(t, want, deadline)
}

func TestHasLimitClause(t *testing.T) {
	assert.True(t, hasLimitClause("SELECT * FROM user WHERE email = $email limit 1"))
	assert.False(t, hasLimitClause("SELECT * FROM restaurant"))
}
