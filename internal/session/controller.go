// Package session owns authentication state and top-level screen selection.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nfrund/flavorfusion/internal/domain"
)

// Controller is the Initializing → {Landing, Dashboard} state machine. Reads
// go through Snapshot and never block; transitions are serialized.
type Controller struct {
	gw     domain.Gateway
	logger *slog.Logger

	mu    sync.Mutex
	state atomic.Pointer[domain.Session]
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller in the Initializing state.
func New(gw domain.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:     gw,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "session")
	c.state.Store(&domain.Session{Screen: domain.ScreenInitializing})
	return c
}

// Snapshot returns the current session. The value must not be modified.
func (c *Controller) Snapshot() domain.Session {
	return *c.state.Load()
}

func (c *Controller) publish(s domain.Session) {
	c.state.Store(&s)
}

// Initialize probes the backend and resolves the current identity. It never
// fails: every problem ends on the landing screen. The controller's lock is
// held for the whole probe so no transition can interleave.
func (c *Controller) Initialize(ctx context.Context) domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.publish(domain.Session{Screen: domain.ScreenInitializing})

	if err := c.gw.Ping(ctx); err != nil {
		c.logger.WarnContext(ctx, "Backend unreachable at startup", "error", err)
		c.publish(domain.Session{Screen: domain.ScreenLanding, BackendReachable: false})
		return c.Snapshot()
	}

	user, err := c.gw.Identity(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "No existing session", "error", err)
		c.publish(domain.Session{Screen: domain.ScreenLanding, BackendReachable: true})
		return c.Snapshot()
	}

	c.logger.InfoContext(ctx, "Restored existing session", "user_id", user.ID)
	c.publish(domain.Session{User: user, Screen: domain.ScreenDashboard, BackendReachable: true})
	return c.Snapshot()
}

// ensureReachable fails fast with ErrNetwork while the backend is known to be
// down. One fresh probe is made so a recovered backend is noticed.
func (c *Controller) ensureReachable(ctx context.Context) error {
	s := c.Snapshot()
	if s.Screen == domain.ScreenInitializing || s.BackendReachable {
		return nil
	}
	if err := c.gw.Ping(ctx); err != nil {
		return fmt.Errorf("%w: backend still unreachable", domain.ErrNetwork)
	}
	s.BackendReachable = true
	c.publish(s)
	return nil
}

// Login authenticates and resolves the identity. On failure the state is
// unchanged and the error is returned for display.
func (c *Controller) Login(ctx context.Context, email, password string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureReachable(ctx); err != nil {
		return nil, err
	}
	return c.loginLocked(ctx, email, password)
}

func (c *Controller) loginLocked(ctx context.Context, email, password string) (*domain.User, error) {
	if err := c.gw.Authenticate(ctx, email, password); err != nil {
		c.logger.InfoContext(ctx, "Login failed", "email", email, "error", err)
		return nil, err
	}
	user, err := c.gw.Identity(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Identity lookup failed after login", "email", email, "error", err)
		return nil, err
	}

	c.publish(domain.Session{User: user, Screen: domain.ScreenDashboard, BackendReachable: true})
	c.logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return user, nil
}

// Signup registers an account and then logs in with the same credentials.
// No login is attempted when registration fails.
func (c *Controller) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureReachable(ctx); err != nil {
		return nil, err
	}
	if err := c.gw.Register(ctx, name, email, password); err != nil {
		c.logger.InfoContext(ctx, "Signup failed", "email", email, "error", err)
		return nil, err
	}
	return c.loginLocked(ctx, email, password)
}

// Logout ends the session. The user is cleared and the landing screen shown
// even when the backend could not be told.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.Snapshot()
	if err := c.gw.TerminateSession(ctx); err != nil {
		c.logger.WarnContext(ctx, "Session termination failed; signing out locally", "error", err)
	}
	c.publish(domain.Session{Screen: domain.ScreenLanding, BackendReachable: prev.BackendReachable})
	if prev.User != nil {
		c.logger.InfoContext(ctx, "User logged out", "user_id", prev.User.ID)
	}
}

// Expire drops a session the backend no longer accepts. It is a no-op unless
// err is ErrUnauthenticated, and reports whether the session was dropped.
func (c *Controller) Expire(ctx context.Context, err error) bool {
	if !errors.Is(err, domain.ErrUnauthenticated) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.Snapshot()
	if prev.User == nil {
		return false
	}
	c.gw.SetToken("")
	c.publish(domain.Session{Screen: domain.ScreenLanding, BackendReachable: prev.BackendReachable})
	c.logger.InfoContext(ctx, "Session expired", "user_id", prev.User.ID)
	return true
}
