package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/metrics"
)

// DefaultIdleTTL is how long an unused workspace survives before Sweep drops it.
const DefaultIdleTTL = 30 * time.Minute

type closer interface {
	Close(ctx context.Context) error
}

type workspace struct {
	app      *App
	lastSeen time.Time
}

// Registry keeps one App per browser session. Each App gets its own gateway
// handle so that session credentials never leak between clients.
type Registry struct {
	factory  domain.GatewayFactory
	shared   Dependencies
	settings Settings
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu    sync.Mutex
	items map[string]*workspace
}

// NewRegistry creates a registry. shared.Gateway is ignored; every workspace
// receives a fresh gateway from factory.
func NewRegistry(factory domain.GatewayFactory, shared Dependencies, settings Settings, ttl time.Duration) *Registry {
	shared = shared.withDefaults()
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{
		factory:  factory,
		shared:   shared,
		settings: settings,
		ttl:      ttl,
		now:      time.Now,
		logger:   shared.Logger.With("component", "workspaces"),
		items:    make(map[string]*workspace),
	}
}

// Get returns the workspace with id and marks it as used.
func (r *Registry) Get(id string) (*App, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[id]
	if !ok {
		return nil, false
	}
	ws.lastSeen = r.now()
	return ws.app, true
}

// Create starts a new workspace. A non-empty token restores a previously
// persisted session before the controller initializes.
func (r *Registry) Create(ctx context.Context, token string) (string, *App, error) {
	gw, err := r.factory()
	if err != nil {
		return "", nil, fmt.Errorf("create gateway: %w", err)
	}
	if token != "" {
		gw.SetToken(token)
	}
	deps := r.shared
	deps.Gateway = gw
	a := New(deps, r.settings)
	a.Start(ctx)

	id := uuid.NewString()
	r.mu.Lock()
	r.items[id] = &workspace{app: a, lastSeen: r.now()}
	n := len(r.items)
	r.mu.Unlock()

	metrics.SetWorkspaces(n)
	r.logger.DebugContext(ctx, "Workspace created", "workspace", id, "screen", a.Session().Screen)
	return id, a, nil
}

// Remove drops a workspace and releases its gateway.
func (r *Registry) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	ws, ok := r.items[id]
	delete(r.items, id)
	n := len(r.items)
	r.mu.Unlock()
	if !ok {
		return
	}
	metrics.SetWorkspaces(n)
	r.release(ctx, id, ws)
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep drops workspaces idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.ttl)
	expired := make(map[string]*workspace)

	r.mu.Lock()
	for id, ws := range r.items {
		if ws.lastSeen.Before(cutoff) {
			expired[id] = ws
			delete(r.items, id)
		}
	}
	n := len(r.items)
	r.mu.Unlock()

	if len(expired) > 0 {
		metrics.SetWorkspaces(n)
	}
	for id, ws := range expired {
		r.release(ctx, id, ws)
	}
	return len(expired)
}

// StartJanitor runs Sweep every interval until ctx is canceled.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(ctx); n > 0 {
					r.logger.InfoContext(ctx, "Dropped idle workspaces", "count", n)
				}
			}
		}
	}()
}

// Close releases every workspace.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*workspace)
	r.mu.Unlock()
	metrics.SetWorkspaces(0)
	for id, ws := range items {
		r.release(ctx, id, ws)
	}
}

func (r *Registry) release(ctx context.Context, id string, ws *workspace) {
	c, ok := ws.app.Gateway().(closer)
	if !ok {
		return
	}
	if err := c.Close(ctx); err != nil {
		r.logger.WarnContext(ctx, "Failed to close workspace gateway", "workspace", id, "error", err)
	}
}
