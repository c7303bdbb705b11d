// Package surreal implements domain.Gateway against a self-hosted SurrealDB
// instance using record access for authentication.
package surreal

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/flavorfusion/internal/database"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/storage"
	"github.com/surrealdb/surrealdb.go"
)

// Schema is the SurrealQL that prepares a database for this gateway.
//
//go:embed schema.surql
var Schema string

const accessMethod = "account"

// Table names.
const (
	tableUser       = "user"
	tableRestaurant = "restaurant"
	tableMenuItem   = "menu_item"
)

// ImageSaver stores an attachment and returns its size variants.
type ImageSaver interface {
	SaveImage(ctx context.Context, entity, property string, att domain.Attachment) (domain.ImageRef, error)
}

// Config names the database a Gateway connects to.
type Config struct {
	URL       string
	Namespace string
	Database  string
}

// Gateway owns one connection. SurrealDB authenticates per connection, so a
// Gateway serves exactly one user session.
type Gateway struct {
	cfg    Config
	images ImageSaver
	logger *slog.Logger

	mu    sync.Mutex
	db    *surrealdb.DB
	token string
	// authedAs is the token the open connection is currently authenticated
	// with; "" means the connection is anonymous.
	authedAs string
}

var _ domain.Gateway = (*Gateway)(nil)

// New creates a gateway. The connection is opened lazily on first use.
func New(cfg Config, images ImageSaver, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		cfg:    cfg,
		images: images,
		logger: logger.With("component", "surreal_gateway"),
	}
}

var _ ImageSaver = (*storage.ImageStore)(nil)

// conn returns the live connection, dialing and re-authenticating as needed.
// Callers must hold g.mu.
func (g *Gateway) conn(ctx context.Context) (*surrealdb.DB, error) {
	if g.db == nil {
		db, err := database.Dial(ctx, database.DialConfig{
			URL:       g.cfg.URL,
			Namespace: g.cfg.Namespace,
			Database:  g.cfg.Database,
			Retries:   1,
		})
		if err != nil {
			return nil, err
		}
		g.db = db
		g.authedAs = ""
	}
	if g.token == g.authedAs {
		return g.db, nil
	}
	if g.token == "" {
		if err := g.db.Invalidate(ctx); err != nil {
			g.dropLocked(ctx)
			return nil, fmt.Errorf("%w: invalidate: %v", domain.ErrNetwork, err)
		}
		g.authedAs = ""
		return g.db, nil
	}
	if err := g.db.Authenticate(ctx, g.token); err != nil {
		if database.IsConnectionError(err) {
			g.dropLocked(ctx)
			return nil, fmt.Errorf("%w: authenticate: %v", domain.ErrNetwork, err)
		}
		// An expired or foreign token leaves the connection anonymous.
		g.logger.DebugContext(ctx, "Stored token rejected", "error", err)
		g.token = ""
		if g.authedAs != "" {
			_ = g.db.Invalidate(ctx)
			g.authedAs = ""
		}
		return g.db, nil
	}
	g.authedAs = g.token
	return g.db, nil
}

// dropLocked discards a broken connection so the next call redials.
func (g *Gateway) dropLocked(ctx context.Context) {
	if g.db != nil {
		_ = g.db.Close(ctx)
	}
	g.db = nil
	g.authedAs = ""
}

// withConn runs fn with the connection, dropping it on connection errors.
func (g *Gateway) withConn(ctx context.Context, fn func(db *surrealdb.DB) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	db, err := g.conn(ctx)
	if err != nil {
		return err
	}
	err = fn(db)
	if database.IsConnectionError(err) {
		g.dropLocked(ctx)
	}
	return err
}

// Ping implements domain.Gateway.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.withConn(ctx, func(db *surrealdb.DB) error {
		if _, err := db.Version(ctx); err != nil {
			return fmt.Errorf("%w: version: %v", domain.ErrNetwork, err)
		}
		return nil
	})
}

// Token implements domain.Gateway.
func (g *Gateway) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// SetToken implements domain.Gateway. The token is presented on the next call.
func (g *Gateway) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

// Close releases the connection.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close(ctx)
	g.db = nil
	g.authedAs = ""
	return err
}
