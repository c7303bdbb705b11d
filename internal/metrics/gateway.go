package metrics

import (
	"context"
	"time"

	"github.com/nfrund/flavorfusion/internal/domain"
)

// instrumentedGateway decorates a domain.Gateway with call metrics.
type instrumentedGateway struct {
	next    domain.Gateway
	backend string
}

// InstrumentGateway wraps gw so every call is counted and timed under the
// given backend label.
func InstrumentGateway(gw domain.Gateway, backend string) domain.Gateway {
	return &instrumentedGateway{next: gw, backend: backend}
}

func (g *instrumentedGateway) observe(op string, start time.Time, err error) {
	RecordGatewayCall(g.backend, op, err, time.Since(start))
}

func (g *instrumentedGateway) Ping(ctx context.Context) error {
	start := time.Now()
	err := g.next.Ping(ctx)
	g.observe("ping", start, err)
	return err
}

func (g *instrumentedGateway) Identity(ctx context.Context) (*domain.User, error) {
	start := time.Now()
	u, err := g.next.Identity(ctx)
	g.observe("identity", start, err)
	return u, err
}

func (g *instrumentedGateway) Authenticate(ctx context.Context, email, password string) error {
	start := time.Now()
	err := g.next.Authenticate(ctx, email, password)
	g.observe("authenticate", start, err)
	return err
}

func (g *instrumentedGateway) Register(ctx context.Context, name, email, password string) error {
	start := time.Now()
	err := g.next.Register(ctx, name, email, password)
	g.observe("register", start, err)
	return err
}

func (g *instrumentedGateway) TerminateSession(ctx context.Context) error {
	start := time.Now()
	err := g.next.TerminateSession(ctx)
	g.observe("terminate_session", start, err)
	return err
}

func (g *instrumentedGateway) ListRestaurants(ctx context.Context, opts domain.ListOptions) ([]domain.Restaurant, error) {
	start := time.Now()
	out, err := g.next.ListRestaurants(ctx, opts)
	g.observe("list_restaurants", start, err)
	return out, err
}

func (g *instrumentedGateway) ListMenuItems(ctx context.Context, opts domain.ListOptions) ([]domain.MenuItem, error) {
	start := time.Now()
	out, err := g.next.ListMenuItems(ctx, opts)
	g.observe("list_menu_items", start, err)
	return out, err
}

func (g *instrumentedGateway) CreateRestaurant(ctx context.Context, draft domain.RestaurantDraft) (*domain.Restaurant, error) {
	start := time.Now()
	out, err := g.next.CreateRestaurant(ctx, draft)
	g.observe("create_restaurant", start, err)
	return out, err
}

func (g *instrumentedGateway) CreateMenuItem(ctx context.Context, draft domain.MenuItemDraft) (*domain.MenuItem, error) {
	start := time.Now()
	out, err := g.next.CreateMenuItem(ctx, draft)
	g.observe("create_menu_item", start, err)
	return out, err
}

func (g *instrumentedGateway) Token() string         { return g.next.Token() }
func (g *instrumentedGateway) SetToken(token string) { g.next.SetToken(token) }

// Close forwards to the wrapped gateway when it holds a connection.
func (g *instrumentedGateway) Close(ctx context.Context) error {
	if c, ok := g.next.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}
