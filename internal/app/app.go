// Package app is the top-level controller: it owns the session and the
// catalog for one client and wires form completions back into the catalog.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/flavorfusion/internal/catalog"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/forms"
	"github.com/nfrund/flavorfusion/internal/pubsub"
	"github.com/nfrund/flavorfusion/internal/session"
)

// ErrUnknownRestaurant is returned when a restaurant id is not in the cache.
var ErrUnknownRestaurant = errors.New("restaurant not found")

// App is the application controller for one client.
type App struct {
	deps     Dependencies
	settings Settings
	logger   *slog.Logger

	session *session.Controller
	catalog *catalog.Navigator

	mu             sync.Mutex
	restaurantForm *forms.RestaurantForm
	menuItemForm   *forms.MenuItemForm
}

// New creates a controller. Start must be called before use.
func New(deps Dependencies, settings Settings) *App {
	deps = deps.withDefaults()
	logger := deps.Logger.With("component", "app")
	return &App{
		deps:     deps,
		settings: settings,
		logger:   logger,
		session:  session.New(deps.Gateway, session.WithLogger(deps.Logger)),
		catalog:  catalog.New(deps.Gateway, deps.Logger),
	}
}

// Start initializes the session and, when a session already exists, loads
// the restaurant list once.
func (a *App) Start(ctx context.Context) domain.Session {
	s := a.session.Initialize(ctx)
	a.catalog.Reset()
	if s.Screen == domain.ScreenDashboard {
		a.load(ctx, a.catalog.LoadRestaurants)
	}
	return s
}

// Session returns the current session snapshot.
func (a *App) Session() domain.Session { return a.session.Snapshot() }

// Catalog returns the current catalog snapshot.
func (a *App) Catalog() catalog.Cache { return a.catalog.Snapshot() }

// Gateway exposes the gateway handle so front ends can persist its token.
func (a *App) Gateway() domain.Gateway { return a.deps.Gateway }

// AdminURL is the outbound link to the backend's admin console, or "".
func (a *App) AdminURL() string { return a.settings.AdminURL }

// DemoEmail is the demo account offered on the landing page.
func (a *App) DemoEmail() string { return a.settings.DemoEmail }

// Login authenticates and loads the dashboard.
func (a *App) Login(ctx context.Context, email, password string) error {
	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.enterDashboard(ctx, user, "password")
	return nil
}

// Signup registers, logs in and loads the dashboard.
func (a *App) Signup(ctx context.Context, name, email, password string) error {
	user, err := a.session.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	a.enterDashboard(ctx, user, "signup")
	return nil
}

// DemoLogin logs in with the configured demo account.
func (a *App) DemoLogin(ctx context.Context) error {
	if a.settings.DemoEmail == "" {
		return fmt.Errorf("demo login: %w", domain.ErrNotPermitted)
	}
	user, err := a.session.Login(ctx, a.settings.DemoEmail, a.settings.DemoPassword)
	if err != nil {
		return err
	}
	a.enterDashboard(ctx, user, "demo")
	return nil
}

func (a *App) enterDashboard(ctx context.Context, user *domain.User, method string) {
	a.closeForms()
	a.catalog.Reset()
	a.load(ctx, a.catalog.LoadRestaurants)
	publish(ctx, a, pubsub.SessionLogin, user.ID, pubsub.SessionActivity{UserID: user.ID, Email: user.Email, Method: method})
}

// Logout ends the session and clears all catalog state. It always ends on
// the landing screen.
func (a *App) Logout(ctx context.Context) {
	prev := a.session.Snapshot().User
	a.session.Logout(ctx)
	a.closeForms()
	a.catalog.Reset()
	if prev != nil {
		publish(ctx, a, pubsub.SessionLogout, prev.ID, pubsub.SessionActivity{UserID: prev.ID, Email: prev.Email})
	}
}

// RefreshRestaurants reloads the restaurant list.
func (a *App) RefreshRestaurants(ctx context.Context) error {
	return a.load(ctx, a.catalog.LoadRestaurants)
}

// SelectRestaurant opens the menu of the cached restaurant with id.
func (a *App) SelectRestaurant(ctx context.Context, id string) error {
	r, ok := a.catalog.RestaurantByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRestaurant, id)
	}
	a.CloseMenuItemForm()
	return a.load(ctx, func(ctx context.Context) error {
		return a.catalog.SelectRestaurant(ctx, r)
	})
}

// Back returns to the restaurant list.
func (a *App) Back() {
	a.CloseMenuItemForm()
	a.catalog.Back()
}

// CanAddMenuItem reports whether the add-menu-item affordance is shown.
func (a *App) CanAddMenuItem() bool {
	return a.catalog.CanAddMenuItem(a.session.Snapshot().User)
}

// load runs a catalog load and drops the session when the backend says it
// has expired.
func (a *App) load(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	a.ExpireOn(ctx, err)
	return err
}

// ExpireOn returns to the landing screen when err says the backend no longer
// accepts the session. It reports whether that happened.
func (a *App) ExpireOn(ctx context.Context, err error) bool {
	if !a.session.Expire(ctx, err) {
		return false
	}
	a.closeForms()
	a.catalog.Reset()
	return true
}

// OpenRestaurantForm returns the open restaurant form, creating it if needed.
func (a *App) OpenRestaurantForm() (*forms.RestaurantForm, error) {
	if a.session.Snapshot().User == nil {
		return nil, domain.ErrUnauthenticated
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.restaurantForm == nil {
		a.restaurantForm = forms.NewRestaurantForm(a.deps.Gateway, a.deps.Encoder, a.restaurantCreated, a.deps.Logger)
	}
	return a.restaurantForm, nil
}

// RestaurantForm returns the open restaurant form, if any.
func (a *App) RestaurantForm() (*forms.RestaurantForm, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.restaurantForm, a.restaurantForm != nil
}

// CloseRestaurantForm discards the restaurant form and its draft.
func (a *App) CloseRestaurantForm() {
	a.mu.Lock()
	a.restaurantForm = nil
	a.mu.Unlock()
}

// OpenMenuItemForm returns the menu item form for the selected restaurant.
// It is only offered to the restaurant's owner.
func (a *App) OpenMenuItemForm() (*forms.MenuItemForm, error) {
	sel := a.catalog.Snapshot().Selected
	if sel == nil || !a.CanAddMenuItem() {
		return nil, domain.ErrNotPermitted
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.menuItemForm == nil || a.menuItemForm.RestaurantID() != sel.ID {
		a.menuItemForm = forms.NewMenuItemForm(a.deps.Gateway, a.deps.Encoder, sel.ID, a.menuItemCreated, a.deps.Logger)
	}
	return a.menuItemForm, nil
}

// MenuItemForm returns the open menu item form, if any.
func (a *App) MenuItemForm() (*forms.MenuItemForm, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.menuItemForm, a.menuItemForm != nil
}

// CloseMenuItemForm discards the menu item form and its draft.
func (a *App) CloseMenuItemForm() {
	a.mu.Lock()
	a.menuItemForm = nil
	a.mu.Unlock()
}

func (a *App) closeForms() {
	a.mu.Lock()
	a.restaurantForm = nil
	a.menuItemForm = nil
	a.mu.Unlock()
}

func (a *App) restaurantCreated(ctx context.Context, r *domain.Restaurant) {
	a.CloseRestaurantForm()
	if err := a.load(ctx, a.catalog.LoadRestaurants); err != nil {
		a.logger.WarnContext(ctx, "Reload after restaurant creation failed", "error", err)
	}
	publish(ctx, a, pubsub.RestaurantCreated, a.userID(), pubsub.CatalogActivity{ID: r.ID, Name: r.Name})
}

func (a *App) menuItemCreated(ctx context.Context, m *domain.MenuItem) {
	a.CloseMenuItemForm()
	restaurantID := m.RestaurantID
	if restaurantID == "" {
		if sel := a.catalog.Snapshot().Selected; sel != nil {
			restaurantID = sel.ID
		}
	}
	if err := a.load(ctx, func(ctx context.Context) error {
		return a.catalog.LoadMenuItems(ctx, restaurantID)
	}); err != nil {
		a.logger.WarnContext(ctx, "Reload after menu item creation failed", "error", err)
	}
	publish(ctx, a, pubsub.MenuItemCreated, a.userID(), pubsub.CatalogActivity{ID: m.ID, Name: m.Name, RestaurantID: restaurantID})
}

func (a *App) userID() string {
	if u := a.session.Snapshot().User; u != nil {
		return u.ID
	}
	return ""
}

func publish[T any](ctx context.Context, a *App, event pubsub.Event[T], userID string, payload T) {
	if err := pubsub.Publish(ctx, a.deps.Publisher, event, userID, payload); err != nil {
		a.logger.WarnContext(ctx, "Failed to publish activity", "topic", event.Name(), "error", err)
	}
}
