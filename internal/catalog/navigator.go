// Package catalog holds the master-detail navigation state over restaurants
// and their menu items.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nfrund/flavorfusion/internal/domain"
	"golang.org/x/sync/singleflight"
)

// View is the catalog level on display.
type View int

const (
	ViewRestaurantList View = iota
	ViewMenuItemList
)

func (v View) String() string {
	if v == ViewMenuItemList {
		return "menu_items"
	}
	return "restaurants"
}

// Cache is an immutable snapshot of the catalog. MenuItems is only
// meaningful while Selected is set.
type Cache struct {
	Restaurants []domain.Restaurant
	Selected    *domain.Restaurant
	MenuItems   []domain.MenuItem
	View        View
	Loading     bool
	// Err is the error of the most recent load, cleared by the next success.
	Err error
}

// Navigator is the RestaurantList ⇄ MenuItemList state machine.
type Navigator struct {
	gw     domain.Gateway
	logger *slog.Logger
	group  singleflight.Group

	mu sync.Mutex
	// selectionGen changes whenever the selection changes; a menu response
	// tagged with an older generation is dropped.
	selectionGen uint64
	// restaurantGen plays the same role for restaurant list loads.
	restaurantGen uint64
	// menuSeq orders menu loads within one selection.
	menuSeq     uint64
	menuApplied uint64
	inflight    int

	state atomic.Pointer[Cache]
}

// New creates a navigator showing an empty restaurant list.
func New(gw domain.Gateway, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Navigator{gw: gw, logger: logger.With("component", "catalog")}
	n.state.Store(&Cache{View: ViewRestaurantList})
	return n
}

// Snapshot returns the current cache. Its slices must not be modified.
func (n *Navigator) Snapshot() Cache {
	return *n.state.Load()
}

// update applies fn to a copy of the current cache and publishes it. Callers
// must hold n.mu.
func (n *Navigator) update(fn func(c *Cache)) {
	next := *n.state.Load()
	fn(&next)
	next.Loading = n.inflight > 0
	n.state.Store(&next)
}

func (n *Navigator) begin() {
	n.inflight++
	n.update(func(*Cache) {})
}

// LoadRestaurants replaces the restaurant list with a fresh copy including
// owner names.
func (n *Navigator) LoadRestaurants(ctx context.Context) error {
	n.mu.Lock()
	n.restaurantGen++
	gen := n.restaurantGen
	n.begin()
	n.mu.Unlock()

	list, err := n.gw.ListRestaurants(ctx, domain.ListOptions{Include: []string{domain.IncludeOwner}})

	n.mu.Lock()
	defer n.mu.Unlock()
	n.inflight--

	if gen != n.restaurantGen {
		n.logger.DebugContext(ctx, "Discarding superseded restaurant list")
		n.update(func(*Cache) {})
		return err
	}
	if err != nil {
		n.logger.WarnContext(ctx, "Failed to load restaurants", "error", err)
		n.update(func(c *Cache) { c.Err = err })
		return err
	}

	n.update(func(c *Cache) {
		c.Restaurants = list
		c.Err = nil
		if c.Selected != nil {
			for i := range list {
				if list[i].ID == c.Selected.ID {
					sel := list[i]
					c.Selected = &sel
					break
				}
			}
		}
	})
	return nil
}

// SelectRestaurant shows r's menu. Menu items of any previous selection are
// cleared before the new load starts.
func (n *Navigator) SelectRestaurant(ctx context.Context, r domain.Restaurant) error {
	n.mu.Lock()
	n.selectionGen++
	n.menuApplied = 0
	n.update(func(c *Cache) {
		sel := r
		c.Selected = &sel
		c.MenuItems = nil
		c.View = ViewMenuItemList
	})
	n.mu.Unlock()

	return n.loadMenuItems(ctx, r.ID, false)
}

// LoadMenuItems refreshes the menu of the selected restaurant. It never joins
// a fetch that started earlier, so data written before the call is seen.
func (n *Navigator) LoadMenuItems(ctx context.Context, restaurantID string) error {
	return n.loadMenuItems(ctx, restaurantID, true)
}

func (n *Navigator) loadMenuItems(ctx context.Context, restaurantID string, fresh bool) error {
	n.mu.Lock()
	gen := n.selectionGen
	n.menuSeq++
	seq := n.menuSeq
	n.begin()
	n.mu.Unlock()

	if fresh {
		n.group.Forget(restaurantID)
	}
	v, err, shared := n.group.Do(restaurantID, func() (any, error) {
		return n.gw.ListMenuItems(ctx, domain.ListOptions{
			Filter:  map[string]string{domain.FieldRestaurantID: restaurantID},
			Include: []string{domain.IncludeRestaurant},
		})
	})

	n.mu.Lock()
	defer n.mu.Unlock()
	n.inflight--

	cur := n.state.Load()
	if gen != n.selectionGen || cur.Selected == nil || cur.Selected.ID != restaurantID || seq < n.menuApplied {
		n.logger.DebugContext(ctx, "Discarding stale menu response", "restaurant_id", restaurantID)
		n.update(func(*Cache) {})
		return nil
	}
	if err != nil {
		n.logger.WarnContext(ctx, "Failed to load menu items", "restaurant_id", restaurantID, "error", err)
		n.update(func(c *Cache) { c.Err = err })
		return err
	}

	n.menuApplied = seq
	items, _ := v.([]domain.MenuItem)
	n.update(func(c *Cache) {
		c.MenuItems = items
		c.Err = nil
	})
	n.logger.DebugContext(ctx, "Menu loaded", "restaurant_id", restaurantID, "count", len(items), "shared", shared)
	return nil
}

// Back returns to the restaurant list without refetching it.
func (n *Navigator) Back() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selectionGen++
	n.update(func(c *Cache) {
		c.Selected = nil
		c.MenuItems = nil
		c.View = ViewRestaurantList
	})
}

// Reset clears everything, including restaurants. Loads still in flight are
// discarded when they return.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selectionGen++
	n.restaurantGen++
	n.update(func(c *Cache) {
		*c = Cache{View: ViewRestaurantList}
	})
}

// CanAddMenuItem reports whether user owns the selected restaurant. It only
// decides whether the affordance is shown; the backend enforces access.
func (n *Navigator) CanAddMenuItem(user *domain.User) bool {
	sel := n.Snapshot().Selected
	return user != nil && sel != nil && user.ID != "" && user.ID == sel.OwnerID
}

// RestaurantByID looks id up in the cached restaurant list.
func (n *Navigator) RestaurantByID(id string) (domain.Restaurant, bool) {
	for _, r := range n.Snapshot().Restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Restaurant{}, false
}
