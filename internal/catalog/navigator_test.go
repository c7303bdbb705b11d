package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	r1 = domain.Restaurant{ID: "restaurants:1", Name: "One", OwnerID: "users:1"}
	r2 = domain.Restaurant{ID: "restaurants:2", Name: "Two", OwnerID: "users:2"}

	r1Items = []domain.MenuItem{{ID: "menu-items:10", Name: "Soup", RestaurantID: r1.ID}}
	r2Items = []domain.MenuItem{{ID: "menu-items:20", Name: "Cake", RestaurantID: r2.ID}}
)

func newNavigator(gw *testutils.MockGateway) *Navigator {
	return New(gw, testutils.DiscardLogger())
}

func TestLoadRestaurants(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("ListRestaurants", mock.Anything, testutils.RestaurantListOptions()).Return([]domain.Restaurant{r1, r2}, nil)

	n := newNavigator(gw)
	require.NoError(t, n.LoadRestaurants(context.Background()))

	c := n.Snapshot()
	assert.Equal(t, []domain.Restaurant{r1, r2}, c.Restaurants)
	assert.False(t, c.Loading)
	assert.Equal(t, ViewRestaurantList, c.View)
}

func TestLoadRestaurants_LoadingFlag(t *testing.T) {
	for name, loadErr := range map[string]error{"success": nil, "failure": domain.ErrNetwork} {
		t.Run(name, func(t *testing.T) {
			started := make(chan struct{})
			release := make(chan struct{})
			gw := new(testutils.MockGateway)
			gw.On("ListRestaurants", mock.Anything, mock.Anything).
				Run(func(mock.Arguments) { close(started); <-release }).
				Return([]domain.Restaurant{r1}, loadErr)

			n := newNavigator(gw)
			done := make(chan error, 1)
			go func() { done <- n.LoadRestaurants(context.Background()) }()

			<-started
			assert.True(t, n.Snapshot().Loading)
			close(release)
			err := <-done

			assert.ErrorIs(t, err, loadErr)
			assert.False(t, n.Snapshot().Loading)
			if loadErr != nil {
				assert.ErrorIs(t, n.Snapshot().Err, loadErr)
			}
		})
	}
}

func TestSelectRestaurant(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("ListMenuItems", mock.Anything, testutils.MenuFilter(r1.ID)).Return(r1Items, nil)

	n := newNavigator(gw)
	require.NoError(t, n.SelectRestaurant(context.Background(), r1))

	c := n.Snapshot()
	assert.Equal(t, ViewMenuItemList, c.View)
	require.NotNil(t, c.Selected)
	assert.Equal(t, r1.ID, c.Selected.ID)
	assert.Equal(t, r1Items, c.MenuItems)
}

func TestSelectRestaurant_ClearsPreviousItems(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := new(testutils.MockGateway)
	gw.On("ListMenuItems", mock.Anything, testutils.MenuFilter(r1.ID)).Return(r1Items, nil)
	gw.On("ListMenuItems", mock.Anything, testutils.MenuFilter(r2.ID)).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(r2Items, nil)

	n := newNavigator(gw)
	ctx := context.Background()
	require.NoError(t, n.SelectRestaurant(ctx, r1))

	done := make(chan error, 1)
	go func() { done <- n.SelectRestaurant(ctx, r2) }()
	<-started

	c := n.Snapshot()
	assert.Equal(t, r2.ID, c.Selected.ID)
	assert.Empty(t, c.MenuItems, "items of the previous restaurant must not show under the new one")
	assert.True(t, c.Loading)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, r2Items, n.Snapshot().MenuItems)
}

func TestRapidSelection_LateResponseDiscarded(t *testing.T) {
	r1Started := make(chan struct{})
	releaseR1 := make(chan struct{})
	gw := new(testutils.MockGateway)
	gw.On("ListMenuItems", mock.Anything, testutils.MenuFilter(r1.ID)).
		Run(func(mock.Arguments) { close(r1Started); <-releaseR1 }).
		Return(r1Items, nil)
	gw.On("ListMenuItems", mock.Anything, testutils.MenuFilter(r2.ID)).Return(r2Items, nil)

	n := newNavigator(gw)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- n.SelectRestaurant(ctx, r1) }()
	<-r1Started

	require.NoError(t, n.SelectRestaurant(ctx, r2))
	assert.Equal(t, r2Items, n.Snapshot().MenuItems)

	close(releaseR1)
	require.NoError(t, <-done)

	c := n.Snapshot()
	assert.Equal(t, r2.ID, c.Selected.ID)
	assert.Equal(t, r2Items, c.MenuItems)
	assert.False(t, c.Loading)
}

func TestBack_NoRefetch(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("ListRestaurants", mock.Anything, mock.Anything).Return([]domain.Restaurant{r1, r2}, nil).Once()
	gw.On("ListMenuItems", mock.Anything, mock.Anything).Return(r1Items, nil)

	n := newNavigator(gw)
	ctx := context.Background()
	require.NoError(t, n.LoadRestaurants(ctx))
	require.NoError(t, n.SelectRestaurant(ctx, r1))

	n.Back()

	c := n.Snapshot()
	assert.Equal(t, ViewRestaurantList, c.View)
	assert.Nil(t, c.Selected)
	assert.Empty(t, c.MenuItems)
	assert.Equal(t, []domain.Restaurant{r1, r2}, c.Restaurants)
	gw.AssertNumberOfCalls(t, "ListRestaurants", 1)
}

func TestBack_DiscardsInFlightMenu(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := new(testutils.MockGateway)
	gw.On("ListMenuItems", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(r1Items, nil)

	n := newNavigator(gw)
	done := make(chan error, 1)
	go func() { done <- n.SelectRestaurant(context.Background(), r1) }()
	<-started

	n.Back()
	close(release)
	require.NoError(t, <-done)

	c := n.Snapshot()
	assert.Nil(t, c.Selected)
	assert.Empty(t, c.MenuItems)
}

func TestLoadMenuItems_ConcurrentSelectSharesFetch(t *testing.T) {
	var calls sync.WaitGroup
	calls.Add(1)
	release := make(chan struct{})
	gw := new(testutils.MockGateway)
	gw.On("ListMenuItems", mock.Anything, testutils.MenuFilter(r1.ID)).
		Run(func(mock.Arguments) { calls.Done(); <-release }).
		Return(r1Items, nil).Once()

	n := newNavigator(gw)
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { errs <- n.SelectRestaurant(ctx, r1) }()
	calls.Wait()
	go func() { errs <- n.loadMenuItems(ctx, r1.ID, false) }()

	// Give the second caller time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	gw.AssertNumberOfCalls(t, "ListMenuItems", 1)
	assert.Equal(t, r1Items, n.Snapshot().MenuItems)
}

func TestLoadMenuItems_ErrorKeepsSelection(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("ListMenuItems", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	n := newNavigator(gw)
	err := n.SelectRestaurant(context.Background(), r1)
	require.Error(t, err)

	c := n.Snapshot()
	assert.Equal(t, r1.ID, c.Selected.ID)
	assert.False(t, c.Loading)
	assert.Error(t, c.Err)
}

func TestReset(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("ListRestaurants", mock.Anything, mock.Anything).Return([]domain.Restaurant{r1}, nil)
	gw.On("ListMenuItems", mock.Anything, mock.Anything).Return(r1Items, nil)

	n := newNavigator(gw)
	ctx := context.Background()
	require.NoError(t, n.LoadRestaurants(ctx))
	require.NoError(t, n.SelectRestaurant(ctx, r1))

	n.Reset()
	assert.Equal(t, Cache{View: ViewRestaurantList}, n.Snapshot())
}

func TestCanAddMenuItem(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("ListMenuItems", mock.Anything, mock.Anything).Return(nil, nil)

	n := newNavigator(gw)
	owner := &domain.User{ID: "users:1"}
	other := &domain.User{ID: "users:9"}

	assert.False(t, n.CanAddMenuItem(owner), "nothing selected")

	require.NoError(t, n.SelectRestaurant(context.Background(), r1))
	assert.True(t, n.CanAddMenuItem(owner))
	assert.False(t, n.CanAddMenuItem(other))
	assert.False(t, n.CanAddMenuItem(nil))
}

func TestRestaurantByID(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("ListRestaurants", mock.Anything, mock.Anything).Return([]domain.Restaurant{r1, r2}, nil)

	n := newNavigator(gw)
	require.NoError(t, n.LoadRestaurants(context.Background()))

	got, ok := n.RestaurantByID(r2.ID)
	assert.True(t, ok)
	assert.Equal(t, r2, got)

	_, ok = n.RestaurantByID("restaurants:404")
	assert.False(t, ok)
}
