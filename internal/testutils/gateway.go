package testutils

import (
	"context"
	"sync"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a testify mock of domain.Gateway. Token and SetToken are
// plain accessors so tests only set expectations on backend calls.
type MockGateway struct {
	mock.Mock

	mu    sync.Mutex
	token string
}

var _ domain.Gateway = (*MockGateway)(nil)

func (m *MockGateway) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) Identity(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) Authenticate(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *MockGateway) Register(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

func (m *MockGateway) TerminateSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) ListRestaurants(ctx context.Context, opts domain.ListOptions) ([]domain.Restaurant, error) {
	args := m.Called(ctx, opts)
	if r := args.Get(0); r != nil {
		return r.([]domain.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) ListMenuItems(ctx context.Context, opts domain.ListOptions) ([]domain.MenuItem, error) {
	args := m.Called(ctx, opts)
	if r := args.Get(0); r != nil {
		return r.([]domain.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) CreateRestaurant(ctx context.Context, draft domain.RestaurantDraft) (*domain.Restaurant, error) {
	args := m.Called(ctx, draft)
	if r := args.Get(0); r != nil {
		return r.(*domain.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) CreateMenuItem(ctx context.Context, draft domain.MenuItemDraft) (*domain.MenuItem, error) {
	args := m.Called(ctx, draft)
	if r := args.Get(0); r != nil {
		return r.(*domain.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MockGateway) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// MenuFilter returns the ListOptions the navigator sends for a restaurant's menu.
func MenuFilter(restaurantID string) domain.ListOptions {
	return domain.ListOptions{
		Filter:  map[string]string{domain.FieldRestaurantID: restaurantID},
		Include: []string{domain.IncludeRestaurant},
	}
}

// RestaurantListOptions returns the ListOptions the navigator sends for the
// restaurant list.
func RestaurantListOptions() domain.ListOptions {
	return domain.ListOptions{Include: []string{domain.IncludeOwner}}
}
