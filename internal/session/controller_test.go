package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var alice = &domain.User{ID: "users:1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleStandard}

func newController(gw *testutils.MockGateway) *Controller {
	return New(gw, WithLogger(testutils.DiscardLogger()))
}

func TestNew_StartsInitializing(t *testing.T) {
	c := newController(new(testutils.MockGateway))
	s := c.Snapshot()
	assert.Equal(t, domain.ScreenInitializing, s.Screen)
	assert.Nil(t, s.User)
}

func TestInitialize_Unreachable_NoIdentityProbe(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("Ping", mock.Anything).Return(domain.ErrNetwork)

	s := newController(gw).Initialize(context.Background())

	assert.Equal(t, domain.ScreenLanding, s.Screen)
	assert.False(t, s.BackendReachable)
	assert.Nil(t, s.User)
	gw.AssertNotCalled(t, "Identity", mock.Anything)
}

func TestInitialize_ExistingSession_GoesToDashboard(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("Ping", mock.Anything).Return(nil)
	gw.On("Identity", mock.Anything).Return(alice, nil)

	s := newController(gw).Initialize(context.Background())

	assert.Equal(t, domain.ScreenDashboard, s.Screen)
	assert.True(t, s.BackendReachable)
	assert.Equal(t, alice, s.User)
}

func TestInitialize_IdentityFailure_LandsSilently(t *testing.T) {
	for _, err := range []error{domain.ErrUnauthenticated, errors.New("decode failure")} {
		gw := new(testutils.MockGateway)
		gw.On("Ping", mock.Anything).Return(nil)
		gw.On("Identity", mock.Anything).Return(nil, err)

		s := newController(gw).Initialize(context.Background())

		assert.Equal(t, domain.ScreenLanding, s.Screen)
		assert.True(t, s.BackendReachable)
		assert.Nil(t, s.User)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		gw := new(testutils.MockGateway)
		gw.On("Authenticate", mock.Anything, "alice@example.com", "pw").Return(nil)
		gw.On("Identity", mock.Anything).Return(alice, nil)

		c := newController(gw)
		user, err := c.Login(ctx, "alice@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, alice, user)
		assert.Equal(t, domain.ScreenDashboard, c.Snapshot().Screen)
	})

	t.Run("invalid credentials leave state unchanged", func(t *testing.T) {
		gw := new(testutils.MockGateway)
		gw.On("Ping", mock.Anything).Return(nil)
		gw.On("Identity", mock.Anything).Return(nil, domain.ErrUnauthenticated).Once()
		gw.On("Authenticate", mock.Anything, "alice@example.com", "bad").Return(domain.ErrInvalidCredentials)

		c := newController(gw)
		c.Initialize(ctx)
		before := c.Snapshot()

		_, err := c.Login(ctx, "alice@example.com", "bad")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, before, c.Snapshot())
	})

	t.Run("unreachable backend fails fast", func(t *testing.T) {
		gw := new(testutils.MockGateway)
		gw.On("Ping", mock.Anything).Return(domain.ErrNetwork)

		c := newController(gw)
		c.Initialize(ctx)

		_, err := c.Login(ctx, "alice@example.com", "pw")
		assert.ErrorIs(t, err, domain.ErrNetwork)
		gw.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("recovered backend is re-probed", func(t *testing.T) {
		gw := new(testutils.MockGateway)
		gw.On("Ping", mock.Anything).Return(domain.ErrNetwork).Once()
		gw.On("Ping", mock.Anything).Return(nil)
		gw.On("Authenticate", mock.Anything, "alice@example.com", "pw").Return(nil)
		gw.On("Identity", mock.Anything).Return(alice, nil)

		c := newController(gw)
		c.Initialize(ctx)
		require.False(t, c.Snapshot().BackendReachable)

		_, err := c.Login(ctx, "alice@example.com", "pw")
		require.NoError(t, err)
		assert.True(t, c.Snapshot().BackendReachable)
	})
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("registers then logs in", func(t *testing.T) {
		gw := new(testutils.MockGateway)
		gw.On("Register", mock.Anything, "Alice", "alice@example.com", "pw").Return(nil)
		gw.On("Authenticate", mock.Anything, "alice@example.com", "pw").Return(nil)
		gw.On("Identity", mock.Anything).Return(alice, nil)

		c := newController(gw)
		user, err := c.Signup(ctx, "Alice", "alice@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, alice, user)
		assert.Equal(t, domain.ScreenDashboard, c.Snapshot().Screen)
		gw.AssertExpectations(t)
	})

	t.Run("registration failure skips login", func(t *testing.T) {
		gw := new(testutils.MockGateway)
		gw.On("Register", mock.Anything, "Alice", "alice@example.com", "pw").Return(domain.ErrDuplicateAccount)

		c := newController(gw)
		_, err := c.Signup(ctx, "Alice", "alice@example.com", "pw")
		assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
		assert.Equal(t, domain.ScreenInitializing, c.Snapshot().Screen)
		gw.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("login failure after registration propagates", func(t *testing.T) {
		gw := new(testutils.MockGateway)
		gw.On("Register", mock.Anything, "Alice", "alice@example.com", "pw").Return(nil)
		gw.On("Authenticate", mock.Anything, "alice@example.com", "pw").Return(fmt.Errorf("%w: timeout", domain.ErrNetwork))

		c := newController(gw)
		_, err := c.Signup(ctx, "Alice", "alice@example.com", "pw")
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Nil(t, c.Snapshot().User)
	})
}

func TestLogout_AlwaysLands(t *testing.T) {
	ctx := context.Background()
	for name, termErr := range map[string]error{"success": nil, "failure": domain.ErrNetwork} {
		t.Run(name, func(t *testing.T) {
			gw := new(testutils.MockGateway)
			gw.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			gw.On("Identity", mock.Anything).Return(alice, nil)
			gw.On("TerminateSession", mock.Anything).Return(termErr)

			c := newController(gw)
			_, err := c.Login(ctx, "alice@example.com", "pw")
			require.NoError(t, err)

			c.Logout(ctx)
			s := c.Snapshot()
			assert.Equal(t, domain.ScreenLanding, s.Screen)
			assert.Nil(t, s.User)
		})
	}
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	gw := new(testutils.MockGateway)
	gw.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	gw.On("Identity", mock.Anything).Return(alice, nil)
	gw.SetToken("tok")

	c := newController(gw)
	_, err := c.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)

	assert.False(t, c.Expire(ctx, domain.ErrNetwork))
	assert.Equal(t, domain.ScreenDashboard, c.Snapshot().Screen)

	assert.True(t, c.Expire(ctx, fmt.Errorf("list: %w", domain.ErrUnauthenticated)))
	assert.Equal(t, domain.ScreenLanding, c.Snapshot().Screen)
	assert.Empty(t, gw.Token())
}

func TestSnapshot_DashboardImpliesUser(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("Ping", mock.Anything).Return(nil)
	gw.On("Identity", mock.Anything).Return(alice, nil)
	gw.On("TerminateSession", mock.Anything).Return(nil)

	c := newController(gw)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		c.Initialize(ctx)
		s := c.Snapshot()
		if s.Screen == domain.ScreenDashboard {
			assert.NotNil(t, s.User)
		}
		c.Logout(ctx)
		assert.Nil(t, c.Snapshot().User)
	}
}
