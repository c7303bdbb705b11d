package domain

import "context"

// Gateway is the client-side contract with the hosted data service. It lives
// in the domain because it is a requirement OF the core, not of any backend.
//
// A Gateway value is a long-lived handle that carries one client's session
// credential; it is injected explicitly into the session controller and the
// catalog navigator.
type Gateway interface {
	// Ping is the connectivity probe, distinct from authentication.
	Ping(ctx context.Context) error

	// Identity returns the user of the current session or ErrUnauthenticated.
	Identity(ctx context.Context) (*User, error)
	// Authenticate starts a session. Fails with ErrInvalidCredentials or ErrNetwork.
	Authenticate(ctx context.Context, email, password string) error
	// Register creates an account. Fails with ErrDuplicateAccount,
	// ErrValidation or ErrNetwork. It does not start a session by contract.
	Register(ctx context.Context, name, email, password string) error
	// TerminateSession ends the session. Best effort.
	TerminateSession(ctx context.Context) error

	ListRestaurants(ctx context.Context, opts ListOptions) ([]Restaurant, error)
	ListMenuItems(ctx context.Context, opts ListOptions) ([]MenuItem, error)

	CreateRestaurant(ctx context.Context, draft RestaurantDraft) (*Restaurant, error)
	CreateMenuItem(ctx context.Context, draft MenuItemDraft) (*MenuItem, error)

	// Token exposes the session credential so front ends can persist it.
	Token() string
	// SetToken restores a previously persisted credential.
	SetToken(token string)
}

// GatewayFactory creates a fresh gateway handle for a new client.
type GatewayFactory func() (Gateway, error)
