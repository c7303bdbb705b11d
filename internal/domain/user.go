package domain

// Role is the authorization role reported by the backend for a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// User represents the authenticated account. The core only ever holds an
// immutable snapshot obtained at login or identity-check time.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Screen is the top-level screen selected by the session controller.
type Screen int

const (
	ScreenInitializing Screen = iota
	ScreenLanding
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenLanding:
		return "landing"
	case ScreenDashboard:
		return "dashboard"
	default:
		return "initializing"
	}
}

// Session is the authentication state of one client. Values are never mutated
// in place; the session controller replaces them wholesale.
type Session struct {
	User             *User
	Screen           Screen
	BackendReachable bool
}

// Authenticated reports whether a user is present.
func (s Session) Authenticated() bool {
	return s.User != nil
}
