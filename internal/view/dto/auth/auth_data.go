package auth

// Landing page modes.
const (
	ModeLogin  = "login"
	ModeSignup = "signup"
)

// LandingData is the view model of the landing page: the login/signup toggle,
// the inline error and the values to re-fill after a failed attempt.
type LandingData struct {
	Mode             string
	Name             string
	Email            string
	Error            string
	DemoEmail        string
	AdminURL         string
	BackendReachable bool
}

// Signup reports whether the signup variant of the form is shown.
func (d LandingData) Signup() bool {
	return d.Mode == ModeSignup
}
