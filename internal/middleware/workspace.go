package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/app"
	"github.com/nfrund/flavorfusion/internal/domain"
)

const (
	// SessionName is the cookie session holding the workspace binding.
	SessionName = "flavorfusion"

	workspaceContextKey = "workspace"
	sessionKeyWorkspace = "workspace_id"
	sessionKeyToken     = "token"
)

// Workspace binds the request to the browser session's application
// controller, creating one when the session is new or its workspace was
// dropped. The gateway token is written back to the cookie before the
// response goes out so a valid session survives a restart.
func Workspace(reg *app.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err != nil {
				// A cookie signed with an old secret decodes to a fresh session.
				FromContext(c.Request().Context()).Debug("Discarding unreadable session cookie", "error", err)
			}

			id, _ := sess.Values[sessionKeyWorkspace].(string)
			a, ok := reg.Get(id)
			rebound := false
			if !ok {
				token, _ := sess.Values[sessionKeyToken].(string)
				id, a, err = reg.Create(c.Request().Context(), token)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "workspace unavailable").SetInternal(err)
				}
				sess.Values[sessionKeyWorkspace] = id
				rebound = true
			}

			logger := FromContext(c.Request().Context()).With("workspace", id)
			c.SetRequest(c.Request().WithContext(WithLogger(c.Request().Context(), logger)))
			c.Set(workspaceContextKey, a)

			c.Response().Before(func() {
				persist(c, sess, a, rebound)
			})
			return next(c)
		}
	}
}

// persist saves the cookie when the session is new, the workspace id was
// rebound, or the token changed.
func persist(c echo.Context, sess *sessions.Session, a *app.App, rebound bool) {
	token := a.Gateway().Token()
	if !rebound && !sess.IsNew && sess.Values[sessionKeyToken] == token {
		return
	}
	sess.Values[sessionKeyToken] = token
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		FromContext(c.Request().Context()).Error("Failed to save session", "error", err)
	}
}

// WorkspaceFrom returns the controller bound by Workspace.
func WorkspaceFrom(c echo.Context) *app.App {
	a, _ := c.Get(workspaceContextKey).(*app.App)
	return a
}

// RequireDashboard sends clients without a session back to the landing page.
func RequireDashboard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		a := WorkspaceFrom(c)
		if a == nil || a.Session().Screen != domain.ScreenDashboard {
			return Redirect(c, "/")
		}
		return next(c)
	}
}

// Redirect issues a redirect that also works for htmx requests.
func Redirect(c echo.Context, url string) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", url)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, url)
}
