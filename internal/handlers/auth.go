package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/app"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/middleware"
	"github.com/nfrund/flavorfusion/internal/rendering"
	"github.com/nfrund/flavorfusion/internal/view"
	"github.com/nfrund/flavorfusion/internal/view/dto/auth"
	"github.com/nfrund/flavorfusion/web/src/templates/pages"
)

// AuthHandler serves the landing page and the session operations.
type AuthHandler struct {
	renderer rendering.Renderer
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(renderer rendering.Renderer) *AuthHandler {
	return &AuthHandler{renderer: renderer}
}

func landingData(a *app.App, mode string) auth.LandingData {
	if mode != auth.ModeSignup {
		mode = auth.ModeLogin
	}
	return auth.LandingData{
		Mode:             mode,
		DemoEmail:        a.DemoEmail(),
		AdminURL:         a.AdminURL(),
		BackendReachable: a.Session().BackendReachable,
	}
}

func (h *AuthHandler) renderLanding(c echo.Context, status int, data auth.LandingData) error {
	if data.Error == "" {
		if flashes := view.GetFlashData(c); len(flashes.Error) > 0 {
			data.Error = flashes.Error[0]
		}
	}
	return h.renderer.RenderPage(c, status, pages.Landing(data))
}

// Landing renders the landing page (GET /), or sends an authenticated client
// to the dashboard.
func (h *AuthHandler) Landing(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	if a.Session().Screen == domain.ScreenDashboard {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return h.renderLanding(c, http.StatusOK, landingData(a, c.QueryParam("mode")))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
	}

	data := landingData(a, auth.ModeLogin)
	data.Email = req.Email
	if err := c.Validate(&req); err != nil {
		data.Error = "Email and password are required."
		return h.renderLanding(c, http.StatusUnprocessableEntity, data)
	}

	if err := a.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		data.Error = domain.UserMessage(err)
		data.BackendReachable = a.Session().BackendReachable
		return h.renderLanding(c, statusFor(err), data)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
	}

	data := landingData(a, auth.ModeSignup)
	data.Name, data.Email = req.Name, req.Email
	if err := c.Validate(&req); err != nil {
		data.Error = "Name, email and password are required."
		return h.renderLanding(c, http.StatusUnprocessableEntity, data)
	}

	if err := a.Signup(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		data.Error = domain.UserMessage(err)
		data.BackendReachable = a.Session().BackendReachable
		return h.renderLanding(c, statusFor(err), data)
	}
	view.SetFlashSuccess(c, "Account created successfully!")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Demo handles POST /auth/demo.
func (h *AuthHandler) Demo(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	if err := a.DemoLogin(c.Request().Context()); err != nil {
		data := landingData(a, auth.ModeLogin)
		data.Error = domain.UserMessage(err)
		return h.renderLanding(c, statusFor(err), data)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout handles POST /auth/logout. It always ends on the landing page.
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.WorkspaceFrom(c).Logout(c.Request().Context())
	return middleware.Redirect(c, "/")
}
