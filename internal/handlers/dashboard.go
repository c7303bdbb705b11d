package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/app"
	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/catalog"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/forms"
	"github.com/nfrund/flavorfusion/internal/middleware"
	"github.com/nfrund/flavorfusion/internal/rendering"
	"github.com/nfrund/flavorfusion/internal/view"
	dto "github.com/nfrund/flavorfusion/internal/view/dto/catalog"
	"github.com/nfrund/flavorfusion/web/src/templates/pages"
	g "maragu.dev/gomponents"
)

const expiredMessage = "Your session has expired. Please log in again."

// DashboardHandler serves the catalog screens and the creation forms.
type DashboardHandler struct {
	renderer rendering.Renderer
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(renderer rendering.Renderer) *DashboardHandler {
	return &DashboardHandler{renderer: renderer}
}

func dashboardData(a *app.App) dto.DashboardData {
	cache := a.Catalog()
	data := dto.DashboardData{
		User:        a.Session().User,
		AdminURL:    a.AdminURL(),
		Restaurants: cache.Restaurants,
		Selected:    cache.Selected,
		MenuItems:   cache.MenuItems,
		ShowMenu:    cache.View == catalog.ViewMenuItemList,
		CanAddItem:  a.CanAddMenuItem(),
		Loading:     cache.Loading,
	}
	if cache.Err != nil {
		data.Error = domain.UserMessage(cache.Err)
	}
	return data
}

func (h *DashboardHandler) render(c echo.Context, status int, overlay g.Node) error {
	a := middleware.WorkspaceFrom(c)
	return h.renderer.RenderPage(c, status, pages.Dashboard(dashboardData(a), view.GetFlashData(c), overlay))
}

// expired sends the client to the landing page when err means the session
// is gone.
func expired(c echo.Context, a *app.App, err error) bool {
	if !a.ExpireOn(c.Request().Context(), err) {
		return false
	}
	view.SetFlashError(c, expiredMessage)
	return true
}

// Show renders the dashboard (GET /dashboard).
func (h *DashboardHandler) Show(c echo.Context) error {
	return h.render(c, http.StatusOK, nil)
}

// Select handles POST /dashboard/restaurants/:id/select.
func (h *DashboardHandler) Select(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	err := a.SelectRestaurant(c.Request().Context(), c.Param("id"))
	switch {
	case err == nil:
	case a.Session().Screen != domain.ScreenDashboard:
		view.SetFlashError(c, expiredMessage)
		return middleware.Redirect(c, "/")
	case errors.Is(err, app.ErrUnknownRestaurant):
		return echo.NewHTTPError(http.StatusNotFound, "restaurant not found")
	default:
		// The error is kept in the catalog cache and shown by the dashboard.
		middleware.FromContext(c.Request().Context()).Warn("Menu load failed", "error", err)
	}
	return middleware.Redirect(c, "/dashboard")
}

// Back handles POST /dashboard/back.
func (h *DashboardHandler) Back(c echo.Context) error {
	middleware.WorkspaceFrom(c).Back()
	return middleware.Redirect(c, "/dashboard")
}

func restaurantFormData(f *forms.RestaurantForm, err error) dto.RestaurantFormData {
	in := f.Draft()
	data := dto.RestaurantFormData{
		Name:        in.Name,
		Description: in.Description,
		Preview:     f.Preview(),
		Notice:      f.Notice(),
	}
	if err != nil {
		data.Errors = formErrors(err, "name", "description")
	}
	return data
}

func menuItemFormData(a *app.App, f *forms.MenuItemForm, err error) dto.MenuItemFormData {
	in := f.Draft()
	data := dto.MenuItemFormData{
		RestaurantID: f.RestaurantID(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
		Preview:      f.Preview(),
		Notice:       f.Notice(),
	}
	if sel := a.Catalog().Selected; sel != nil {
		data.RestaurantName = sel.Name
	}
	if err != nil {
		data.Errors = formErrors(err, "name", "description", "price", "category")
	}
	return data
}

// NewRestaurant opens the restaurant form (GET /dashboard/restaurants/new).
func (h *DashboardHandler) NewRestaurant(c echo.Context) error {
	f, err := middleware.WorkspaceFrom(c).OpenRestaurantForm()
	if err != nil {
		return middleware.Redirect(c, "/")
	}
	return h.render(c, http.StatusOK, pages.RestaurantForm(restaurantFormData(f, nil)))
}

// CreateRestaurant submits the restaurant form (POST /dashboard/restaurants).
func (h *DashboardHandler) CreateRestaurant(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	ctx := c.Request().Context()
	f, err := a.OpenRestaurantForm()
	if err != nil {
		return middleware.Redirect(c, "/")
	}

	var in forms.RestaurantInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
	}
	if err := f.Set(in); err != nil {
		return echo.NewHTTPError(statusFor(err), domain.UserMessage(err)).SetInternal(err)
	}
	if err := attachUpload(ctx, c, f.Attach); err != nil {
		return err
	}

	if _, err := f.Submit(ctx); err != nil {
		if expired(c, a, err) {
			return middleware.Redirect(c, "/")
		}
		return h.render(c, statusFor(err), pages.RestaurantForm(restaurantFormData(f, err)))
	}
	view.SetFlashSuccess(c, "Restaurant created.")
	return middleware.Redirect(c, "/dashboard")
}

// NewMenuItem opens the menu item form (GET /dashboard/menu-items/new).
func (h *DashboardHandler) NewMenuItem(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	f, err := a.OpenMenuItemForm()
	if err != nil {
		view.SetFlashError(c, domain.UserMessage(err))
		return middleware.Redirect(c, "/dashboard")
	}
	return h.render(c, http.StatusOK, pages.MenuItemForm(menuItemFormData(a, f, nil)))
}

// CreateMenuItem submits the menu item form (POST /dashboard/menu-items).
func (h *DashboardHandler) CreateMenuItem(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	ctx := c.Request().Context()
	f, err := a.OpenMenuItemForm()
	if err != nil {
		view.SetFlashError(c, domain.UserMessage(err))
		return middleware.Redirect(c, "/dashboard")
	}

	var in forms.MenuItemInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
	}
	if err := f.Set(in); err != nil {
		return echo.NewHTTPError(statusFor(err), domain.UserMessage(err)).SetInternal(err)
	}
	if err := attachUpload(ctx, c, f.Attach); err != nil {
		return err
	}

	if _, err := f.Submit(ctx); err != nil {
		if expired(c, a, err) {
			return middleware.Redirect(c, "/")
		}
		return h.render(c, statusFor(err), pages.MenuItemForm(menuItemFormData(a, f, err)))
	}
	view.SetFlashSuccess(c, "Menu item created.")
	return middleware.Redirect(c, "/dashboard")
}

// CancelForm discards the open form named by the "form" field
// (POST /dashboard/forms/cancel).
func (h *DashboardHandler) CancelForm(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	switch c.FormValue("form") {
	case pages.FormMenuItem:
		a.CloseMenuItemForm()
	default:
		a.CloseRestaurantForm()
	}
	return middleware.Redirect(c, "/dashboard")
}

// Preview encodes the selected image into the open form and returns the
// preview fragment (POST /dashboard/preview).
func (h *DashboardHandler) Preview(c echo.Context) error {
	a := middleware.WorkspaceFrom(c)
	kind := c.FormValue("form")

	var attach func(context.Context, attachment.Source) error
	var preview, notice func() string
	switch kind {
	case pages.FormMenuItem:
		f, ok := a.MenuItemForm()
		if !ok {
			return echo.NewHTTPError(http.StatusConflict, "menu item form is not open")
		}
		attach, preview, notice = f.Attach, f.Preview, f.Notice
	case pages.FormRestaurant:
		f, ok := a.RestaurantForm()
		if !ok {
			return echo.NewHTTPError(http.StatusConflict, "restaurant form is not open")
		}
		attach, preview, notice = f.Attach, f.Preview, f.Notice
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown form")
	}

	if err := attachUpload(c.Request().Context(), c, attach); err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.Preview(dto.PreviewData{
		Field:   kind,
		DataURL: preview(),
		Error:   notice(),
	}))
}
