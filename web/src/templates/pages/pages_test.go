package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/view"
	"github.com/nfrund/flavorfusion/internal/view/dto/auth"
	"github.com/nfrund/flavorfusion/internal/view/dto/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestLanding_LoginMode(t *testing.T) {
	out := render(t, LandingContent(auth.LandingData{
		Mode:      auth.ModeLogin,
		Email:     "alice@example.com",
		Error:     "Invalid email or password.",
		DemoEmail: "user@manifest.build",
		AdminURL:  "http://localhost:1111/admin",
	}))

	assert.Contains(t, out, "Welcome Back")
	assert.Contains(t, out, `action="/auth/login"`)
	assert.NotContains(t, out, `name="name"`)
	assert.Contains(t, out, `value="alice@example.com"`)
	assert.Contains(t, out, "Invalid email or password.")
	assert.Contains(t, out, "Log In as Demo User")
	assert.Contains(t, out, "http://localhost:1111/admin")
	assert.Contains(t, out, "Backend Disconnected")
}

func TestLanding_SignupMode(t *testing.T) {
	out := render(t, LandingContent(auth.LandingData{Mode: auth.ModeSignup, BackendReachable: true}))

	assert.Contains(t, out, "Join FlavorFusion")
	assert.Contains(t, out, "Backend Connected")
	assert.Contains(t, out, `action="/auth/signup"`)
	assert.Contains(t, out, `name="name"`)
	assert.Contains(t, out, "Already have an account?")
	assert.NotContains(t, out, "Log In as Demo User")
}

func TestDashboard_RestaurantList(t *testing.T) {
	data := catalog.DashboardData{
		User:        &domain.User{Name: "Alice", Role: domain.RoleAdmin},
		Restaurants: []domain.Restaurant{{ID: "1", Name: "Diner"}},
	}
	out := render(t, DashboardContent(data, view.FlashData{Success: []string{"Restaurant created."}}, nil))

	assert.Contains(t, out, "Welcome, ")
	assert.Contains(t, out, "ADMIN")
	assert.Contains(t, out, "Diner")
	assert.Contains(t, out, "Add Restaurant")
	assert.Contains(t, out, "Restaurant created.")
	assert.NotContains(t, out, "Back to Restaurants")
}

func TestDashboard_MenuList(t *testing.T) {
	sel := &domain.Restaurant{ID: "1", Name: "Diner"}
	data := catalog.DashboardData{
		User:      &domain.User{Name: "Bob"},
		Selected:  sel,
		ShowMenu:  true,
		MenuItems: []domain.MenuItem{{Name: "Soup", Price: 4.5, Category: domain.CategoryAppetizer}},
	}

	out := render(t, DashboardContent(data, view.FlashData{}, nil))
	assert.Contains(t, out, "Diner&#39;s Menu")
	assert.Contains(t, out, "$4.50")
	assert.NotContains(t, out, "Add Menu Item")

	data.CanAddItem = true
	assert.Contains(t, render(t, DashboardContent(data, view.FlashData{}, nil)), "Add Menu Item")
}

func TestMenuItemForm_DefaultsToMain(t *testing.T) {
	out := render(t, MenuItemForm(catalog.MenuItemFormData{
		RestaurantName: "Diner",
		Errors:         catalog.FormErrors{"price": "Price cannot be negative."},
	}))

	assert.Contains(t, out, `<option value="main" selected>main</option>`)
	assert.Contains(t, out, "Price cannot be negative.")
	assert.Contains(t, out, `hx-post="/dashboard/preview"`)
}

func TestPreview(t *testing.T) {
	assert.Contains(t, render(t, Preview(catalog.PreviewData{DataURL: "data:image/png;base64,AAAA"})), `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, render(t, Preview(catalog.PreviewData{Error: "Could not read the image."})), "Could not read the image.")
	assert.Contains(t, render(t, Preview(catalog.PreviewData{})), "No image selected")
}

func TestLanding_Document(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Landing(auth.LandingData{}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<title>FlavorFusion</title>")
}
