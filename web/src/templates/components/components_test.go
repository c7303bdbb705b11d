package components

import (
	"bytes"
	"testing"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "$4.50", Price(4.5))
	assert.Equal(t, "$0.00", Price(0))
	assert.Equal(t, "$1,234.00", Price(1234))
}

func TestRestaurantCard_Placeholders(t *testing.T) {
	out := render(t, RestaurantCard(domain.Restaurant{ID: "restaurants:1", Name: "Diner"}))
	assert.Contains(t, out, PlaceholderCard)
	assert.Contains(t, out, "Owner: N/A")
	assert.Contains(t, out, `action="/dashboard/restaurants/restaurants:1/select"`)
}

func TestRestaurantCard_CardVariant(t *testing.T) {
	r := domain.Restaurant{
		ID: "1", Name: "Diner",
		Owner:      &domain.OwnerRef{Name: "Alice"},
		CoverImage: domain.ImageRef{domain.ImageSizeCard: {URL: "http://cdn/card.jpg"}},
	}
	out := render(t, RestaurantCard(r))
	assert.Contains(t, out, "http://cdn/card.jpg")
	assert.Contains(t, out, "Owner: Alice")
}

func TestMenuItemCard(t *testing.T) {
	out := render(t, MenuItemCard(domain.MenuItem{Name: "Soup", Price: 3, Category: domain.CategoryAppetizer}))
	assert.Contains(t, out, PlaceholderThumbnail)
	assert.Contains(t, out, "$3.00")
	assert.Contains(t, out, "appetizer")
}

func TestAdminBadge(t *testing.T) {
	assert.Contains(t, render(t, html.Span(AdminBadge(&domain.User{Role: domain.RoleAdmin}))), "ADMIN")
	assert.Equal(t, "<span></span>", render(t, html.Span(AdminBadge(&domain.User{Role: domain.RoleStandard}))))
}

func TestConnectivityBadge(t *testing.T) {
	assert.Contains(t, render(t, ConnectivityBadge(false)), "Backend Disconnected")
	assert.Contains(t, render(t, ConnectivityBadge(true)), "Backend Connected")
}
