package pages

import (
	"github.com/a-h/templ"
	"github.com/nfrund/flavorfusion/internal/view"
	"github.com/nfrund/flavorfusion/internal/view/dto/catalog"
	"github.com/nfrund/flavorfusion/web/src/templates/components"
	"github.com/nfrund/flavorfusion/web/src/templates/layouts"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const buttonClass = "inline-flex items-center px-4 py-2 rounded-md shadow-sm text-sm font-medium text-white bg-indigo-600 hover:bg-indigo-700"

// Dashboard is the authenticated screen. overlay is an open form, or nil.
func Dashboard(data catalog.DashboardData, flash view.FlashData, overlay g.Node) templ.Component {
	return layouts.Base("Dashboard", DashboardContent(data, flash, overlay))
}

// DashboardContent is the dashboard body.
func DashboardContent(data catalog.DashboardData, flash view.FlashData, overlay g.Node) g.Node {
	var body g.Node
	if data.ShowMenu && data.Selected != nil {
		body = menuView(data)
	} else {
		body = restaurantView(data)
	}
	return g.Group{
		dashboardHeader(data),
		h.Main(h.Class("max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-8"),
			components.Flash(flash),
			h.Div(h.ID("overlay"), overlay),
			body,
		),
	}
}

func dashboardHeader(data catalog.DashboardData) g.Node {
	name := ""
	if data.User != nil {
		name = data.User.Name
	}
	return h.Header(h.Class("bg-white shadow-sm"),
		h.Div(h.Class("max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-4 flex justify-between items-center"),
			h.H1(h.Class("text-2xl font-bold text-gray-900"), g.Text("FlavorFusion")),
			h.Div(h.Class("flex items-center space-x-4"),
				h.Span(h.Class("text-gray-600"),
					g.Text("Welcome, "), h.Span(h.Class("font-semibold"), g.Text(name)), g.Text("! "),
					components.AdminBadge(data.User),
				),
				components.AdminLink(data.AdminURL, "Admin Panel"),
				h.Form(h.Method("post"), h.Action("/auth/logout"),
					h.Button(h.Type("submit"), h.Class("text-sm font-medium text-white bg-red-600 hover:bg-red-700 px-4 py-2 rounded-md"), g.Text("Logout")),
				),
			),
		),
	)
}

func restaurantView(data catalog.DashboardData) g.Node {
	return h.Section(h.ID("restaurants"),
		h.Div(h.Class("flex justify-between items-center mb-6"),
			h.H2(h.Class("text-3xl font-semibold text-gray-800"), g.Text("Restaurants")),
			h.A(h.Href("/dashboard/restaurants/new"), h.Class(buttonClass), g.Text("Add Restaurant")),
		),
		components.ErrorText(data.Error),
		g.If(data.Loading, h.P(g.Text("Loading restaurants..."))),
		g.If(!data.Loading && len(data.Restaurants) == 0 && data.Error == "",
			h.P(h.Class("text-gray-500"), g.Text("No restaurants yet.")),
		),
		h.Div(h.Class("grid grid-cols-1 md:grid-cols-2 lg:grid-cols-3 gap-8"),
			g.Map(data.Restaurants, components.RestaurantCard),
		),
	)
}

func menuView(data catalog.DashboardData) g.Node {
	return h.Section(h.ID("menu"),
		h.Div(h.Class("flex justify-between items-center mb-6"),
			h.Div(
				h.Form(h.Method("post"), h.Action("/dashboard/back"),
					h.Button(h.Type("submit"), h.Class("text-sm text-indigo-600 hover:underline mb-2"), g.Text("← Back to Restaurants")),
				),
				h.H2(h.Class("text-3xl font-semibold text-gray-800"), g.Text(data.Selected.Name+"'s Menu")),
			),
			g.If(data.CanAddItem,
				h.A(h.Href("/dashboard/menu-items/new"), h.Class(buttonClass), g.Text("Add Menu Item")),
			),
		),
		components.ErrorText(data.Error),
		g.If(data.Loading, h.P(g.Text("Loading menu items..."))),
		g.If(!data.Loading && len(data.MenuItems) == 0 && data.Error == "",
			h.P(h.Class("text-gray-500"), g.Text("No menu items yet.")),
		),
		h.Div(h.Class("grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-6"),
			g.Map(data.MenuItems, components.MenuItemCard),
		),
	)
}
