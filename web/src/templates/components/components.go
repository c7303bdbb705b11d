// Package components holds the gomponents building blocks shared by pages.
package components

import (
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/view"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Placeholder images shown when an entity has no upload.
const (
	PlaceholderCard      = "https://placehold.co/400x250"
	PlaceholderThumbnail = "https://placehold.co/150x150"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Price formats a menu price with two decimals and digit grouping.
func Price(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// ConnectivityBadge shows whether the backend answered the startup health check.
func ConnectivityBadge(reachable bool) g.Node {
	if reachable {
		return h.Span(h.Class("badge-online text-xs font-semibold px-2 py-1 rounded-full"), g.Text("Backend Connected"))
	}
	return h.Span(h.Class("badge-offline text-xs font-semibold px-2 py-1 rounded-full"), g.Text("Backend Disconnected"))
}

// AdminLink is the outbound link to the backend's admin console.
func AdminLink(url, label string) g.Node {
	if url == "" {
		return nil
	}
	return h.A(
		h.Href(url), h.Target("_blank"), h.Rel("noopener noreferrer"),
		h.Class("text-sm font-semibold text-gray-900 hover:text-indigo-600"),
		g.Text(label),
	)
}

// AdminBadge marks admin users in the header.
func AdminBadge(u *domain.User) g.Node {
	return g.If(u.IsAdmin(),
		h.Span(h.Class("text-xs bg-indigo-100 text-indigo-700 font-bold py-1 px-2 rounded-full"), g.Text("ADMIN")),
	)
}

// Flash renders queued one-shot messages.
func Flash(f view.FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	return h.Div(h.ID("flash"), h.Class("space-y-2 mb-6"),
		g.Map(f.Success, func(msg string) g.Node {
			return h.P(h.Class("rounded-md bg-green-50 p-3 text-sm text-green-800"), g.Text(msg))
		}),
		g.Map(f.Error, func(msg string) g.Node {
			return ErrorText(msg)
		}),
	)
}

// ErrorText is the inline error style shared by forms.
func ErrorText(msg string) g.Node {
	if msg == "" {
		return nil
	}
	return h.P(h.Class("text-sm text-red-600"), g.Attr("role", "alert"), g.Text(msg))
}

// RestaurantCard is one entry of the restaurant list. Selecting it posts to
// the select endpoint.
func RestaurantCard(r domain.Restaurant) g.Node {
	img := r.CoverImage.CardURL()
	if img == "" {
		img = PlaceholderCard
	}
	return h.Form(
		h.Method("post"), h.Action("/dashboard/restaurants/"+r.ID+"/select"),
		h.Class("bg-white rounded-lg shadow-lg overflow-hidden"),
		h.Button(h.Type("submit"), h.Class("w-full text-left"),
			h.Img(h.Src(img), h.Alt(r.Name), h.Class("w-full h-48 object-cover")),
			h.Div(h.Class("p-6"),
				h.H3(h.Class("text-xl font-bold text-gray-900"), g.Text(r.Name)),
				h.P(h.Class("text-sm text-gray-500 mt-2"), g.Text("Owner: "+r.OwnerName())),
			),
		),
	)
}

// MenuItemCard is one entry of a restaurant's menu.
func MenuItemCard(m domain.MenuItem) g.Node {
	img := m.Photo.ThumbnailURL()
	if img == "" {
		img = PlaceholderThumbnail
	}
	return h.Div(h.Class("bg-white rounded-lg shadow-md overflow-hidden flex flex-col"),
		h.Img(h.Src(img), h.Alt(m.Name), h.Class("w-full h-40 object-cover")),
		h.Div(h.Class("p-4 flex flex-col flex-grow"),
			h.Div(h.Class("flex justify-between items-start"),
				h.H4(h.Class("font-bold text-lg text-gray-800"), g.Text(m.Name)),
				h.Span(h.Class("font-semibold text-lg text-green-600"), g.Text(Price(m.Price))),
			),
			h.P(h.Class("text-sm text-gray-600 mt-1 flex-grow"), g.Text(m.Description)),
			h.Span(h.Class("mt-4 text-xs font-semibold uppercase px-2 py-1 bg-indigo-100 text-indigo-800 rounded-full self-start"), g.Text(string(m.Category))),
		),
	)
}
