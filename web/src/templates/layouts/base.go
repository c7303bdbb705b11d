package layouts

import (
	"github.com/a-h/templ"
	"github.com/nfrund/flavorfusion/internal/view"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

const (
	htmxScript     = "https://unpkg.com/htmx.org@2.0.4"
	tailwindScript = "https://cdn.tailwindcss.com"
)

// Base wraps page content in the HTML document shared by every screen.
func Base(title string, body ...g.Node) templ.Component {
	return view.AdaptGomponentToTempl(c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []g.Node{
			h.Script(h.Src(htmxScript)),
			h.Script(h.Src(tailwindScript)),
			h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
		},
		Body: append([]g.Node{h.Class("min-h-screen bg-gray-100")}, body...),
	}))
}
