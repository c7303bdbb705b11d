package pages

import (
	"github.com/a-h/templ"
	"github.com/nfrund/flavorfusion/internal/view/dto/auth"
	"github.com/nfrund/flavorfusion/web/src/templates/components"
	"github.com/nfrund/flavorfusion/web/src/templates/layouts"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const inputClass = "w-full px-4 py-3 border border-gray-300 rounded-md shadow-sm focus:ring-indigo-500 focus:border-indigo-500"

// Landing is the unauthenticated screen with the login/signup toggle.
func Landing(data auth.LandingData) templ.Component {
	return layouts.Base("", LandingContent(data))
}

// LandingContent is the landing page body.
func LandingContent(data auth.LandingData) g.Node {
	heading, submit, action := "Welcome Back", "Log In", "/auth/login"
	toggleText, toggleLabel, toggleHref := "Not a member?", "Sign up", "/?mode=signup"
	if data.Signup() {
		heading, submit, action = "Join FlavorFusion", "Sign Up", "/auth/signup"
		toggleText, toggleLabel, toggleHref = "Already have an account?", "Log in", "/?mode=login"
	}

	return g.Group{
		h.Header(h.Class("bg-white shadow-sm"),
			h.Nav(h.Class("flex items-center justify-between p-6 lg:px-8"),
				h.A(h.Href("/"), h.Class("text-2xl font-bold text-gray-900"), g.Text("FlavorFusion")),
				h.Div(h.Class("flex items-center gap-4"),
					components.ConnectivityBadge(data.BackendReachable),
					components.AdminLink(data.AdminURL, "Admin Panel →"),
				),
			),
		),
		h.Main(h.Class("py-16"),
			h.Div(h.Class("mx-auto max-w-2xl text-center px-6"),
				h.H1(h.Class("text-4xl font-bold tracking-tight text-gray-900"), g.Text("Discover Your Next Favorite Meal")),
				h.P(h.Class("mt-6 text-lg leading-8 text-gray-600"),
					g.Text("FlavorFusion connects you with the best local restaurants and dishes."),
				),
			),
			h.Div(h.ID("auth"), h.Class("mx-auto mt-12 max-w-md bg-white rounded-xl shadow p-8"),
				h.H2(h.Class("text-2xl font-bold text-center text-gray-900"), g.Text(heading)),
				h.Form(h.Method("post"), h.Action(action), h.Class("mt-8 space-y-6"),
					g.If(data.Signup(),
						h.Input(h.Type("text"), h.Name("name"), h.Placeholder("Your Name"), h.Value(data.Name), h.Required(), h.Class(inputClass)),
					),
					h.Input(h.Type("email"), h.Name("email"), h.Placeholder("Email Address"), h.Value(data.Email), h.Required(), h.Class(inputClass)),
					h.Input(h.Type("password"), h.Name("password"), h.Placeholder("Password"), h.Required(), h.Class(inputClass)),
					components.ErrorText(data.Error),
					h.Button(h.Type("submit"),
						h.Class("w-full py-3 px-4 rounded-md text-sm font-medium text-white bg-indigo-600 hover:bg-indigo-700"),
						g.Text(submit),
					),
				),
				g.If(data.DemoEmail != "",
					h.Form(h.Method("post"), h.Action("/auth/demo"), h.Class("mt-2"),
						h.Button(h.Type("submit"),
							h.Class("w-full py-3 px-4 border border-gray-300 rounded-md text-sm font-medium text-gray-700 bg-white hover:bg-gray-50"),
							g.Text("Log In as Demo User"),
						),
					),
				),
				h.P(h.Class("mt-6 text-center text-sm text-gray-500"),
					g.Text(toggleText+" "),
					h.A(h.Href(toggleHref), h.Class("font-medium text-indigo-600 hover:text-indigo-500"), g.Text(toggleLabel)),
				),
			),
		),
	}
}
