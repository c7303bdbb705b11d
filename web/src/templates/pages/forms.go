package pages

import (
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/view/dto/catalog"
	"github.com/nfrund/flavorfusion/web/src/templates/components"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// Form kinds, sent with preview and cancel requests.
const (
	FormRestaurant = "restaurant"
	FormMenuItem   = "menu-item"
)

const fieldClass = "w-full p-2 border rounded-md"

// RestaurantForm is the restaurant creation overlay.
func RestaurantForm(data catalog.RestaurantFormData) g.Node {
	return formPanel("New Restaurant", "/dashboard/restaurants", FormRestaurant, data.Errors,
		h.Input(h.Type("text"), h.Name("name"), h.Placeholder("Restaurant Name"), h.Value(data.Name), h.Class(fieldClass)),
		fieldError(data.Errors, "name"),
		h.Textarea(h.Name("description"), h.Placeholder("Description"), h.Class(fieldClass), g.Text(data.Description)),
		fieldError(data.Errors, "description"),
		imageField("Cover Image", FormRestaurant, catalog.PreviewData{Field: FormRestaurant, DataURL: data.Preview, Error: data.Notice}),
	)
}

// MenuItemForm is the menu item creation overlay.
func MenuItemForm(data catalog.MenuItemFormData) g.Node {
	category := data.Category
	if category == "" {
		category = string(domain.CategoryMain)
	}
	return formPanel("New Menu Item for "+data.RestaurantName, "/dashboard/menu-items", FormMenuItem, data.Errors,
		h.Input(h.Type("text"), h.Name("name"), h.Placeholder("Item Name"), h.Value(data.Name), h.Class(fieldClass)),
		fieldError(data.Errors, "name"),
		h.Textarea(h.Name("description"), h.Placeholder("Description"), h.Class(fieldClass), g.Text(data.Description)),
		fieldError(data.Errors, "description"),
		h.Input(h.Type("number"), h.Name("price"), h.Placeholder("Price (USD)"), h.Value(data.Price), h.Step("0.01"), h.Min("0"), h.Class(fieldClass)),
		fieldError(data.Errors, "price"),
		h.Label(h.Class("block text-sm font-medium text-gray-700"), g.Text("Category"),
			h.Select(h.Name("category"), h.Class(fieldClass+" mt-1"),
				g.Map(domain.Categories, func(c domain.Category) g.Node {
					return h.Option(h.Value(string(c)), g.If(string(c) == category, h.Selected()), g.Text(string(c)))
				}),
			),
		),
		fieldError(data.Errors, "category"),
		imageField("Photo", FormMenuItem, catalog.PreviewData{Field: FormMenuItem, DataURL: data.Preview, Error: data.Notice}),
	)
}

func formPanel(title, action, kind string, errs catalog.FormErrors, fields ...g.Node) g.Node {
	return h.Div(h.Class("bg-white p-6 rounded-lg shadow-md mb-8"),
		h.Form(h.Method("post"), h.Action(action), g.Attr("enctype", "multipart/form-data"), h.Class("space-y-4"),
			h.H3(h.Class("text-lg font-medium"), g.Text(title)),
			h.Input(h.Type("hidden"), h.Name("form"), h.Value(kind)),
			g.Group(fields),
			components.ErrorText(errs[""]),
			h.Div(h.Class("flex justify-end space-x-2"),
				h.Button(h.Type("submit"), g.Attr("formaction", "/dashboard/forms/cancel"), g.Attr("formnovalidate"), h.Class("px-4 py-2 border rounded-md text-sm"), g.Text("Cancel")),
				h.Button(h.Type("submit"), h.Class("px-4 py-2 bg-indigo-600 text-white rounded-md text-sm"), g.Text("Create")),
			),
		),
	)
}

func fieldError(errs catalog.FormErrors, field string) g.Node {
	return components.ErrorText(errs[field])
}

func imageField(label, kind string, preview catalog.PreviewData) g.Node {
	target := "preview-" + kind
	return h.Div(
		h.Label(h.Class("block text-sm font-medium text-gray-700"), g.Text(label)),
		h.Div(h.Class("mt-1 flex flex-col items-center px-6 pt-5 pb-6 border-2 border-gray-300 border-dashed rounded-md"),
			h.Div(h.ID(target), Preview(preview)),
			h.Input(h.Type("file"), h.Name("image"), h.Accept("image/*"), h.Class("mt-2 text-sm"),
				hx.Post("/dashboard/preview"),
				hx.Trigger("change"),
				hx.Encoding("multipart/form-data"),
				hx.Target("#"+target),
				hx.Swap("innerHTML"),
			),
			h.P(h.Class("text-xs text-gray-500"), g.Text("PNG, JPG, GIF up to the upload limit")),
		),
	)
}

// Preview is the htmx fragment showing the selected image.
func Preview(data catalog.PreviewData) g.Node {
	switch {
	case data.DataURL != "":
		return h.Img(h.Src(data.DataURL), h.Alt("Preview"), h.Class("mx-auto h-24 w-auto rounded-md"))
	case data.Error != "":
		return h.P(h.Class("text-sm text-amber-700"), g.Text(data.Error))
	default:
		return h.P(h.Class("text-sm text-gray-400"), g.Text("No image selected"))
	}
}
