package manifest

import (
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/tidwall/gjson"
)

// parseImage normalizes an image field. Each size is either a bare URL
// string or an object with a url property.
func parseImage(r gjson.Result) domain.ImageRef {
	if !r.IsObject() {
		return nil
	}
	ref := domain.ImageRef{}
	r.ForEach(func(size, v gjson.Result) bool {
		var u string
		if v.Type == gjson.String {
			u = v.String()
		} else {
			u = v.Get("url").String()
		}
		if u != "" {
			ref[size.String()] = domain.ImageVariant{URL: u}
		}
		return true
	})
	if len(ref) == 0 {
		return nil
	}
	return ref
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v.String()
		}
	}
	return ""
}

func parseRestaurant(r gjson.Result) domain.Restaurant {
	out := domain.Restaurant{
		ID:          r.Get("id").String(),
		Name:        r.Get("name").String(),
		Description: r.Get("description").String(),
		OwnerID:     firstString(r, "ownerId", "owner.id"),
		CoverImage:  parseImage(r.Get("coverImage")),
	}
	if owner := r.Get("owner"); owner.IsObject() {
		out.Owner = &domain.OwnerRef{
			ID:   owner.Get("id").String(),
			Name: owner.Get("name").String(),
		}
	}
	return out
}

func parseMenuItem(r gjson.Result) domain.MenuItem {
	out := domain.MenuItem{
		ID:           r.Get("id").String(),
		Name:         r.Get("name").String(),
		Description:  r.Get("description").String(),
		Price:        r.Get("price").Float(),
		Category:     domain.Category(r.Get("category").String()),
		Photo:        parseImage(r.Get("photo")),
		RestaurantID: firstString(r, "restaurantId", "restaurant.id"),
	}
	if rest := r.Get("restaurant"); rest.IsObject() {
		out.Restaurant = &domain.RestaurantRef{
			ID:   rest.Get("id").String(),
			Name: rest.Get("name").String(),
		}
	}
	return out
}
