package domain

import (
	"math"
	"strconv"
	"strings"
)

// Collection names shared by the gateway adapters.
const (
	CollectionRestaurants = "restaurants"
	CollectionMenuItems   = "menu-items"
)

// Relation and filter names understood by the gateway adapters.
const (
	IncludeOwner      = "owner"
	IncludeRestaurant = "restaurant"
	FieldRestaurantID = "restaurantId"
	FieldOwnerID      = "ownerId"
)

// Image size variants every ImageRef is expected to expose.
const (
	ImageSizeThumbnail = "thumbnail"
	ImageSizeCard      = "card"
)

// Category is the fixed set of menu sections.
type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMain      Category = "main"
	CategoryDessert   Category = "dessert"
	CategoryDrink     Category = "drink"
)

// Categories lists the menu sections in display order.
var Categories = []Category{CategoryAppetizer, CategoryMain, CategoryDessert, CategoryDrink}

// ParseCategory returns the category for s, or false when s is not one of the
// fixed values.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// ImageVariant is a single rendition of an uploaded image.
type ImageVariant struct {
	URL string `json:"url"`
}

// ImageRef is the opaque handle returned by the backend after an upload. The
// core only reads the variant URLs and never interprets anything else.
type ImageRef map[string]ImageVariant

// URL returns the URL of the named variant, or "" when absent.
func (r ImageRef) URL(size string) string {
	if r == nil {
		return ""
	}
	return r[size].URL
}

// ThumbnailURL returns the thumbnail-sized URL.
func (r ImageRef) ThumbnailURL() string { return r.URL(ImageSizeThumbnail) }

// CardURL returns the card-sized URL.
func (r ImageRef) CardURL() string { return r.URL(ImageSizeCard) }

// Empty reports whether the handle has no usable variant.
func (r ImageRef) Empty() bool {
	for _, v := range r {
		if v.URL != "" {
			return false
		}
	}
	return true
}

// OwnerRef is the owner relation resolved inline by the gateway.
type OwnerRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// RestaurantRef is the parent relation of a menu item resolved inline.
type RestaurantRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Restaurant is a catalog entry owned by a user.
type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	Owner       *OwnerRef `json:"owner,omitempty"`
	CoverImage  ImageRef  `json:"coverImage,omitempty"`
}

// OwnerName returns the resolved owner name or "N/A".
func (r Restaurant) OwnerName() string {
	if r.Owner == nil || r.Owner.Name == "" {
		return "N/A"
	}
	return r.Owner.Name
}

// MenuItem is a dish offered by exactly one restaurant.
type MenuItem struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	Category     Category       `json:"category"`
	Photo        ImageRef       `json:"photo,omitempty"`
	RestaurantID string         `json:"restaurantId"`
	Restaurant   *RestaurantRef `json:"restaurant,omitempty"`
}

// Attachment is the submission-ready payload of a selected local file.
type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
}

// RestaurantDraft is the creation request for a restaurant.
type RestaurantDraft struct {
	Name        string
	Description string
	CoverImage  *Attachment
}

// MenuItemDraft is the creation request for a menu item.
type MenuItemDraft struct {
	Name         string
	Description  string
	Price        float64
	Category     Category
	Photo        *Attachment
	RestaurantID string
}

// ParsePrice converts user input into a finite, non-negative price.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, NewValidationError("price", "Price is required.")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || strings.ContainsRune(raw, '_') || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, NewValidationError("price", "Price must be a number.")
	}
	if v < 0 {
		return 0, NewValidationError("price", "Price cannot be negative.")
	}
	if v == 0 {
		// Normalises -0.
		v = 0
	}
	return v, nil
}

// ListOptions narrows a collection listing. Filter restricts by field
// equality; Include names relations to resolve inline.
type ListOptions struct {
	Filter  map[string]string
	Include []string
}

// Includes reports whether relation was requested.
func (o ListOptions) Includes(relation string) bool {
	for _, r := range o.Include {
		if r == relation {
			return true
		}
	}
	return false
}
