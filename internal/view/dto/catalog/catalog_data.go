package catalog

import (
	"github.com/nfrund/flavorfusion/internal/domain"
)

// DashboardData is the view model of the dashboard.
type DashboardData struct {
	User        *domain.User
	AdminURL    string
	Restaurants []domain.Restaurant
	Selected    *domain.Restaurant
	MenuItems   []domain.MenuItem
	ShowMenu    bool
	CanAddItem  bool
	Loading     bool
	Error       string
	Success     []string
}

// FormErrors maps field names to messages, plus a general message under "".
type FormErrors map[string]string

// RestaurantFormData is the view model of the restaurant form overlay.
type RestaurantFormData struct {
	Name        string
	Description string
	Preview     string
	Notice      string
	Errors      FormErrors
}

// MenuItemFormData is the view model of the menu item form overlay.
type MenuItemFormData struct {
	RestaurantID   string
	RestaurantName string
	Name           string
	Description    string
	Price          string
	Category       string
	Preview        string
	Notice         string
	Errors         FormErrors
}

// PreviewData is the view model of the attachment preview fragment.
type PreviewData struct {
	Field   string
	DataURL string
	Error   string
}
