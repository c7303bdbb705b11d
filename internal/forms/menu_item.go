package forms

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/domain"
)

// MenuItemInput is the user-editable part of the menu item form. Price is
// kept as typed so invalid input can be shown back unchanged.
type MenuItemInput struct {
	Name        string `form:"name" validate:"required,max=120"`
	Description string `form:"description" validate:"max=2000"`
	Price       string `form:"price" validate:"required"`
	Category    string `form:"category" validate:"required,oneof=appetizer main dessert drink"`
}

// MenuItemForm creates one menu item for a fixed restaurant.
type MenuItemForm struct {
	base
	restaurantID string
	onSuccess    func(ctx context.Context, m *domain.MenuItem)

	draft MenuItemInput
}

// NewMenuItemForm creates an empty form scoped to restaurantID. The category
// starts as main.
func NewMenuItemForm(gw domain.Gateway, enc *attachment.Encoder, restaurantID string, onSuccess func(context.Context, *domain.MenuItem), logger *slog.Logger) *MenuItemForm {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuItemForm{
		base:         base{gw: gw, enc: enc, logger: logger.With("component", "menu_item_form")},
		restaurantID: restaurantID,
		onSuccess:    onSuccess,
		draft:        emptyMenuItem(),
	}
}

// RestaurantID returns the restaurant new items are created under.
func (f *MenuItemForm) RestaurantID() string { return f.restaurantID }

// Set replaces the text fields. An empty category falls back to main. It
// returns domain.ErrSubmitInFlight while a submission is in flight.
func (f *MenuItemForm) Set(in MenuItemInput) error {
	if strings.TrimSpace(in.Category) == "" {
		in.Category = string(domain.CategoryMain)
	}
	return f.editLocked(func() { f.draft = in })
}

// Draft returns the current text fields.
func (f *MenuItemForm) Draft() MenuItemInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func emptyMenuItem() MenuItemInput {
	return MenuItemInput{Category: string(domain.CategoryMain)}
}

// Submit validates the draft and creates the menu item. Validation, price
// parsing included, happens before any network call.
func (f *MenuItemForm) Submit(ctx context.Context) (*domain.MenuItem, error) {
	var created *domain.MenuItem
	err := f.guard(func() error {
		f.mu.Lock()
		in, photo := f.draft, f.attachmentLocked()
		f.mu.Unlock()

		in.Name = strings.TrimSpace(in.Name)
		in.Description = strings.TrimSpace(in.Description)
		in.Category = strings.ToLower(strings.TrimSpace(in.Category))

		verr := &domain.ValidationError{Fields: map[string]string{}}
		if err := Validator().Struct(in); err != nil {
			ve, ok := validationError(err).(*domain.ValidationError)
			if !ok {
				return err
			}
			verr = ve
		}
		price, err := domain.ParsePrice(in.Price)
		if err != nil {
			if _, set := verr.Fields["price"]; !set {
				if pe, ok := err.(*domain.ValidationError); ok {
					verr.Fields["price"] = pe.Fields["price"]
				}
			}
		}
		if len(verr.Fields) > 0 {
			return verr
		}

		category, _ := domain.ParseCategory(in.Category)
		m, err := f.gw.CreateMenuItem(ctx, domain.MenuItemDraft{
			Name:         in.Name,
			Description:  in.Description,
			Price:        price,
			Category:     category,
			Photo:        photo,
			RestaurantID: f.restaurantID,
		})
		if err != nil {
			return err
		}
		created = m

		f.mu.Lock()
		f.draft = emptyMenuItem()
		f.clearAttachmentLocked()
		f.mu.Unlock()
		return nil
	})
	if err != nil {
		logSubmitError(ctx, f.logger, domain.CollectionMenuItems, err)
		return nil, err
	}

	f.logger.InfoContext(ctx, "Menu item created", "menu_item_id", created.ID, "restaurant_id", f.restaurantID)
	if f.onSuccess != nil {
		f.onSuccess(ctx, created)
	}
	return created, nil
}
