package forms

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/domain"
)

// RestaurantInput is the user-editable part of the restaurant form.
type RestaurantInput struct {
	Name        string `form:"name" validate:"required,max=120"`
	Description string `form:"description" validate:"max=2000"`
}

// RestaurantForm creates one restaurant. It is transient: on success the
// draft is discarded and OnSuccess decides what happens next.
type RestaurantForm struct {
	base
	onSuccess func(ctx context.Context, r *domain.Restaurant)

	draft RestaurantInput
}

// NewRestaurantForm creates an empty form. onSuccess may be nil.
func NewRestaurantForm(gw domain.Gateway, enc *attachment.Encoder, onSuccess func(context.Context, *domain.Restaurant), logger *slog.Logger) *RestaurantForm {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestaurantForm{
		base:      base{gw: gw, enc: enc, logger: logger.With("component", "restaurant_form")},
		onSuccess: onSuccess,
	}
}

// Set replaces the text fields. It returns domain.ErrSubmitInFlight while a
// submission is in flight.
func (f *RestaurantForm) Set(in RestaurantInput) error {
	return f.editLocked(func() { f.draft = in })
}

// Draft returns the current text fields.
func (f *RestaurantForm) Draft() RestaurantInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submit validates the draft and creates the restaurant. Validation happens
// before any network call. On failure the draft is kept for correction.
func (f *RestaurantForm) Submit(ctx context.Context) (*domain.Restaurant, error) {
	var created *domain.Restaurant
	err := f.guard(func() error {
		f.mu.Lock()
		in, cover := f.draft, f.attachmentLocked()
		f.mu.Unlock()

		in.Name = strings.TrimSpace(in.Name)
		in.Description = strings.TrimSpace(in.Description)
		if err := Validator().Struct(in); err != nil {
			return validationError(err)
		}

		r, err := f.gw.CreateRestaurant(ctx, domain.RestaurantDraft{
			Name:        in.Name,
			Description: in.Description,
			CoverImage:  cover,
		})
		if err != nil {
			return err
		}
		created = r

		f.mu.Lock()
		f.draft = RestaurantInput{}
		f.clearAttachmentLocked()
		f.mu.Unlock()
		return nil
	})
	if err != nil {
		logSubmitError(ctx, f.logger, domain.CollectionRestaurants, err)
		return nil, err
	}

	f.logger.InfoContext(ctx, "Restaurant created", "restaurant_id", created.ID)
	if f.onSuccess != nil {
		f.onSuccess(ctx, created)
	}
	return created, nil
}
