package forms

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"sync"
	"testing"

	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("permission denied") }

func pngSource(t *testing.T) attachment.Source {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return attachment.Source{Filename: "cover.png", Reader: &buf}
}

func newRestaurantForm(gw domain.Gateway, onSuccess func(context.Context, *domain.Restaurant)) *RestaurantForm {
	return NewRestaurantForm(gw, attachment.New(), onSuccess, testutils.DiscardLogger())
}

func newMenuItemForm(gw domain.Gateway, onSuccess func(context.Context, *domain.MenuItem)) *MenuItemForm {
	return NewMenuItemForm(gw, attachment.New(), "restaurants:1", onSuccess, testutils.DiscardLogger())
}

func TestRestaurantForm_BlankNameRejectedBeforeNetwork(t *testing.T) {
	for _, name := range []string{"", "   "} {
		gw := new(testutils.MockGateway)
		f := newRestaurantForm(gw, nil)
		f.Set(RestaurantInput{Name: name, Description: "Cozy"})

		_, err := f.Submit(context.Background())
		require.ErrorIs(t, err, domain.ErrValidation)

		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Name is required.", vErr.Fields["name"])
		gw.AssertNotCalled(t, "CreateRestaurant", mock.Anything, mock.Anything)
	}
}

func TestRestaurantForm_Success(t *testing.T) {
	gw := new(testutils.MockGateway)
	created := &domain.Restaurant{ID: "restaurants:9", Name: "Bistro"}
	gw.On("CreateRestaurant", mock.Anything, mock.MatchedBy(func(d domain.RestaurantDraft) bool {
		return d.Name == "Bistro" && d.Description == "Cozy" && d.CoverImage != nil && d.CoverImage.MIMEType == "image/png"
	})).Return(created, nil)

	var callbackGot *domain.Restaurant
	f := newRestaurantForm(gw, func(_ context.Context, r *domain.Restaurant) { callbackGot = r })
	f.Set(RestaurantInput{Name: "  Bistro ", Description: "Cozy"})
	require.NoError(t, f.Attach(context.Background(), pngSource(t)))
	assert.NotEmpty(t, f.Preview())

	got, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, created, callbackGot)
	assert.Equal(t, RestaurantInput{}, f.Draft(), "draft is discarded after success")
	assert.Empty(t, f.Preview())
}

func TestRestaurantForm_FailureKeepsInput(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("CreateRestaurant", mock.Anything, mock.Anything).Return(nil, domain.ErrNetwork)

	called := false
	f := newRestaurantForm(gw, func(context.Context, *domain.Restaurant) { called = true })
	in := RestaurantInput{Name: "Bistro", Description: "Cozy"}
	f.Set(in)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.False(t, called)
	assert.Equal(t, in, f.Draft())
	assert.False(t, f.Submitting())
}

func TestRestaurantForm_AttachmentFailureSubmitsWithout(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("CreateRestaurant", mock.Anything, mock.MatchedBy(func(d domain.RestaurantDraft) bool {
		return d.CoverImage == nil
	})).Return(&domain.Restaurant{ID: "restaurants:1", Name: "Bistro"}, nil)

	f := newRestaurantForm(gw, nil)
	f.Set(RestaurantInput{Name: "Bistro"})
	require.NoError(t, f.Attach(context.Background(), pngSource(t)))

	err := f.Attach(context.Background(), attachment.Source{Filename: "x.png", Reader: brokenReader{}})
	assert.ErrorIs(t, err, domain.ErrAttachmentRead)
	assert.Empty(t, f.Preview(), "a failed read clears the earlier preview")
	assert.NotEmpty(t, f.Notice())

	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestRestaurantForm_DoubleSubmitCreatesOnce(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := new(testutils.MockGateway)
	gw.On("CreateRestaurant", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(&domain.Restaurant{ID: "restaurants:1"}, nil).Once()

	f := newRestaurantForm(gw, nil)
	f.Set(RestaurantInput{Name: "Bistro"})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.Submit(context.Background())
	}()
	<-started

	assert.True(t, f.Submitting())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmitInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	gw.AssertNumberOfCalls(t, "CreateRestaurant", 1)
}

func TestRestaurantForm_EditsRefusedWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := new(testutils.MockGateway)
	gw.On("CreateRestaurant", mock.Anything, domain.RestaurantDraft{Name: "Bistro", Description: "Cozy"}).
		Run(func(mock.Arguments) { close(started); <-release }).
		Return(&domain.Restaurant{ID: "restaurants:1"}, nil).Once()

	f := newRestaurantForm(gw, nil)
	require.NoError(t, f.Set(RestaurantInput{Name: "Bistro", Description: "Cozy"}))

	var wg sync.WaitGroup
	wg.Add(1)
	var submitErr error
	go func() {
		defer wg.Done()
		_, submitErr = f.Submit(context.Background())
	}()
	<-started

	assert.ErrorIs(t, f.Set(RestaurantInput{Name: "Other"}), domain.ErrSubmitInFlight)
	assert.ErrorIs(t, f.Attach(context.Background(), pngSource(t)), domain.ErrSubmitInFlight)
	f.ClearAttachment()
	assert.Equal(t, "Bistro", f.Draft().Name, "the in-flight draft is untouched")
	assert.Empty(t, f.Preview())
	assert.Empty(t, f.Notice())

	close(release)
	wg.Wait()
	require.NoError(t, submitErr)
	assert.Equal(t, RestaurantInput{}, f.Draft(), "a successful submission clears the draft")

	require.NoError(t, f.Set(RestaurantInput{Name: "Next"}), "edits resume once the submission ends")
	require.NoError(t, f.Attach(context.Background(), pngSource(t)))
	assert.NotEmpty(t, f.Preview())
}

func TestMenuItemForm_SubmitUsesAttachmentPresentAtStart(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := new(testutils.MockGateway)
	gw.On("CreateMenuItem", mock.Anything, mock.MatchedBy(func(d domain.MenuItemDraft) bool {
		return d.Name == "Soup" && d.Photo != nil && d.Photo.MIMEType == "image/png"
	})).Run(func(mock.Arguments) { close(started); <-release }).
		Return(&domain.MenuItem{ID: "menu_item:6"}, nil).Once()

	f := newMenuItemForm(gw, nil)
	require.NoError(t, f.Set(MenuItemInput{Name: "Soup", Price: "3"}))
	require.NoError(t, f.Attach(context.Background(), pngSource(t)))

	var wg sync.WaitGroup
	wg.Add(1)
	var submitErr error
	go func() {
		defer wg.Done()
		_, submitErr = f.Submit(context.Background())
	}()
	<-started

	err := f.Attach(context.Background(), attachment.Source{Filename: "x.png", Reader: brokenReader{}})
	assert.ErrorIs(t, err, domain.ErrSubmitInFlight)
	assert.NotEmpty(t, f.Preview(), "a refused file does not clear the slot")
	assert.Empty(t, f.Notice())

	close(release)
	wg.Wait()
	require.NoError(t, submitErr)
	assert.Empty(t, f.Preview())
	assert.Equal(t, string(domain.CategoryMain), f.Draft().Category)
}

func TestMenuItemForm_PriceValidation(t *testing.T) {
	cases := map[string]string{
		"negative":    "-5",
		"non-numeric": "abc",
		"empty":       "",
		"infinite":    "Inf",
		"underscore":  "1_0",
	}
	for name, price := range cases {
		t.Run(name, func(t *testing.T) {
			gw := new(testutils.MockGateway)
			f := newMenuItemForm(gw, nil)
			f.Set(MenuItemInput{Name: "Soup", Price: price})

			_, err := f.Submit(context.Background())
			require.ErrorIs(t, err, domain.ErrValidation)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, "price")
			gw.AssertNotCalled(t, "CreateMenuItem", mock.Anything, mock.Anything)
		})
	}
}

func TestMenuItemForm_NegativeZeroPriceSentAsZero(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("CreateMenuItem", mock.Anything, mock.MatchedBy(func(d domain.MenuItemDraft) bool {
		return d.Price == 0 && !math.Signbit(d.Price)
	})).Return(&domain.MenuItem{ID: "menu_item:5"}, nil)

	f := newMenuItemForm(gw, nil)
	require.NoError(t, f.Set(MenuItemInput{Name: "Water", Price: "-0"}))
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	gw.AssertNumberOfCalls(t, "CreateMenuItem", 1)
}

func TestMenuItemForm_CollectsAllFieldErrors(t *testing.T) {
	gw := new(testutils.MockGateway)
	f := newMenuItemForm(gw, nil)
	f.Set(MenuItemInput{Price: "x", Category: "brunch"})

	_, err := f.Submit(context.Background())
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "name")
	assert.Contains(t, vErr.Fields, "price")
	assert.Contains(t, vErr.Fields, "category")
}

func TestMenuItemForm_Success(t *testing.T) {
	gw := new(testutils.MockGateway)
	created := &domain.MenuItem{ID: "menu_item:3", Name: "Soup", RestaurantID: "restaurants:1"}
	gw.On("CreateMenuItem", mock.Anything, domain.MenuItemDraft{
		Name:         "Soup",
		Price:        4.5,
		Category:     domain.CategoryMain,
		RestaurantID: "restaurants:1",
	}).Return(created, nil)

	var reloaded string
	f := newMenuItemForm(gw, func(_ context.Context, m *domain.MenuItem) { reloaded = m.RestaurantID })
	assert.Equal(t, string(domain.CategoryMain), f.Draft().Category, "category defaults to main")

	f.Set(MenuItemInput{Name: "Soup", Price: "4.50"})
	got, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "restaurants:1", reloaded)
}

func TestMenuItemForm_ZeroPriceAllowed(t *testing.T) {
	gw := new(testutils.MockGateway)
	gw.On("CreateMenuItem", mock.Anything, mock.MatchedBy(func(d domain.MenuItemDraft) bool {
		return d.Price == 0 && d.Category == domain.CategoryDrink
	})).Return(&domain.MenuItem{ID: "menu_item:4"}, nil)

	f := newMenuItemForm(gw, nil)
	f.Set(MenuItemInput{Name: "Water", Price: "0", Category: "Drink"})
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
}
