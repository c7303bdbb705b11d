package manifest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestPing(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
		}))
		assert.NoError(t, c.Ping(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		assert.ErrorIs(t, c.Ping(context.Background()), domain.ErrNetwork)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := New(srv.URL, time.Second)
		assert.ErrorIs(t, c.Ping(context.Background()), domain.ErrNetwork)
	})
}

func TestAuthenticateAndIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/users/login", func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "password" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("GET /api/auth/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "name": "Ada", "email": "ada@example.com", "role": "admin"})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Identity(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "no token means no network call and unauthenticated")

	err = c.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, c.Token())

	require.NoError(t, c.Authenticate(ctx, "ada@example.com", "password"))
	assert.Equal(t, "tok-123", c.Token())

	user, err := c.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.True(t, user.IsAdmin())

	c.SetToken("stale")
	_, err = c.Identity(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	require.NoError(t, c.TerminateSession(ctx))
	assert.Empty(t, c.Token())
}

func TestRegister(t *testing.T) {
	var signups atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/users/signup", func(w http.ResponseWriter, r *http.Request) {
		signups.Add(1)
		var creds credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		switch creds.Email {
		case "taken@example.com":
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "User already exists"})
		case "bad":
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"email must be an email"}})
		default:
			writeJSON(w, http.StatusCreated, map[string]string{"token": "signup-token"})
		}
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "New", "new@example.com", "secret"))
	assert.Empty(t, c.Token(), "registration must not start a session")

	assert.ErrorIs(t, c.Register(ctx, "Dup", "taken@example.com", "secret"), domain.ErrDuplicateAccount)

	err := c.Register(ctx, "Bad", "bad", "secret")
	require.ErrorIs(t, err, domain.ErrValidation)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email must be an email", vErr.Fields["email"])
	assert.Equal(t, int32(3), signups.Load())
}

func TestListRestaurants_WalksPages(t *testing.T) {
	var pages []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/collections/restaurants", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, []string{"owner"}, q["relations"])
		assert.Equal(t, "2", q.Get("perPage"))
		pages = append(pages, q.Get("page"))

		page, _ := strconv.Atoi(q.Get("page"))
		data := []map[string]any{}
		for i := 0; i < 2 && (page-1)*2+i < 3; i++ {
			n := (page-1)*2 + i + 1
			data = append(data, map[string]any{
				"id":      n,
				"name":    "R" + strconv.Itoa(n),
				"ownerId": 1,
				"owner":   map[string]any{"id": 1, "name": "Owner"},
				"coverImage": map[string]any{
					"thumbnail": "http://cdn/t.jpg",
					"card":      map[string]string{"url": "http://cdn/c.jpg"},
				},
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": data, "currentPage": page, "lastPage": 2})
	})
	c := newTestClient(t, mux, WithPerPage(2))

	got, err := c.ListRestaurants(context.Background(), domain.ListOptions{Include: []string{domain.IncludeOwner}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"1", "2"}, pages)
	assert.Equal(t, "R1", got[0].Name)
	assert.Equal(t, "1", got[0].OwnerID)
	assert.Equal(t, "Owner", got[0].OwnerName())
	assert.Equal(t, "http://cdn/t.jpg", got[0].CoverImage.ThumbnailURL())
	assert.Equal(t, "http://cdn/c.jpg", got[0].CoverImage.CardURL())
}

func TestListMenuItems_Filter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/collections/menu-items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("restaurantId_eq"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{{
				"id": 11, "name": "Soup", "price": 4.5, "category": "appetizer",
				"restaurantId": 5, "restaurant": map[string]any{"id": 5, "name": "Bistro"},
			}},
		})
	})
	c := newTestClient(t, mux)

	got, err := c.ListMenuItems(context.Background(), domain.ListOptions{
		Filter:  map[string]string{domain.FieldRestaurantID: "5"},
		Include: []string{domain.IncludeRestaurant},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4.5, got[0].Price)
	assert.Equal(t, domain.CategoryAppetizer, got[0].Category)
	assert.Equal(t, "5", got[0].RestaurantID)
	assert.Equal(t, "Bistro", got[0].Restaurant.Name)
	assert.True(t, got[0].Photo.Empty())
}

func TestCreateMenuItem_UploadsBeforeCreate(t *testing.T) {
	var order []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload/image", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "upload")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "menu-items", r.FormValue("entity"))
		assert.Equal(t, "photo", r.FormValue("property"))
		f, fh, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "dish.png", fh.Filename)
		assert.Equal(t, []byte("png-bytes"), data)
		writeJSON(w, http.StatusOK, map[string]any{"thumbnail": "http://cdn/t.jpg", "card": "http://cdn/c.jpg"})
	})
	mux.HandleFunc("POST /api/collections/menu-items", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "create")
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["restaurantId"])
		assert.Equal(t, 12.5, body["price"])
		photo, ok := body["photo"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "http://cdn/t.jpg", photo["thumbnail"])

		body["id"] = 99
		writeJSON(w, http.StatusCreated, body)
	})
	c := newTestClient(t, mux)

	item, err := c.CreateMenuItem(context.Background(), domain.MenuItemDraft{
		Name:         "Pasta",
		Price:        12.5,
		Category:     domain.CategoryMain,
		RestaurantID: "5",
		Photo:        &domain.Attachment{Filename: "dish.png", MIMEType: "image/png", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"upload", "create"}, order)
	assert.Equal(t, "99", item.ID)
	assert.Equal(t, "http://cdn/c.jpg", item.Photo.CardURL())
}

func TestCreateRestaurant_ValidationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/collections/restaurants", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"name should not be empty"}})
	})
	c := newTestClient(t, mux)

	_, err := c.CreateRestaurant(context.Background(), domain.RestaurantDraft{})
	require.ErrorIs(t, err, domain.ErrValidation)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name should not be empty", vErr.Fields["name"])
}
