package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// sessionContext returns an echo context that already passed through the
// session middleware.
func sessionContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	var c echo.Context
	mw := session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret)))
	require.NoError(t, mw(func(ctx echo.Context) error { c = ctx; return nil })(e.NewContext(req, rec)))
	return c
}

func TestFlash_ReadOnce(t *testing.T) {
	c := sessionContext(t)

	view.SetFlashSuccess(c, "Restaurant created.")
	view.SetFlashError(c, "Could not load the menu.")

	flashes := view.GetFlashData(c)
	assert.Equal(t, []string{"Restaurant created."}, flashes.Success)
	assert.Equal(t, []string{"Could not load the menu."}, flashes.Error)
	assert.False(t, flashes.Empty())

	assert.True(t, view.GetFlashData(c).Empty(), "flashes are cleared after being read")
}

func TestFlash_NoneSet(t *testing.T) {
	flashes := view.GetFlashData(sessionContext(t))
	assert.True(t, flashes.Empty())
}
