package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	e.POST("/auth/login", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}, RateLimiter())

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allows the burst", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.Equal(t, http.StatusOK, send("192.0.2.2:1234").Code, "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks beyond the burst", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			send("192.0.2.3:1234")
		}
		rec := send("192.0.2.3:1234")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "Too many attempts")
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send("192.0.2.4:1234").Code)
	})
}
