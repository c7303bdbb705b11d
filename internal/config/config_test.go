package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("BACKEND_KIND", "")
	t.Setenv("BACKEND_URL", "http://backend.test/")
	t.Setenv("TOKEN_FILE", "/tmp/ff-token")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetAppAddr())
	assert.Equal(t, BackendManifest, cfg.GetBackendKind())
	assert.Equal(t, "http://backend.test", cfg.GetBackendURL(), "trailing slash should be trimmed")
	assert.Equal(t, "http://backend.test/admin", cfg.GetAdminURL())
	assert.Equal(t, 10*time.Second, cfg.GetBackendTimeout())
	assert.Equal(t, "user@manifest.build", cfg.GetDemoEmail())
	assert.Equal(t, int64(5<<20), cfg.GetUploadMaxBytes())
	assert.Equal(t, "/tmp/ff-token", cfg.GetTokenFile())
}

func TestParse_Surreal(t *testing.T) {
	t.Run("requires connection settings", func(t *testing.T) {
		t.Setenv("BACKEND_KIND", "surreal")
		t.Setenv("SURREAL_URL", "")

		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("accepts complete settings", func(t *testing.T) {
		t.Setenv("BACKEND_KIND", "SURREAL")
		t.Setenv("SURREAL_URL", "ws://localhost:8000")
		t.Setenv("SURREAL_NS", "app")
		t.Setenv("SURREAL_DB", "catalog")

		cfg, err := Parse()
		require.NoError(t, err)
		assert.Equal(t, BackendSurreal, cfg.GetBackendKind())
		assert.Empty(t, cfg.GetAdminURL(), "the self-hosted backend has no admin console")
	})
}

func TestParse_UnknownBackend(t *testing.T) {
	t.Setenv("BACKEND_KIND", "firebase")

	_, err := Parse()
	assert.ErrorContains(t, err, "unknown BACKEND_KIND")
}

func TestRequireSessionSecret(t *testing.T) {
	cfg := &Config{SessionSecret: "short"}
	assert.Error(t, cfg.RequireSessionSecret())

	cfg.SessionSecret = "a-very-secret-key-for-testing-!"
	assert.NoError(t, cfg.RequireSessionSecret())
}
