// Package gateway selects and builds the configured Entity Gateway adapter.
package gateway

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nfrund/flavorfusion/internal/config"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/gateway/manifest"
	"github.com/nfrund/flavorfusion/internal/gateway/surreal"
	"github.com/nfrund/flavorfusion/internal/metrics"
	"github.com/nfrund/flavorfusion/internal/storage"
)

// MediaPrefix is the route under which self-hosted images are served.
const MediaPrefix = "/media"

// Backend is the configured data service: a factory for per-client gateway
// handles plus, for the self-hosted backend, the store holding uploaded images.
type Backend struct {
	Kind    string
	Factory domain.GatewayFactory
	Media   storage.Store
}

// NewBackend builds the backend named by cfg. Every gateway it produces is
// instrumented with call metrics.
func NewBackend(cfg config.Provider, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	kind := cfg.GetBackendKind()

	switch kind {
	case config.BackendManifest:
		baseURL, timeout := cfg.GetBackendURL(), cfg.GetBackendTimeout()
		return &Backend{
			Kind: kind,
			Factory: func() (domain.Gateway, error) {
				gw := manifest.New(baseURL, timeout, manifest.WithLogger(logger))
				return metrics.InstrumentGateway(gw, kind), nil
			},
		}, nil

	case config.BackendSurreal:
		media, err := storage.NewDiskStore(cfg.GetMediaDir())
		if err != nil {
			return nil, fmt.Errorf("failed to prepare media directory: %w", err)
		}
		images := storage.NewImageStore(media, strings.TrimRight(cfg.GetAppBaseURL(), "/")+MediaPrefix)
		sc := surreal.Config{URL: cfg.GetDBURL(), Namespace: cfg.GetDBNs(), Database: cfg.GetDBDb()}
		return &Backend{
			Kind:  kind,
			Media: media,
			Factory: func() (domain.Gateway, error) {
				return metrics.InstrumentGateway(surreal.New(sc, images, logger), kind), nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend kind %q", kind)
	}
}
