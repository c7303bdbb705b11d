package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/flavorfusion/internal/app"
	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/config"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/gateway"
	"github.com/nfrund/flavorfusion/internal/handlers"
	"github.com/nfrund/flavorfusion/internal/metrics"
	"github.com/nfrund/flavorfusion/internal/middleware"
	"github.com/nfrund/flavorfusion/internal/pubsub"
	"github.com/nfrund/flavorfusion/internal/rendering"
	"github.com/samber/do/v2"
)

const (
	workspaceIdleTTL = 30 * time.Minute
	janitorInterval  = 5 * time.Minute
)

// Server holds the HTTP server and the services behind it.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	injector *do.RootScope
	registry *app.Registry
	bus      *pubsub.WatermillBridge
	probe    domain.Gateway
	logger   *slog.Logger
}

// New wires the services into an injector and builds the echo instance.
func New(cfg config.Provider, backend *gateway.Backend, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	injector := newInjector(cfg, backend, logger)

	registry, err := do.Invoke[*app.Registry](injector)
	if err != nil {
		return nil, err
	}
	renderer := do.MustInvoke[*rendering.UniversalRenderer](injector)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.Renderer = renderer
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			middleware.FromContext(c.Request().Context()).Info("Request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	s := &Server{
		E:        e,
		Cfg:      cfg,
		injector: injector,
		registry: registry,
		bus:      do.MustInvoke[*pubsub.WatermillBridge](injector),
		logger:   logger.With("component", "server"),
	}
	if err := s.RegisterRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func newInjector(cfg config.Provider, backend *gateway.Backend, logger *slog.Logger) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, backend)
	do.ProvideValue(injector, logger)

	do.Provide(injector, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})
	do.Provide(injector, func(i do.Injector) (*attachment.Encoder, error) {
		cfg := do.MustInvoke[config.Provider](i)
		return attachment.New(
			attachment.WithMaxBytes(cfg.GetUploadMaxBytes()),
			attachment.WithLogger(do.MustInvoke[*slog.Logger](i)),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*app.Registry, error) {
		cfg := do.MustInvoke[config.Provider](i)
		backend := do.MustInvoke[*gateway.Backend](i)
		deps := app.Dependencies{
			Publisher: do.MustInvoke[*pubsub.WatermillBridge](i),
			Encoder:   do.MustInvoke[*attachment.Encoder](i),
			Logger:    do.MustInvoke[*slog.Logger](i),
		}
		settings := app.Settings{
			DemoEmail:    cfg.GetDemoEmail(),
			DemoPassword: cfg.GetDemoPassword(),
			AdminURL:     cfg.GetAdminURL(),
		}
		return app.NewRegistry(backend.Factory, deps, settings, workspaceIdleTTL), nil
	})
	do.Provide(injector, func(i do.Injector) (*rendering.UniversalRenderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})
	return injector
}

// Shutdown stops the HTTP server and releases every workspace.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.E.Shutdown(ctx)
	s.registry.Close(ctx)
	if cerr := s.bus.Close(); cerr != nil {
		s.logger.Warn("Failed to close event bus", "error", cerr)
	}
	if c, ok := s.probe.(interface{ Close(context.Context) error }); ok {
		_ = c.Close(ctx)
	}
	s.injector.ShutdownWithContext(ctx)
	return err
}
