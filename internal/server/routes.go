package server

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/gateway"
	"github.com/nfrund/flavorfusion/internal/handlers"
	"github.com/nfrund/flavorfusion/internal/metrics"
	"github.com/nfrund/flavorfusion/internal/middleware"
	"github.com/nfrund/flavorfusion/internal/rendering"
	"github.com/nfrund/flavorfusion/internal/storage"
	"github.com/nfrund/flavorfusion/web"
	"github.com/samber/do/v2"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() error {
	backend := do.MustInvoke[*gateway.Backend](s.injector)
	renderer := do.MustInvoke[*rendering.UniversalRenderer](s.injector)

	probe, err := backend.Factory()
	if err != nil {
		return err
	}
	s.probe = probe
	healthHandler := handlers.NewHealthHandler(probe, s.registry.Len)
	authHandler := handlers.NewAuthHandler(renderer)
	dashboardHandler := handlers.NewDashboardHandler(renderer)
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/health", healthHandler.Health)
	s.E.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	if backend.Media != nil {
		s.E.GET(gateway.MediaPrefix+"/*", storage.NewFileHandler(backend.Media).Download)
	}

	site := s.E.Group("", middleware.Workspace(s.registry))
	site.GET("/", authHandler.Landing)
	site.POST("/auth/login", authHandler.Login, rateLimiter)
	site.POST("/auth/signup", authHandler.Signup, rateLimiter)
	site.POST("/auth/demo", authHandler.Demo, rateLimiter)
	site.POST("/auth/logout", authHandler.Logout)

	dash := site.Group("/dashboard", middleware.RequireDashboard)
	dash.GET("", dashboardHandler.Show)
	dash.POST("/restaurants/:id/select", dashboardHandler.Select)
	dash.POST("/back", dashboardHandler.Back)
	dash.GET("/restaurants/new", dashboardHandler.NewRestaurant)
	dash.POST("/restaurants", dashboardHandler.CreateRestaurant)
	dash.GET("/menu-items/new", dashboardHandler.NewMenuItem)
	dash.POST("/menu-items", dashboardHandler.CreateMenuItem)
	dash.POST("/preview", dashboardHandler.Preview)
	dash.POST("/forms/cancel", dashboardHandler.CancelForm)
	return nil
}
