package server

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/stucruum/internal/handlers"
	"github.com/nfrund/stucruum/internal/middleware"
	"github.com/nfrund/stucruum/web"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	h := s.signupHandler
	rateLimiter := middleware.RateLimiterWithRate(s.submitRate)

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.E.GET("/images/:name", s.imageHandler.Get)
	s.E.GET("/health", handlers.HealthGet)

	// Everything below is tied to the browser's owner token.
	pages := s.E.Group("", middleware.Owner)
	pages.GET("/", h.RootGet)
	pages.GET("/login", h.LoginGet)
	pages.GET("/signup", h.SignupGet)
	pages.POST("/signup/:session", h.SignupPost, rateLimiter)
	pages.POST("/signup/:session/fields/:field", h.FieldPost)
	pages.POST("/signup/:session/carousel/:index", h.CarouselSelect)
	pages.GET("/signup/:session/live", s.Bridge.Handler)
}
