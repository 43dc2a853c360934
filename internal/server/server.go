package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/stucruum/internal/carousel"
	"github.com/nfrund/stucruum/internal/config"
	"github.com/nfrund/stucruum/internal/handlers"
	"github.com/nfrund/stucruum/internal/middleware"
	"github.com/nfrund/stucruum/internal/page"
	"github.com/nfrund/stucruum/internal/pubsub"
	"github.com/nfrund/stucruum/internal/rendering"
	"github.com/nfrund/stucruum/internal/signup"
	"github.com/nfrund/stucruum/internal/storage"
	"github.com/nfrund/stucruum/internal/websocket"
	"golang.org/x/time/rate"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	Cfg *config.Config

	Pages   *page.Manager
	Bridge  *websocket.Bridge
	Catalog *carousel.Catalog

	bus           *pubsub.WatermillBridge
	submitRate    rate.Limit
	signupHandler *handlers.SignupHandler
	imageHandler  *storage.ImageHandler
}

// Option configures a Server, mainly for tests.
type Option func(*options)

type options struct {
	httpClient  *http.Client
	imageStore  storage.Store
	pageOptions []page.Option
	submitRate  rate.Limit
}

// WithHTTPClient sets the client used to reach the sign-up API.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithImageStore replaces the image directory.
func WithImageStore(s storage.Store) Option {
	return func(o *options) { o.imageStore = s }
}

// WithPageOptions adds options to the page manager.
func WithPageOptions(opts ...page.Option) Option {
	return func(o *options) { o.pageOptions = append(o.pageOptions, opts...) }
}

// WithSubmitRate changes the per-IP budget of the submit route.
func WithSubmitRate(r rate.Limit) Option {
	return func(o *options) { o.submitRate = r }
}

// New creates a new Server instance from cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	o := options{httpClient: &http.Client{}, submitRate: middleware.DefaultSubmitRate}
	for _, opt := range opts {
		opt(&o)
	}
	if o.imageStore == nil {
		o.imageStore = storage.NewDirStore(cfg.ImagesDir)
	}

	catalog := carousel.NewCatalog(nil)
	if cfg.SlidesFile != "" {
		if err := catalog.LoadFile(cfg.SlidesFile); err != nil {
			return nil, fmt.Errorf("load slides: %w", err)
		}
	}

	bus := pubsub.NewWatermillBridge()
	client := signup.NewClient(cfg.SignupAPIURL, o.httpClient)

	pageOpts := append([]page.Option{
		page.WithCarouselInterval(cfg.CarouselInterval),
		page.WithTTL(cfg.PageTTL),
	}, o.pageOptions...)
	pages := page.NewManager(catalog, client, bus, pageOpts...)

	renderer := rendering.NewUniversalRenderer()
	bridge := websocket.NewBridge(pages, bus, renderer, websocket.WithOriginPatterns(cfg.OriginPatterns()...))

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	slog.Info("Server configured",
		"addr", cfg.Addr,
		"signup_endpoint", client.Endpoint(),
		"slides", len(catalog.Slides()),
		"carousel_interval", cfg.CarouselInterval,
	)

	return &Server{
		E:             e,
		Cfg:           cfg,
		Pages:         pages,
		Bridge:        bridge,
		Catalog:       catalog,
		bus:           bus,
		submitRate:    o.submitRate,
		signupHandler: handlers.NewSignupHandler(pages, renderer),
		imageHandler:  storage.NewImageHandler(o.imageStore),
	}, nil
}
