// Package websocket keeps a live connection per mounted sign-up page and
// pushes its carousel moves to the browser as htmx out-of-band fragments.
package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/stucruum/internal/carousel"
	"github.com/nfrund/stucruum/internal/middleware"
	"github.com/nfrund/stucruum/internal/page"
	"github.com/nfrund/stucruum/internal/pubsub"
	"github.com/nfrund/stucruum/internal/rendering"
	dto "github.com/nfrund/stucruum/internal/view/dto/signup"
	"github.com/nfrund/stucruum/web/src/templates/partials"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
)

// client is the live connection of one mounted page.
type client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Bridge connects page sessions to their browsers. A page is mounted for as
// long as its connection is open.
type Bridge struct {
	pages      *page.Manager
	subscriber pubsub.Subscriber
	renderer   rendering.Renderer
	origins    []string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards clients and closed. Handlers join wg under mu, and only
	// while closed is false.
	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithOriginPatterns allows cross-origin upgrades from the given host patterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(b *Bridge) { b.origins = append(b.origins, patterns...) }
}

// NewBridge creates a Bridge. Carousel events are read from subscriber.
func NewBridge(pages *page.Manager, subscriber pubsub.Subscriber, renderer rendering.Renderer, opts ...Option) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		pages:      pages,
		subscriber: subscriber,
		renderer:   renderer,
		ctx:        ctx,
		cancel:     cancel,
		clients:    make(map[string]*client),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Connected reports whether the page has a live connection.
func (b *Bridge) Connected(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.clients[sessionID]
	return ok
}

// Len returns the number of live connections.
func (b *Bridge) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Handler upgrades GET /signup/:session/live. It mounts the page, streams its
// carousel until the browser goes away, then unmounts it.
func (b *Bridge) Handler(c echo.Context) error {
	id := c.Param("session")
	logger := middleware.FromContext(c.Request().Context()).With("session", id)

	s, err := b.pages.Authorize(id, middleware.OwnerFrom(c))
	switch {
	case errors.Is(err, page.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "page expired")
	case errors.Is(err, page.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "page belongs to another browser")
	case err != nil:
		return err
	}

	if !b.join() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server is shutting down")
	}
	defer b.wg.Done()

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: b.origins,
	})
	if err != nil {
		logger.Error("Failed to upgrade connection to WebSocket", "error", err)
		return nil
	}

	ctx, cancel := context.WithCancel(b.ctx)
	defer cancel()

	cl := &client{sessionID: id, conn: conn, send: make(chan []byte, sendBuffer)}

	// Subscribe before mounting so the first move is not missed.
	slides, _ := s.Carousel()
	if err := b.subscriber.Subscribe(ctx, page.CarouselChanged.Topic(id), b.forward(ctx, cl, slides, logger)); err != nil {
		logger.Error("Failed to subscribe to carousel changes", "error", err)
		conn.Close(websocket.StatusInternalError, "subscription failed")
		return nil
	}

	if _, err := b.pages.Attach(ctx, id); err != nil {
		reason := "page unavailable"
		if errors.Is(err, page.ErrAlreadyMounted) {
			reason = "page already open"
		}
		logger.Warn("Refusing live connection", "error", err)
		conn.Close(websocket.StatusPolicyViolation, reason)
		return nil
	}

	b.mu.Lock()
	b.clients[id] = cl
	b.mu.Unlock()
	logger.Info("Live connection opened")

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		cl.writePump(ctx, logger)
	}()

	cl.readPump(ctx, logger)

	// Unmount first: once Detach returns the page publishes nothing more.
	b.pages.Detach(id)
	cancel()
	<-writeDone

	b.mu.Lock()
	if b.clients[id] == cl {
		delete(b.clients, id)
	}
	b.mu.Unlock()

	conn.Close(websocket.StatusNormalClosure, "")
	logger.Info("Live connection closed")
	return nil
}

// forward renders each carousel move and queues it for the browser.
func (b *Bridge) forward(ctx context.Context, cl *client, slides []carousel.Slide, logger *slog.Logger) pubsub.Handler {
	return func(_ context.Context, msg pubsub.Message) error {
		change, err := pubsub.Decode[page.CarouselChange](msg)
		if err != nil {
			return err
		}

		data := dto.PageData{SessionID: cl.sessionID, Slides: slides, Index: change.Index}
		html, err := b.renderer.RenderComponent(ctx, partials.Carousel(data, true))
		if err != nil {
			return err
		}

		select {
		case cl.send <- html:
		case <-ctx.Done():
		default:
			logger.Warn("Client send channel full, dropping carousel update", "index", change.Index)
		}
		return nil
	}
}

// readPump drains the connection until the browser closes it or ctx ends.
// The page sends nothing the server acts on.
func (c *client) readPump(ctx context.Context, logger *slog.Logger) {
	for {
		_, _, err := c.conn.Read(ctx)
		if err == nil {
			continue
		}
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			logger.Debug("WebSocket closed by client")
		default:
			if ctx.Err() == nil {
				logger.Debug("WebSocket read ended", "error", err)
			}
		}
		return
	}
}

// writePump writes queued fragments until ctx ends.
func (c *client) writePump(ctx context.Context, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				logger.Debug("WebSocket write error", "error", err)
				c.conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

// join registers a handler with wg. It fails once Close has begun.
func (b *Bridge) join() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.wg.Add(1)
	return true
}

// Close drops every live connection and waits for their handlers to finish.
// Connections attempted afterwards are refused.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
}
