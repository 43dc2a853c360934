// Package page keeps the live sign-up pages: one session per browser tab,
// each composing a sign-up form and a carousel.
package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/stucruum/internal/carousel"
	"github.com/nfrund/stucruum/internal/domain"
	"github.com/nfrund/stucruum/internal/pubsub"
	"github.com/nfrund/stucruum/internal/signup"
)

const (
	// DefaultTTL is how long an unmounted page is kept for a reconnect.
	DefaultTTL = 10 * time.Minute
	// DefaultSweepInterval is how often Run looks for expired pages.
	DefaultSweepInterval = time.Minute
)

var (
	ErrSessionNotFound = errors.New("page session not found")
	ErrForbidden       = errors.New("page session belongs to another browser")
)

// SlideSource supplies the slide list for new pages.
type SlideSource interface {
	Slides() []carousel.Slide
}

// Manager owns every open page session.
type Manager struct {
	slides    SlideSource
	submitter domain.SignupSubmitter
	publisher pubsub.Publisher

	interval      time.Duration
	newTicker     carousel.TickerFunc
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option is a function that configures a Manager.
type Option func(*Manager)

// WithCarouselInterval sets the slide interval of new pages.
func WithCarouselInterval(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

// WithTicker replaces the carousel ticker of new pages, mainly for tests.
func WithTicker(fn carousel.TickerFunc) Option {
	return func(m *Manager) { m.newTicker = fn }
}

// WithTTL sets how long unmounted pages survive.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// WithSweepInterval sets how often Run sweeps.
func WithSweepInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.sweepInterval = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager. Pages submit through submitter and publish
// their carousel moves to publisher.
func NewManager(slides SlideSource, submitter domain.SignupSubmitter, publisher pubsub.Publisher, opts ...Option) *Manager {
	m := &Manager{
		slides:        slides,
		submitter:     submitter,
		publisher:     publisher,
		interval:      carousel.DefaultInterval,
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        slog.Default().With("service", "page"),
		sessions:      make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a page session for the browser identified by owner.
func (m *Manager) Open(owner string) (*Session, error) {
	opts := []carousel.Option{carousel.WithInterval(m.interval)}
	if m.newTicker != nil {
		opts = append(opts, carousel.WithTicker(m.newTicker))
	}

	s, err := newSession(uuid.NewString(), owner, m.now(), signup.NewForm(m.submitter), m.slides.Slides(), m.publisher, opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("Page session opened", "session", s.ID)
	return s, nil
}

// Get returns the session with the given id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Authorize returns the session if it belongs to owner.
func (m *Manager) Authorize(id, owner string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if s.Owner != owner {
		return nil, ErrForbidden
	}
	return s, nil
}

// Attach mounts the session: its carousel runs until Detach or until ctx is done.
// The lookup and the mount happen under one read lock, so Sweep and Shutdown
// never close a page between the two.
func (m *Manager) Attach(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	if err := s.Mount(ctx); err != nil {
		return nil, err
	}
	m.logger.Debug("Page session mounted", "session", id)
	return s, nil
}

// Detach unmounts the session but keeps its draft for a reconnect.
func (m *Manager) Detach(id string) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return
	}
	s.Unmount(m.now())
	m.logger.Debug("Page session unmounted", "session", id)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes unmounted sessions idle for longer than the TTL and returns
// how many it removed.
func (m *Manager) Sweep(now time.Time) int {
	var expired []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		since, idle := s.idleSince()
		if idle && now.Sub(since) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		m.logger.Debug("Swept expired page sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.now())
		}
	}
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	m.logger.Info("Page sessions closed", "count", len(sessions))
}
