package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/stucruum/internal/carousel"
	"github.com/nfrund/stucruum/internal/pubsub"
	"github.com/nfrund/stucruum/internal/signup"
)

// ErrAlreadyMounted is returned when a second live connection tries to mount
// a page that is already on screen.
var ErrAlreadyMounted = errors.New("page already mounted")

// Session is the server-side state of one sign-up page in one browser tab.
// Its form and carousel are independent of each other.
type Session struct {
	ID        string
	Owner     string
	CreatedAt time.Time

	form      *signup.Form
	slides    []carousel.Slide
	publisher pubsub.Publisher
	carOpts   []carousel.Option

	mu       sync.Mutex
	carousel *carousel.Carousel
	mounted  bool
	lastSeen time.Time
}

func newSession(id, owner string, now time.Time, form *signup.Form, slides []carousel.Slide, pub pubsub.Publisher, opts []carousel.Option) (*Session, error) {
	s := &Session{
		ID:        id,
		Owner:     owner,
		CreatedAt: now,
		form:      form,
		slides:    slides,
		publisher: pub,
		carOpts:   opts,
		lastSeen:  now,
	}
	c, err := s.newCarousel()
	if err != nil {
		return nil, err
	}
	s.carousel = c
	return s, nil
}

func (s *Session) newCarousel() (*carousel.Carousel, error) {
	opts := append([]carousel.Option{}, s.carOpts...)
	opts = append(opts, carousel.WithOnChange(s.publishCarousel))
	return carousel.New(s.slides, opts...)
}

func (s *Session) publishCarousel(index int) {
	if s.publisher == nil {
		return
	}
	err := pubsub.Publish(context.Background(), s.publisher, CarouselChanged, s.ID, CarouselChange{Index: index})
	if err != nil {
		slog.Error("Failed to publish carousel change", "session", s.ID, "error", err)
	}
}

// Form returns the page's sign-up form.
func (s *Session) Form() *signup.Form { return s.form }

// Carousel returns the slide list and the active index.
func (s *Session) Carousel() ([]carousel.Slide, int) {
	s.mu.Lock()
	c := s.carousel
	s.mu.Unlock()
	idx, _ := c.Current()
	return c.Slides(), idx
}

// SelectSlide jumps the carousel to slide i.
func (s *Session) SelectSlide(i int) error {
	s.mu.Lock()
	c := s.carousel
	s.mu.Unlock()
	return c.Select(i)
}

// Mounted reports whether a live connection currently drives the page.
func (s *Session) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Mount starts the carousel timer for the page. A carousel left over from a
// previous mount is replaced by a fresh one on the first slide.
func (s *Session) Mount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return ErrAlreadyMounted
	}
	if s.carousel.Stopped() {
		c, err := s.newCarousel()
		if err != nil {
			return err
		}
		s.carousel = c
	}
	if err := s.carousel.Start(ctx); err != nil {
		return err
	}
	s.mounted = true
	return nil
}

// Unmount stops the carousel. Once it returns the page publishes nothing
// further until it is mounted again.
func (s *Session) Unmount(now time.Time) {
	s.mu.Lock()
	c := s.carousel
	wasMounted := s.mounted
	s.mounted = false
	s.lastSeen = now
	s.mu.Unlock()

	if wasMounted {
		c.Stop()
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// idleSince reports when the page was last used, and false while mounted.
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, !s.mounted
}

// close tears the page down for good.
func (s *Session) close() {
	s.mu.Lock()
	c := s.carousel
	s.mounted = false
	s.mu.Unlock()
	c.Stop()
}
