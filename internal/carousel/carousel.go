// Package carousel implements the auto-advancing slideshow shown next to the
// sign-up form.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is how long each slide stays on screen.
const DefaultInterval = 5 * time.Second

var (
	ErrNoSlides        = errors.New("carousel needs at least one slide")
	ErrAlreadyStarted  = errors.New("carousel already started")
	ErrStopped         = errors.New("carousel stopped")
	ErrIndexOutOfRange = errors.New("slide index out of range")
)

type lifecycle int

const (
	stateIdle lifecycle = iota
	stateRunning
	stateStopped
)

// Carousel cycles an index over a fixed slide list. The timer runs between
// Start and Stop; once stopped a carousel cannot be restarted.
type Carousel struct {
	slides    []Slide
	interval  time.Duration
	newTicker TickerFunc
	onChange  func(index int)

	mu     sync.Mutex
	index  int
	state  lifecycle
	cancel context.CancelFunc
	done   chan struct{}

	// emitMu serialises change notifications and lets Stop wait for the
	// one in flight.
	emitMu sync.Mutex
}

// Option configures a Carousel.
type Option func(*Carousel)

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(c *Carousel) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithTicker replaces the wall-clock ticker, mainly for tests.
func WithTicker(fn TickerFunc) Option {
	return func(c *Carousel) { c.newTicker = fn }
}

// WithOnChange registers fn to be called with the current index after every
// change. Calls are serialised. fn must not call Stop.
func WithOnChange(fn func(index int)) Option {
	return func(c *Carousel) { c.onChange = fn }
}

// New creates an idle carousel positioned on the first slide.
func New(slides []Slide, opts ...Option) (*Carousel, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	c := &Carousel{
		slides:    append([]Slide(nil), slides...),
		interval:  DefaultInterval,
		newTicker: NewSystemTicker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Slides returns a copy of the slide list.
func (c *Carousel) Slides() []Slide {
	return append([]Slide(nil), c.slides...)
}

// Interval returns the time between automatic advances.
func (c *Carousel) Interval() time.Duration { return c.interval }

// Current returns the active index and slide.
func (c *Carousel) Current() (int, Slide) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index, c.slides[c.index]
}

// Running reports whether the timer is active.
func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateRunning
}

// Stopped reports whether the carousel has been torn down.
func (c *Carousel) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateStopped
}

// Start launches the timer. It runs until Stop is called or ctx is done,
// whichever comes first.
func (c *Carousel) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateRunning:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = stateRunning

	go c.run(ctx, c.newTicker(c.interval), c.done)
	return nil
}

func (c *Carousel) run(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.state = stateStopped
			c.mu.Unlock()
			return
		case <-ticker.C():
			c.mu.Lock()
			if c.state != stateRunning {
				c.mu.Unlock()
				return
			}
			c.index = (c.index + 1) % len(c.slides)
			c.mu.Unlock()
			c.emit()
		}
	}
}

// Select jumps straight to slide i. The timer phase is left as is.
func (c *Carousel) Select(i int) error {
	c.mu.Lock()
	if c.state == stateStopped {
		c.mu.Unlock()
		return ErrStopped
	}
	if i < 0 || i >= len(c.slides) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(c.slides))
	}
	c.index = i
	c.mu.Unlock()

	c.emit()
	return nil
}

// Stop tears the carousel down. When Stop returns the timer goroutine has
// exited and no further change notifications will be made. Safe to call
// more than once.
func (c *Carousel) Stop() {
	c.mu.Lock()
	c.state = stateStopped
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	// Wait out a notification that passed its stopped check before we got here.
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
}

func (c *Carousel) emit() {
	if c.onChange == nil {
		return
	}
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	stopped := c.state == stateStopped
	index := c.index
	c.mu.Unlock()

	if stopped {
		return
	}
	c.onChange(index)
}
