package carousel

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// manifest is the on-disk shape of a slide list.
type manifest struct {
	Slides []Slide `yaml:"slides"`
}

// Catalog holds the slide list handed to newly opened pages. Pages already
// on screen keep the list they were created with.
type Catalog struct {
	mu     sync.RWMutex
	slides []Slide
}

// NewCatalog creates a catalog holding slides, or DefaultSlides when slides
// is empty.
func NewCatalog(slides []Slide) *Catalog {
	if len(slides) == 0 {
		slides = DefaultSlides()
	}
	return &Catalog{slides: append([]Slide(nil), slides...)}
}

// Slides returns a copy of the current list.
func (c *Catalog) Slides() []Slide {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Slide(nil), c.slides...)
}

// Replace swaps in a new list.
func (c *Catalog) Replace(slides []Slide) error {
	if len(slides) == 0 {
		return ErrNoSlides
	}
	c.mu.Lock()
	c.slides = append([]Slide(nil), slides...)
	c.mu.Unlock()
	return nil
}

// LoadFile reads the manifest at path and replaces the current list with it.
func (c *Catalog) LoadFile(path string) error {
	slides, err := LoadManifest(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return err
	}
	return c.Replace(slides)
}

// LoadManifest parses a YAML slide manifest from fsys. Alt text and credits
// are reduced to plain text.
func LoadManifest(fsys fs.FS, name string) ([]Slide, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("carousel: read %s: %w", name, err)
	}

	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("carousel: parse %s: %w", name, err)
	}
	if len(doc.Slides) == 0 {
		return nil, fmt.Errorf("carousel: %s: %w", name, ErrNoSlides)
	}

	slides := make([]Slide, 0, len(doc.Slides))
	for i, s := range doc.Slides {
		src := strings.TrimSpace(s.Src)
		if src == "" {
			return nil, fmt.Errorf("carousel: %s: slide %d has no src", name, i)
		}
		slides = append(slides, Slide{
			Src:    src,
			Alt:    plainText(s.Alt),
			Credit: plainText(s.Credit),
		})
	}
	return slides, nil
}

func plainText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	// The policy escapes entities; views escape again on render.
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}

// Watch reloads the manifest at path whenever it changes, until ctx is done.
// A manifest that fails to load is logged and the previous list is kept.
func (c *Catalog) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go c.watch(ctx, watcher, filepath.Clean(path))
	slog.Debug("Watching slide manifest", "path", path)
	return nil
}

func (c *Catalog) watch(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := c.LoadFile(path); err != nil {
				slog.Error("Failed to reload slide manifest, keeping previous slides", "path", path, "error", err)
				continue
			}
			slog.Info("Reloaded slide manifest", "path", path, "slides", len(c.Slides()))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Slide manifest watcher error", "error", err)
		}
	}
}
