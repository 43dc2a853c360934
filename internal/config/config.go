package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for optional settings.
const (
	DefaultAddr             = ":8080"
	DefaultCarouselInterval = 5 * time.Second
	DefaultPageTTL          = 10 * time.Minute
	DefaultImagesDir        = "web/images"
	DefaultLogFormat        = "text"
	DefaultLogLevel         = "info"

	minSecretLen = 32
)

// Config holds all configuration for the application.
type Config struct {
	Addr string
	// BaseURL is the public address browsers load the page from. Its host
	// may always open the live connection.
	BaseURL string

	// SignupAPIURL is the base of the remote sign-up endpoint.
	SignupAPIURL string
	// SessionSecret signs the cookie sessions.
	SessionSecret string

	CarouselInterval time.Duration
	PageTTL          time.Duration
	// SlidesFile is an optional YAML manifest replacing the built-in slides.
	SlidesFile string
	ImagesDir  string
	// WSOrigins lists extra host patterns allowed to open the live connection.
	WSOrigins []string

	LogFormat string
	LogLevel  string
}

// Load reads configuration from the environment, after loading a .env file
// when one exists. Files earlier in envFiles take precedence.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:          getEnv("APP_ADDR", DefaultAddr),
		BaseURL:       os.Getenv("APP_BASE_URL"),
		SignupAPIURL:  os.Getenv("SIGNUP_API_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SlidesFile:    os.Getenv("SLIDES_FILE"),
		ImagesDir:     getEnv("IMAGES_DIR", DefaultImagesDir),
		WSOrigins:     splitList(os.Getenv("WS_ORIGINS")),
		LogFormat:     getEnv("LOG_FORMAT", DefaultLogFormat),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
	}

	var err error
	if cfg.CarouselInterval, err = getDuration("CAROUSEL_INTERVAL", DefaultCarouselInterval); err != nil {
		return nil, err
	}
	if cfg.PageTTL, err = getDuration("PAGE_TTL", DefaultPageTTL); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.SignupAPIURL == "" {
		errs = append(errs, errors.New("SIGNUP_API_URL is required"))
	} else if u, err := url.Parse(c.SignupAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("SIGNUP_API_URL %q is not an absolute URL", c.SignupAPIURL))
	}
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("APP_BASE_URL %q is not an absolute URL", c.BaseURL))
		}
	}
	if len(c.SessionSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLen))
	}
	if c.CarouselInterval <= 0 {
		errs = append(errs, errors.New("CAROUSEL_INTERVAL must be positive"))
	}
	if c.PageTTL <= 0 {
		errs = append(errs, errors.New("PAGE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// OriginPatterns returns the hosts allowed to open the live connection:
// the host of BaseURL followed by WSOrigins. Same-host requests are always
// accepted and need no entry.
func (c *Config) OriginPatterns() []string {
	var out []string
	if u, err := url.Parse(c.BaseURL); err == nil && u.Host != "" {
		out = append(out, u.Host)
	}
	for _, o := range c.WSOrigins {
		if len(out) > 0 && o == out[0] {
			continue
		}
		out = append(out, o)
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
