package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ADDR", "APP_BASE_URL", "SIGNUP_API_URL", "SESSION_SECRET", "CAROUSEL_INTERVAL",
		"PAGE_TTL", "SLIDES_FILE", "IMAGES_DIR", "WS_ORIGINS", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNUP_API_URL", "https://api.example.com")
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, "https://api.example.com", cfg.SignupAPIURL)
	assert.Equal(t, 5*time.Second, cfg.CarouselInterval)
	assert.Equal(t, 10*time.Minute, cfg.PageTTL)
	assert.Equal(t, DefaultImagesDir, cfg.ImagesDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.WSOrigins)
	assert.Empty(t, cfg.OriginPatterns())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNUP_API_URL", "http://localhost:3000")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("CAROUSEL_INTERVAL", "2s")
	t.Setenv("PAGE_TTL", "1h")
	t.Setenv("WS_ORIGINS", "example.com, *.example.com ,")
	t.Setenv("APP_BASE_URL", "https://signup.stucruum.io")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 2*time.Second, cfg.CarouselInterval)
	assert.Equal(t, time.Hour, cfg.PageTTL)
	assert.Equal(t, []string{"example.com", "*.example.com"}, cfg.WSOrigins)
	assert.Equal(t, "https://signup.stucruum.io", cfg.BaseURL)
	assert.Equal(t, []string{"signup.stucruum.io", "example.com", "*.example.com"}, cfg.OriginPatterns())
}

func TestConfig_OriginPatterns(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		origins []string
		want    []string
	}{
		{"nothing configured", "", nil, nil},
		{"base url only", "https://stucruum.io:8443/app", nil, []string{"stucruum.io:8443"}},
		{"extras only", "", []string{"*.example.com"}, []string{"*.example.com"}},
		{"duplicate host listed once", "http://stucruum.io", []string{"stucruum.io", "a.io"}, []string{"stucruum.io", "a.io"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BaseURL: tt.baseURL, WSOrigins: tt.origins}
			assert.Equal(t, tt.want, cfg.OriginPatterns())
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even empty ones.
	os.Unsetenv("SIGNUP_API_URL")
	os.Unsetenv("SESSION_SECRET")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SIGNUP_API_URL=https://file.example.com\nSESSION_SECRET="+testSecret+"\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SIGNUP_API_URL")
		os.Unsetenv("SESSION_SECRET")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.SignupAPIURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing api url", map[string]string{"SESSION_SECRET": testSecret}, "SIGNUP_API_URL is required"},
		{"relative api url", map[string]string{"SIGNUP_API_URL": "/api", "SESSION_SECRET": testSecret}, "not an absolute URL"},
		{"relative base url", map[string]string{"SIGNUP_API_URL": "https://a.b", "SESSION_SECRET": testSecret, "APP_BASE_URL": "stucruum.io"}, "APP_BASE_URL"},
		{"short secret", map[string]string{"SIGNUP_API_URL": "https://a.b", "SESSION_SECRET": "short"}, "SESSION_SECRET"},
		{"bad interval", map[string]string{"SIGNUP_API_URL": "https://a.b", "SESSION_SECRET": testSecret, "CAROUSEL_INTERVAL": "soon"}, "CAROUSEL_INTERVAL"},
		{"negative ttl", map[string]string{"SIGNUP_API_URL": "https://a.b", "SESSION_SECRET": testSecret, "PAGE_TTL": "-1m"}, "PAGE_TTL must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(missingEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
