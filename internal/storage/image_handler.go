package storage

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stucruum/internal/middleware"
)

// ImageHandler serves slide images (GET /images/:name).
type ImageHandler struct {
	store Store
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(s Store) *ImageHandler {
	return &ImageHandler{store: s}
}

// Get streams one image with caching headers and range support.
func (h *ImageHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	f, err := h.store.Open(ctx, name)
	switch {
	case errors.Is(err, ErrInvalidName):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image name")
	case errors.Is(err, fs.ErrNotExist):
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	case err != nil:
		middleware.FromContext(ctx).Error("Failed to open image", "name", name, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not read image")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not read image")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), f)
	return nil
}
