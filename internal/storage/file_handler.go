package storage

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/middleware"
)

// FileHandler serves stored media files.
type FileHandler struct {
	store Store
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(s Store) *FileHandler {
	return &FileHandler{store: s}
}

// Download streams the file named by the wildcard route parameter.
func (h *FileHandler) Download(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	name := c.Param("*")
	if name == "" {
		return c.String(http.StatusBadRequest, "File path is required")
	}

	content, err := h.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ErrInvalidPath) || errors.Is(err, os.ErrNotExist) {
			return c.String(http.StatusNotFound, "File not found")
		}
		logger.Error("Failed to get file from storage", slog.String("path", name), slog.String("error", err.Error()))
		return c.String(http.StatusInternalServerError, "Could not retrieve file")
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		logger.Error("Failed to read file from storage", slog.String("path", name), slog.String("error", err.Error()))
		return c.String(http.StatusInternalServerError, "Could not retrieve file")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Blob(http.StatusOK, mimetype.Detect(data).String(), data)
}
