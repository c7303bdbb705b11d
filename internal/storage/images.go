package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nfrund/flavorfusion/internal/domain"
)

// Variant describes one rendition produced for every stored image.
type Variant struct {
	Name   string
	Width  int
	Height int
}

// DefaultVariants are the renditions the dashboard displays.
var DefaultVariants = []Variant{
	{Name: domain.ImageSizeThumbnail, Width: 150, Height: 150},
	{Name: domain.ImageSizeCard, Width: 400, Height: 250},
}

// ImageStore resizes uploaded images into their display variants and saves
// them under a public URL prefix.
type ImageStore struct {
	store     Store
	urlPrefix string
	variants  []Variant
	logger    *slog.Logger
}

// NewImageStore creates an image store. urlPrefix is the path the media
// handler is mounted at, e.g. "/media".
func NewImageStore(store Store, urlPrefix string) *ImageStore {
	return &ImageStore{
		store:     store,
		urlPrefix: urlPrefix,
		variants:  DefaultVariants,
		logger:    slog.Default().With("component", "image_store"),
	}
}

// SaveImage stores every variant of att under entity/property and returns the
// resulting handle. Non-image payloads fail with a ValidationError on property.
func (s *ImageStore) SaveImage(ctx context.Context, entity, property string, att domain.Attachment) (domain.ImageRef, error) {
	mime := mimetype.Detect(att.Data)
	if !isImage(mime) {
		return nil, domain.NewValidationError(property, "The selected file is not an image.")
	}

	img, err := imaging.Decode(bytes.NewReader(att.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.NewValidationError(property, "The selected image could not be decoded.")
	}

	dir := path.Join(entity, uuid.NewString())
	ref := make(domain.ImageRef, len(s.variants))
	for _, v := range s.variants {
		resized := imaging.Fill(img, v.Width, v.Height, imaging.Center, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
			return nil, fmt.Errorf("encode %s variant: %w", v.Name, err)
		}

		p := path.Join(dir, v.Name+".jpg")
		if _, err := s.store.Save(ctx, p, &buf); err != nil {
			s.cleanup(ctx, ref)
			return nil, fmt.Errorf("save %s variant: %w", v.Name, err)
		}
		ref[v.Name] = domain.ImageVariant{URL: s.urlPrefix + "/" + p}
	}

	s.logger.DebugContext(ctx, "Stored image variants", "entity", entity, "property", property, "dir", dir)
	return ref, nil
}

func (s *ImageStore) cleanup(ctx context.Context, ref domain.ImageRef) {
	for _, v := range ref {
		p := v.URL[len(s.urlPrefix)+1:]
		if err := s.store.Delete(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "Failed to remove partial image", "path", p, "error", err)
		}
	}
}

func isImage(m *mimetype.MIME) bool {
	for _, allowed := range []string{"image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff"} {
		if m.Is(allowed) {
			return true
		}
	}
	return false
}
