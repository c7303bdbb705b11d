// Package attachment turns a user-selected file into a submission payload
// and a data URL preview.
package attachment

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/spf13/afero"
)

// DefaultMaxBytes is the largest file accepted unless configured otherwise.
const DefaultMaxBytes = 5 << 20

// Source is one selected file.
type Source struct {
	Filename string
	Reader   io.Reader
}

// Result holds both outputs of an encode. Callers replace any earlier Result
// wholesale.
type Result struct {
	Attachment domain.Attachment
	// Preview is a data URL suitable for an <img> src.
	Preview string
}

// Encoder reads files into attachments.
type Encoder struct {
	maxBytes int64
	allowed  []string
	logger   *slog.Logger
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithMaxBytes caps the accepted file size.
func WithMaxBytes(n int64) Option {
	return func(e *Encoder) {
		if n > 0 {
			e.maxBytes = n
		}
	}
}

// WithAllowedTypes restricts the sniffed MIME type to the given prefixes,
// e.g. "image/".
func WithAllowedTypes(prefixes ...string) Option {
	return func(e *Encoder) { e.allowed = prefixes }
}

// WithLogger sets the encoder's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) { e.logger = l }
}

// New creates an encoder accepting images up to DefaultMaxBytes.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		maxBytes: DefaultMaxBytes,
		allowed:  []string{"image/"},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "attachment")
	return e
}

// MaxBytes returns the configured size cap.
func (e *Encoder) MaxBytes() int64 { return e.maxBytes }

// Encode reads exactly one file. Every failure wraps domain.ErrAttachmentRead.
func (e *Encoder) Encode(ctx context.Context, src Source) (*Result, error) {
	if src.Reader == nil {
		return nil, fmt.Errorf("%w: no file selected", domain.ErrAttachmentRead)
	}

	data, err := io.ReadAll(io.LimitReader(src.Reader, e.maxBytes+1))
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to read attachment", "filename", src.Filename, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrAttachmentRead, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrAttachmentRead)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrAttachmentRead, e.maxBytes)
	}

	mime := mimetype.Detect(data)
	if !e.typeAllowed(mime.String()) {
		return nil, fmt.Errorf("%w: unsupported file type %s", domain.ErrAttachmentRead, mime.String())
	}

	mimeType := strings.SplitN(mime.String(), ";", 2)[0]
	return &Result{
		Attachment: domain.Attachment{
			Filename: filepath.Base(src.Filename),
			MIMEType: mimeType,
			Data:     data,
		},
		Preview: DataURL(mimeType, data),
	}, nil
}

// EncodeFile reads the file at path from fsys.
func (e *Encoder) EncodeFile(ctx context.Context, fsys afero.Fs, path string) (*Result, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAttachmentRead, err)
	}
	defer f.Close()
	return e.Encode(ctx, Source{Filename: path, Reader: f})
}

func (e *Encoder) typeAllowed(mime string) bool {
	if len(e.allowed) == 0 {
		return true
	}
	for _, prefix := range e.allowed {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}

// DataURL renders data as a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
