package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/forms"
)

// CustomValidator adapts the shared validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: forms.Validator()}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the landing page login form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// SignupRequest is the landing page signup form.
type SignupRequest struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// imageField is the multipart field carrying the selected file.
const imageField = "image"

// uploadedImage opens the optional image of a multipart request. It returns
// nil when no file was selected.
func uploadedImage(c echo.Context) (*attachment.Source, io.Closer, error) {
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &attachment.Source{Filename: fh.Filename, Reader: f}, f, nil
}

// attachUpload hands the uploaded image, if any, to attach. A file that
// cannot be used does not fail the request; the form records a notice. A
// form that is mid-submission refuses the file with 409.
func attachUpload(ctx context.Context, c echo.Context, attach func(context.Context, attachment.Source) error) error {
	src, closer, err := uploadedImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed upload").SetInternal(err)
	}
	if src == nil {
		return nil
	}
	defer closer.Close()
	if err := attach(ctx, *src); errors.Is(err, domain.ErrSubmitInFlight) {
		return echo.NewHTTPError(http.StatusConflict, domain.UserMessage(err)).SetInternal(err)
	}
	return nil
}
