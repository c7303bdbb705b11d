// Package forms implements the restaurant and menu item creation forms.
package forms

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/domain"
)

// base carries what both forms share: the attachment slot and the
// single-submission guard. mu also guards each form's draft, so Submit
// reads the text fields and the attachment as one snapshot. While a
// submission is in flight the draft and the slot are read-only.
type base struct {
	gw     domain.Gateway
	enc    *attachment.Encoder
	logger *slog.Logger

	submitting atomic.Bool

	mu     sync.Mutex
	image  *attachment.Result
	notice string
}

// Attach encodes src into the form's single attachment slot, replacing any
// earlier file. A failed read clears the slot and is recorded as a notice;
// the form can still be submitted without an attachment. Attach returns
// domain.ErrSubmitInFlight and leaves the slot alone while a submission is
// in flight.
func (b *base) Attach(ctx context.Context, src attachment.Source) error {
	if b.submitting.Load() {
		return domain.ErrSubmitInFlight
	}
	res, err := b.enc.Encode(ctx, src)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitting.Load() {
		return domain.ErrSubmitInFlight
	}
	if err != nil {
		b.image = nil
		b.notice = "The selected file could not be used and will not be uploaded."
		b.logger.InfoContext(ctx, "Attachment discarded", "filename", src.Filename, "error", err)
		return err
	}
	b.image = res
	b.notice = ""
	return nil
}

// ClearAttachment empties the attachment slot. It does nothing while a
// submission is in flight.
func (b *base) ClearAttachment() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitting.Load() {
		return
	}
	b.clearAttachmentLocked()
}

// Preview returns the data URL of the attached image, or "".
func (b *base) Preview() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.image == nil {
		return ""
	}
	return b.image.Preview
}

// Notice returns the message left by the last failed attachment.
func (b *base) Notice() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notice
}

// Submitting reports whether a submission is in flight.
func (b *base) Submitting() bool {
	return b.submitting.Load()
}

// editLocked runs fn under mu unless a submission is in flight.
func (b *base) editLocked(fn func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitting.Load() {
		return domain.ErrSubmitInFlight
	}
	fn()
	return nil
}

// attachmentLocked returns a copy of the attached file. The caller holds mu.
func (b *base) attachmentLocked() *domain.Attachment {
	if b.image == nil {
		return nil
	}
	att := b.image.Attachment
	return &att
}

func (b *base) clearAttachmentLocked() {
	b.image = nil
	b.notice = ""
}

// guard runs fn unless another submission is in flight. Edits are refused
// from the moment the flag is set until fn returns.
func (b *base) guard(fn func() error) error {
	if !b.submitting.CompareAndSwap(false, true) {
		return domain.ErrSubmitInFlight
	}
	defer b.submitting.Store(false)
	return fn()
}

func logSubmitError(ctx context.Context, logger *slog.Logger, entity string, err error) {
	if errors.Is(err, domain.ErrValidation) {
		logger.DebugContext(ctx, "Submission rejected", "entity", entity, "error", err)
		return
	}
	logger.WarnContext(ctx, "Submission failed", "entity", entity, "error", err)
}
