package app

import (
	"log/slog"

	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/pubsub"
)

// Dependencies holds the services one application controller needs. The
// gateway is specific to the controller; the rest are shared.
type Dependencies struct {
	Gateway   domain.Gateway
	Publisher pubsub.Publisher
	Encoder   *attachment.Encoder
	Logger    *slog.Logger
}

// Settings are the static values the controller exposes to front ends.
type Settings struct {
	DemoEmail    string
	DemoPassword string
	AdminURL     string
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Publisher == nil {
		d.Publisher = pubsub.NopPublisher{}
	}
	if d.Encoder == nil {
		d.Encoder = attachment.New()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}
