package pubsub

import (
	"context"
	"log/slog"
)

// ActivityLogger subscribes to every activity topic and writes one structured
// log line per event.
type ActivityLogger struct {
	sub    Subscriber
	logger *slog.Logger
}

// NewActivityLogger creates a logger over the given subscriber.
func NewActivityLogger(sub Subscriber, logger *slog.Logger) *ActivityLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLogger{sub: sub, logger: logger.With("component", "activity")}
}

// Start subscribes to all activity topics. Delivery stops when ctx is done.
func (a *ActivityLogger) Start(ctx context.Context) error {
	for _, topic := range ActivityTopics() {
		if err := a.sub.Subscribe(ctx, topic, a.handle); err != nil {
			return err
		}
	}
	return nil
}

func (a *ActivityLogger) handle(ctx context.Context, msg Message) error {
	a.logger.InfoContext(ctx, "activity",
		"topic", msg.Topic,
		"user_id", msg.UserID,
		"payload", string(msg.Payload),
	)
	return nil
}
