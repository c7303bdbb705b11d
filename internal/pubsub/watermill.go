package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Metadata keys used to carry Message fields through watermill's metadata.
const (
	metaKeyUserID = "user_id"
	metaKeyTopic  = "topic"
)

// WatermillBridge implements Publisher and Subscriber on top of watermill's
// in-memory GoChannel.
type WatermillBridge struct {
	channel *gochannel.GoChannel
	logger  *slog.Logger
}

// NewWatermillBridge creates an in-memory bus. Messages published before any
// subscriber exists are dropped.
func NewWatermillBridge() *WatermillBridge {
	wmLogger := watermill.NewStdLogger(false, false)
	return &WatermillBridge{
		channel: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger),
		logger:  slog.Default().With("component", "pubsub"),
	}
}

func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	if msg.UserID != "" {
		wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	}
	return wmMsg
}

func fromWatermill(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeyTopic {
			metadata[k] = v
		}
	}
	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		UserID:   wmMsg.Metadata.Get(metaKeyUserID),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements Publisher.
func (b *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	return b.channel.Publish(msg.Topic, toWatermill(msg))
}

// Subscribe implements Subscriber. The handler runs on a dedicated goroutine
// until ctx is canceled or the bridge is closed.
func (b *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := b.channel.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			if err := handler(ctx, fromWatermill(wmMsg)); err != nil {
				b.logger.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
				wmMsg.Nack()
				continue
			}
			wmMsg.Ack()
		}
		b.logger.Debug("Subscription message loop ended", "topic", topic)
	}()
	return nil
}

// Close shuts down the underlying channel and ends all subscriptions.
func (b *WatermillBridge) Close() error {
	return b.channel.Close()
}
