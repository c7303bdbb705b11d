package pubsub

import (
	"context"
	"encoding/json"
)

// Event[T] binds a topic name to its payload type so publishers and
// subscribers agree on the wire shape.
type Event[T any] struct {
	topicName string
}

// NewEvent declares a typed event on the given topic.
func NewEvent[T any](name string) Event[T] {
	return Event[T]{topicName: name}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Decode unmarshals a received message into the event's payload type.
func (e Event[T]) Decode(msg Message) (T, error) {
	var payload T
	err := json.Unmarshal(msg.Payload, &payload)
	return payload, err
}

// Publish sends a typed event. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		UserID:  userID,
		Payload: data,
	})
}

// SessionActivity is published when a user logs in or out.
type SessionActivity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Method string `json:"method,omitempty"`
}

// CatalogActivity is published when a restaurant or menu item is created.
type CatalogActivity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RestaurantID string `json:"restaurantId,omitempty"`
}

var (
	SessionLogin      = NewEvent[SessionActivity]("session.login")
	SessionLogout     = NewEvent[SessionActivity]("session.logout")
	RestaurantCreated = NewEvent[CatalogActivity]("catalog.restaurant.created")
	MenuItemCreated   = NewEvent[CatalogActivity]("catalog.menuitem.created")
)

// ActivityTopics lists every topic the activity log listens to.
func ActivityTopics() []string {
	return []string{
		SessionLogin.Name(),
		SessionLogout.Name(),
		RestaurantCreated.Name(),
		MenuItemCreated.Name(),
	}
}
