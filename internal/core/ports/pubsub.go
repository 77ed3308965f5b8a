package ports

import (
	"context"
	"errors"
)

// AnyTopic matches every published topic
const AnyTopic = "*"

var (
	// ErrSubscriptionNotFound is returned when no subscription has the given id
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrMissingTopic ...
	ErrMissingTopic = errors.New("missing topic")
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint, must be an http(s) url")
)

// Subscription is a webhook registered for a topic
type Subscription struct {
	ID       string
	Topic    string
	Endpoint string
	// Secret, if set, signs the bearer token sent along with every message
	Secret string
}

// IsSecured returns whether messages for the subscription are authenticated
func (s Subscription) IsSecured() bool {
	return len(s.Secret) > 0
}

// PubSub notifies subscribed webhooks of the events published for a topic
type PubSub interface {
	// Subscribe registers the endpoint for the given topic and returns the id
	// of the subscription.
	Subscribe(ctx context.Context, topic, endpoint, secret string) (string, error)
	// Unsubscribe removes the subscription with the given id.
	Unsubscribe(ctx context.Context, id string) error
	// ListSubscriptions returns the subscriptions notified for the given
	// topic, including those for AnyTopic. An empty topic lists them all.
	ListSubscriptions(ctx context.Context, topic string) ([]Subscription, error)
	// Publish sends the message to every subscription for the topic.
	Publish(ctx context.Context, topic string, message []byte) error
}

// SubscriptionRepository persists the webhook subscriptions
type SubscriptionRepository interface {
	AddSubscription(ctx context.Context, sub Subscription) error
	DeleteSubscription(ctx context.Context, id string) error
	// ListSubscriptions returns the subscriptions for any of the given topics,
	// or all of them if none is given, sorted by id.
	ListSubscriptions(ctx context.Context, topics ...string) ([]Subscription, error)
}
