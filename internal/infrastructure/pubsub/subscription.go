package pubsub

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tdex-network/dogecustody/internal/core/ports"
)

func newSubscription(topic, endpoint, secret string) (*ports.Subscription, error) {
	topic = strings.TrimSpace(topic)
	if len(topic) <= 0 {
		return nil, ports.ErrMissingTopic
	}
	u, err := url.ParseRequestURI(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ports.ErrInvalidEndpoint
	}

	return &ports.Subscription{
		ID:       uuid.New().String(),
		Topic:    topic,
		Endpoint: endpoint,
		Secret:   secret,
	}, nil
}
