package pubsub

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/httputil"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the timeout of every webhook call if not otherwise
// specified
const DefaultTimeout = 15 * time.Second

type service struct {
	repository ports.SubscriptionRepository
	timeout    time.Duration

	// every endpoint gets its own client so that an unreachable one trips
	// only its own circuit breaker
	clients map[string]*httputil.Client
	lock    *sync.Mutex
}

// NewService returns a PubSub that notifies webhooks with an http POST
// request carrying the published message as body. Messages for secured
// subscriptions carry a bearer token signed with the subscription secret.
func NewService(
	repository ports.SubscriptionRepository, timeout time.Duration,
) (ports.PubSub, error) {
	if repository == nil {
		return nil, fmt.Errorf("missing subscription repository")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &service{
		repository: repository,
		timeout:    timeout,
		clients:    make(map[string]*httputil.Client),
		lock:       &sync.Mutex{},
	}, nil
}

func (s *service) Subscribe(
	ctx context.Context, topic, endpoint, secret string,
) (string, error) {
	sub, err := newSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := s.repository.AddSubscription(ctx, *sub); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"id":       sub.ID,
		"topic":    sub.Topic,
		"endpoint": sub.Endpoint,
	}).Info("added webhook subscription")
	return sub.ID, nil
}

func (s *service) Unsubscribe(ctx context.Context, id string) error {
	if err := s.repository.DeleteSubscription(ctx, id); err != nil {
		return err
	}
	log.WithField("id", id).Info("removed webhook subscription")
	return nil
}

func (s *service) ListSubscriptions(
	ctx context.Context, topic string,
) ([]ports.Subscription, error) {
	if topic == "" {
		return s.repository.ListSubscriptions(ctx)
	}
	if topic == ports.AnyTopic {
		return s.repository.ListSubscriptions(ctx, topic)
	}
	return s.repository.ListSubscriptions(ctx, topic, ports.AnyTopic)
}

func (s *service) Publish(
	ctx context.Context, topic string, message []byte,
) error {
	subs, err := s.ListSubscriptions(ctx, topic)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return s.notify(ctx, sub, string(message)) })
	}
	return eg.Wait()
}

func (s *service) notify(
	ctx context.Context, sub ports.Subscription, payload string,
) error {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if sub.IsSecured() {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
			Subject:  sub.ID,
			IssuedAt: time.Now().Unix(),
		})
		tokenString, err := token.SignedString([]byte(sub.Secret))
		if err != nil {
			return fmt.Errorf("signing token for webhook %s: %w", sub.ID, err)
		}
		headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
	}

	status, resp, err := s.client(sub.Endpoint).NewHTTPRequest(
		ctx, http.MethodPost, sub.Endpoint, payload, headers,
	)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", sub.ID, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook %s: %d: %s", sub.ID, status, resp)
	}
	return nil
}

func (s *service) client(endpoint string) *httputil.Client {
	s.lock.Lock()
	defer s.lock.Unlock()

	if c, ok := s.clients[endpoint]; ok {
		return c
	}
	c := httputil.NewClient(httputil.ClientOpts{
		Name:    "webhook " + endpoint,
		Timeout: s.timeout,
	})
	s.clients[endpoint] = c
	return c
}
