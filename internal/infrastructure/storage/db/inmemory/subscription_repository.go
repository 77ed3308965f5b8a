package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tdex-network/dogecustody/internal/core/ports"
)

type subscriptionRepository struct {
	subs map[string]ports.Subscription
	lock *sync.RWMutex
}

// NewSubscriptionRepository returns a new inmemory SubscriptionRepository
// implementation.
func NewSubscriptionRepository() ports.SubscriptionRepository {
	return &subscriptionRepository{
		subs: make(map[string]ports.Subscription),
		lock: &sync.RWMutex{},
	}
}

func (r *subscriptionRepository) AddSubscription(
	_ context.Context, sub ports.Subscription,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.subs[sub.ID]; ok {
		return fmt.Errorf("subscription with id %s already exists", sub.ID)
	}
	r.subs[sub.ID] = sub
	return nil
}

func (r *subscriptionRepository) DeleteSubscription(
	_ context.Context, id string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.subs[id]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrSubscriptionNotFound, id)
	}
	delete(r.subs, id)
	return nil
}

func (r *subscriptionRepository) ListSubscriptions(
	_ context.Context, topics ...string,
) ([]ports.Subscription, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	filter := make(map[string]bool)
	for _, t := range topics {
		filter[t] = true
	}

	list := make([]ports.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		if len(filter) > 0 && !filter[sub.Topic] {
			continue
		}
		list = append(list, sub)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}
