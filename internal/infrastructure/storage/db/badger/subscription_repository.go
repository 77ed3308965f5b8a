package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

type subscriptionRepository struct {
	store *badgerhold.Store
}

// NewSubscriptionRepository opens the webhook subscriptions store in the
// "webhooks" subdirectory of the given base directory, or in memory if the
// base directory is empty. The returned function closes the store.
func NewSubscriptionRepository(
	baseDbDir string, logger badger.Logger,
) (ports.SubscriptionRepository, func(), error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "webhooks")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening webhook db: %w", err)
	}

	closeFn := func() {
		store.Close()
	}
	return &subscriptionRepository{store}, closeFn, nil
}

func (r *subscriptionRepository) AddSubscription(
	_ context.Context, sub ports.Subscription,
) error {
	if err := r.store.Insert(sub.ID, sub); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("subscription with id %s already exists", sub.ID)
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) DeleteSubscription(
	_ context.Context, id string,
) error {
	if err := r.store.Delete(id, ports.Subscription{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("%w: %s", ports.ErrSubscriptionNotFound, id)
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) ListSubscriptions(
	_ context.Context, topics ...string,
) ([]ports.Subscription, error) {
	var query *badgerhold.Query
	if len(topics) > 0 {
		iface := make([]interface{}, 0, len(topics))
		for _, t := range topics {
			iface = append(iface, t)
		}
		query = badgerhold.Where("Topic").In(iface...)
	}

	var subs []ports.Subscription
	if err := r.store.Find(&subs, query); err != nil {
		return nil, err
	}

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}
