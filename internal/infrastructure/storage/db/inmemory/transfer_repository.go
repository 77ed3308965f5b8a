package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tdex-network/dogecustody/internal/core/domain"
)

type transferRepository struct {
	transfers map[string]domain.Transfer
	lock      *sync.RWMutex
}

// NewTransferRepository returns a new inmemory TransferRepository
// implementation.
func NewTransferRepository() domain.TransferRepository {
	return &transferRepository{
		transfers: make(map[string]domain.Transfer),
		lock:      &sync.RWMutex{},
	}
}

func (r *transferRepository) AddTransfer(
	_ context.Context, transfer *domain.Transfer,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.transfers[transfer.ID]; ok {
		return fmt.Errorf("transfer with id %s already exists", transfer.ID)
	}
	r.transfers[transfer.ID] = copyTransfer(*transfer)
	return nil
}

func (r *transferRepository) GetTransfer(
	_ context.Context, id string,
) (*domain.Transfer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getTransfer(id)
}

func (r *transferRepository) ListTransfers(
	_ context.Context, statuses ...domain.TransferStatus,
) ([]*domain.Transfer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	filter := make(map[domain.TransferStatus]bool)
	for _, s := range statuses {
		filter[s] = true
	}

	list := make([]*domain.Transfer, 0, len(r.transfers))
	for _, t := range r.transfers {
		if len(filter) > 0 && !filter[t.Status] {
			continue
		}
		transfer := copyTransfer(t)
		list = append(list, &transfer)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt == list[j].CreatedAt {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt < list[j].CreatedAt
	})
	return list, nil
}

func (r *transferRepository) UpdateTransfer(
	_ context.Context, id string,
	updateFn func(t *domain.Transfer) (*domain.Transfer, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	transfer, err := r.getTransfer(id)
	if err != nil {
		return err
	}

	updatedTransfer, err := updateFn(transfer)
	if err != nil {
		return err
	}

	r.transfers[id] = copyTransfer(*updatedTransfer)
	return nil
}

func (r *transferRepository) getTransfer(id string) (*domain.Transfer, error) {
	transfer, ok := r.transfers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, id)
	}
	t := copyTransfer(transfer)
	return &t, nil
}

// copyTransfer makes sure callers never share the secondary leg with the
// stored record
func copyTransfer(t domain.Transfer) domain.Transfer {
	if t.Secondary != nil {
		leg := *t.Secondary
		t.Secondary = &leg
	}
	return t
}
