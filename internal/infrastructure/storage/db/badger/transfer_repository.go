package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type transferRepository struct {
	store *badgerhold.Store
	lock  *sync.Mutex
}

// NewTransferRepository opens the transfer journal in the "transfers"
// subdirectory of the given base directory. An empty base directory makes
// the journal live in memory. The returned function closes the store.
func NewTransferRepository(
	baseDbDir string, logger badger.Logger,
) (domain.TransferRepository, func(), error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "transfers")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening transfer db: %w", err)
	}

	closeFn := func() {
		store.Close()
	}
	return &transferRepository{store, &sync.Mutex{}}, closeFn, nil
}

func (r *transferRepository) AddTransfer(
	_ context.Context, transfer *domain.Transfer,
) error {
	if err := r.store.Insert(transfer.ID, *transfer); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("transfer with id %s already exists", transfer.ID)
		}
		return err
	}
	return nil
}

func (r *transferRepository) GetTransfer(
	_ context.Context, id string,
) (*domain.Transfer, error) {
	return r.getTransfer(id)
}

func (r *transferRepository) ListTransfers(
	_ context.Context, statuses ...domain.TransferStatus,
) ([]*domain.Transfer, error) {
	var query *badgerhold.Query
	if len(statuses) > 0 {
		iface := make([]interface{}, 0, len(statuses))
		for _, s := range statuses {
			iface = append(iface, s)
		}
		query = badgerhold.Where("Status").In(iface...)
	}

	var transfers []domain.Transfer
	if err := r.store.Find(&transfers, query); err != nil {
		return nil, err
	}

	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt < transfers[j].CreatedAt
	})

	list := make([]*domain.Transfer, 0, len(transfers))
	for i := range transfers {
		list = append(list, &transfers[i])
	}
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

	return r.store.Update(id, *updatedTransfer)
}

func (r *transferRepository) getTransfer(id string) (*domain.Transfer, error) {
	var transfer domain.Transfer
	if err := r.store.Get(id, &transfer); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, id)
		}
		return nil, err
	}
	return &transfer, nil
}
