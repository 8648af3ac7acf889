package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

const walletStateKey = "wallet_state"

type walletStateRepository struct {
	store  *badgerhold.Store
	stopGC func()
}

// NewWalletStateRepository opens the wallet state store in the "wallet"
// subfolder of baseDbDir. An empty baseDbDir makes the store in-memory.
func NewWalletStateRepository(
	baseDbDir string, logger badger.Logger,
) (*walletStateRepository, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "wallet")
	}

	store, stopGC, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}
	return &walletStateRepository{store, stopGC}, nil
}

func (r *walletStateRepository) GetState(
	_ context.Context,
) (*domain.WalletState, error) {
	var state domain.WalletState
	if err := r.store.Get(walletStateKey, &state); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrWalletStateNotFound
		}
		return nil, err
	}
	return &state, nil
}

func (r *walletStateRepository) UpdateState(
	_ context.Context,
	updateFn func(s *domain.WalletState) (*domain.WalletState, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var current *domain.WalletState

		state := domain.WalletState{}
		if err := r.store.TxGet(tx, walletStateKey, &state); err != nil {
			if err != badgerhold.ErrNotFound {
				return err
			}
		} else {
			current = &state
		}

		updatedState, err := updateFn(current)
		if err != nil {
			return err
		}
		if updatedState == nil {
			return fmt.Errorf("updated wallet state must not be nil")
		}

		return r.store.TxUpsert(tx, walletStateKey, updatedState)
	})
}

func (r *walletStateRepository) DeleteState(_ context.Context) error {
	if err := r.store.Delete(walletStateKey, domain.WalletState{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return err
	}
	return nil
}

func (r *walletStateRepository) Close() {
	r.stopGC()
	r.store.Close()
}
