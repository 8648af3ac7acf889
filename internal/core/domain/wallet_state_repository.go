package domain

import "context"

// WalletStateRepository is the abstraction for any kind of database intended
// to persist the wallet state.
type WalletStateRepository interface {
	// GetState returns the persisted state or ErrWalletStateNotFound.
	GetState(ctx context.Context) (*WalletState, error)
	// UpdateState lets to commit multiple changes to the persisted state in a
	// transactional way. The state passed to updateFn is nil if nothing has
	// been persisted yet.
	UpdateState(
		ctx context.Context,
		updateFn func(s *WalletState) (*WalletState, error),
	) error
	// DeleteState removes the persisted state, if any.
	DeleteState(ctx context.Context) error
}
