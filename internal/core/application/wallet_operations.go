package application

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	log "github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"
)

// Addresses returns the receiving addresses of the multisig, the deposit
// address first.
func (s *WalletService) Addresses(_ context.Context) ([]domain.DerivedAddress, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if !s.state.Created {
		return nil, domain.ErrWalletNotCreated
	}
	return append([]domain.DerivedAddress{}, s.state.Addresses.Addresses...), nil
}

// GenerateNewAddress derives the address at the next unused index.
func (s *WalletService) GenerateNewAddress(
	ctx context.Context,
) (*domain.DerivedAddress, error) {
	release, err := s.acquire(opAddress)
	if err != nil {
		return nil, err
	}
	defer release()

	gen, state := s.snapshot()
	if !state.Created {
		return nil, domain.ErrWalletNotCreated
	}

	svc := NewMultisigService(state.Quorum.Network, state.Quorum.AddressType)
	batch, err := svc.GenerateAddressBatch(
		ctx, state.Keys, state.Quorum.RequiredSigners,
		state.Addresses.NextIndex(), 1,
	)
	if err != nil {
		return nil, err
	}
	addr := batch[0]

	if _, err := s.commit(ctx, gen, func(w *domain.WalletState) error {
		return w.Addresses.Add(addr)
	}); err != nil {
		return nil, err
	}

	log.WithField("path", addr.RelativePath).Infof("generated address %s", addr.Address)
	s.publish(EventAddressGenerated, addr)
	return &addr, nil
}

// Fund sends coins from the regtest miner wallet to the given address, or to
// the deposit address if empty, and records the incoming transaction.
func (s *WalletService) Fund(
	ctx context.Context, address string, amount btcutil.Amount,
) (*FundingResult, error) {
	release, err := s.acquire(opFund)
	if err != nil {
		return nil, err
	}
	defer release()

	node, gen, state, err := s.session()
	if err != nil {
		return nil, err
	}
	if address == "" {
		deposit, ok := state.Addresses.Deposit()
		if !ok {
			return nil, domain.ErrWalletNotCreated
		}
		address = deposit.Address
	}

	svc := NewFundingService(
		node, s.cfg.Network, s.cfg.MinerWallet, s.cfg.MaturationBlocks,
	)
	res, err := svc.Fund(ctx, address, amount)
	if err != nil {
		return nil, err
	}

	tx := domain.Transaction{
		TxID:          res.TxID,
		Direction:     domain.TxIncoming,
		Status:        domain.TxConfirmed,
		Address:       address,
		AmountSats:    int64(amount),
		Confirmations: res.Confirmations,
		Timestamp:     time.Now().Unix(),
	}
	if _, err := s.commit(ctx, gen, func(w *domain.WalletState) error {
		w.AddTransaction(tx)
		return nil
	}); err != nil {
		return nil, err
	}

	s.publish(EventTransaction, tx)
	return res, nil
}

// Send records a simulated outgoing transaction. Nothing is signed nor
// broadcast.
func (s *WalletService) Send(
	ctx context.Context, address string, amount btcutil.Amount,
) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := multisig.ValidateAddress(address, s.cfg.Network); err != nil {
		return nil, ErrInvalidAddress
	}

	tx := domain.Transaction{
		TxID:       randstr.Hex(64),
		Direction:  domain.TxOutgoing,
		Status:     domain.TxPending,
		Address:    address,
		AmountSats: int64(amount),
		Timestamp:  time.Now().Unix(),
		Simulated:  true,
	}
	if _, err := s.mutate(ctx, func(w *domain.WalletState) error {
		if !w.Created {
			return domain.ErrWalletNotCreated
		}
		w.AddTransaction(tx)
		return nil
	}); err != nil {
		return nil, err
	}

	log.WithField("txid", tx.TxID).Infof("simulated send of %s to %s", amount, address)
	s.publish(EventTransaction, tx)
	return &tx, nil
}

// Transactions returns the wallet transactions, most recent first.
func (s *WalletService) Transactions(_ context.Context) []domain.Transaction {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]domain.Transaction{}, s.state.Transactions...)
}

// RefreshBalances reads from the node the balance of every address of the
// multisig.
func (s *WalletService) RefreshBalances(
	ctx context.Context,
) ([]domain.DerivedAddress, error) {
	release, err := s.acquire(opRefresh)
	if err != nil {
		return nil, err
	}
	defer release()

	_, gen, state, err := s.session()
	if err != nil {
		return nil, err
	}
	if !state.Created {
		return nil, domain.ErrWalletNotCreated
	}
	s.lock.RLock()
	tracker := s.tracker
	s.lock.RUnlock()

	addresses := make([]string, 0, state.Addresses.Len())
	for _, a := range state.Addresses.Addresses {
		addresses = append(addresses, a.Address)
	}

	report, err := tracker.Refresh(ctx, state.WatchOnlyWalletNumber, addresses)
	if err != nil {
		return nil, err
	}

	next, err := s.commit(ctx, gen, func(w *domain.WalletState) error {
		w.WatchOnlyWalletNumber = report.WatchOnlyWalletNumber
		for addr, amount := range report.Balances {
			if err := w.Addresses.UpdateBalance(addr, int64(amount)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	list := append([]domain.DerivedAddress{}, next.Addresses.Addresses...)
	s.publish(EventBalancesRefreshed, list)
	return list, nil
}
