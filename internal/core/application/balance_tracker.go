package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/cascade-wallet/cascade-daemon/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	balanceMinConf       = 1
	defaultBalanceRate   = 50
	addressDescriptorFmt = "addr(%s)"
)

// BalanceReport is the outcome of a balance refresh.
type BalanceReport struct {
	WatchOnlyWallet       string
	WatchOnlyWalletNumber int
	Balances              map[string]btcutil.Amount
}

// BalanceTracker reads the balances of the multisig addresses through a
// watch-only wallet on the node. Addresses are imported as addr()
// descriptors, so the node can tell what they received.
type BalanceTracker struct {
	node        ports.Node
	prefix      string
	maxAttempts int
	cb          *gobreaker.CircuitBreaker
	limiter     ratelimit.Limiter
}

// NewBalanceTracker ...
func NewBalanceTracker(
	node ports.Node, watchOnlyPrefix string, maxAttempts int,
) *BalanceTracker {
	return &BalanceTracker{
		node:        node,
		prefix:      watchOnlyPrefix,
		maxAttempts: maxAttempts,
		cb:          circuitbreaker.NewCircuitBreaker("bitcoind"),
		limiter:     ratelimit.New(defaultBalanceRate),
	}
}

// Refresh makes sure a watch-only wallet is available, starting the search
// from the given wallet number, imports the addresses into it and returns
// the balance of each of them.
func (b *BalanceTracker) Refresh(
	ctx context.Context, walletNumber int, addresses []string,
) (*BalanceReport, error) {
	name, number, err := b.watchOnlyWallet(ctx, walletNumber)
	if err != nil {
		return nil, err
	}
	logger := log.WithField("wallet", name)

	if err := b.importAddresses(ctx, name, addresses); err != nil {
		return nil, err
	}

	balances := make(map[string]btcutil.Amount, len(addresses))
	var lastErr error
	for _, addr := range addresses {
		b.limiter.Take()

		amount, err := b.cb.Execute(func() (interface{}, error) {
			return b.node.GetReceivedByAddress(ctx, name, addr, balanceMinConf)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) ||
				errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, err
			}
			logger.WithError(err).Warnf("failed to read balance of %s", addr)
			lastErr = err
			continue
		}
		balances[addr] = amount.(btcutil.Amount)
	}
	if len(balances) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return &BalanceReport{
		WatchOnlyWallet:       name,
		WatchOnlyWalletNumber: number,
		Balances:              balances,
	}, nil
}

// watchOnlyWallet probes wallet names prefix<n>, prefix<n+1>, ... until one
// is either created or found to be an existing watch-only wallet. The search
// is bounded by maxAttempts.
func (b *BalanceTracker) watchOnlyWallet(
	ctx context.Context, start int,
) (string, int, error) {
	if start <= 0 {
		start = 1
	}

	for n := start; n < start+b.maxAttempts; n++ {
		name := fmt.Sprintf("%s%d", b.prefix, n)
		logger := log.WithField("wallet", name)

		_, err := b.node.CreateWatchOnlyWallet(ctx, name)
		if err == nil {
			logger.Debug("created watch-only wallet")
			return name, n, nil
		}
		if !bitcoind.IsWalletAlreadyExists(err) {
			return "", 0, err
		}

		if err := loadWallet(ctx, b.node, name); err != nil {
			if bitcoind.IsTransportError(err) {
				return "", 0, err
			}
			logger.WithError(err).Debug("skipping wallet, unable to load it")
			continue
		}
		info, err := b.node.GetWalletInfo(ctx, name)
		if err != nil {
			if bitcoind.IsTransportError(err) {
				return "", 0, err
			}
			logger.WithError(err).Debug("skipping wallet, unable to get info")
			continue
		}
		if info.PrivateKeysEnabled {
			logger.Debug("skipping wallet, private keys are enabled")
			continue
		}
		return name, n, nil
	}

	return "", 0, ErrWatchOnlyWalletUnavailable
}

func (b *BalanceTracker) importAddresses(
	ctx context.Context, wallet string, addresses []string,
) error {
	if len(addresses) <= 0 {
		return nil
	}

	reqs := make([]bitcoind.ImportDescriptorRequest, 0, len(addresses))
	for _, addr := range addresses {
		desc := fmt.Sprintf(addressDescriptorFmt, addr)
		info, err := b.node.GetDescriptorInfo(ctx, desc)
		if err != nil {
			return err
		}
		reqs = append(reqs, bitcoind.ImportDescriptorRequest{
			Desc:      fmt.Sprintf("%s#%s", desc, info.Checksum),
			Timestamp: 0,
			Label:     addr,
		})
	}

	return withWalletLoaded(ctx, b.node, wallet, func() error {
		return b.node.ImportDescriptors(ctx, wallet, reqs)
	})
}
