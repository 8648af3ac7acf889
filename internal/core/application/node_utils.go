package application

import (
	"context"

	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	log "github.com/sirupsen/logrus"
)

type createWalletFn func(ctx context.Context, name string) error

// ensureWallet makes sure the named wallet exists on the node and is loaded.
// listwallets only reports loaded wallets, so a wallet missing from the list
// might just be unloaded: creation failing with "already exists" falls back
// to loading it.
func ensureWallet(
	ctx context.Context, node ports.NodeWallet, name string, create createWalletFn,
) error {
	wallets, err := node.ListWallets(ctx)
	if err != nil {
		return err
	}

	if !contains(wallets, name) {
		if err := create(ctx, name); err != nil {
			if !bitcoind.IsWalletAlreadyExists(err) {
				return err
			}
			log.WithField("wallet", name).Debug("wallet already exists, loading it")
			return loadWallet(ctx, node, name)
		}
		log.WithField("wallet", name).Debug("created wallet")
		return nil
	}

	if _, err := node.GetWalletInfo(ctx, name); err != nil {
		if bitcoind.IsTransportError(err) {
			return err
		}
		log.WithField("wallet", name).WithError(err).Debug(
			"wallet info not available, loading wallet",
		)
		return loadWallet(ctx, node, name)
	}
	return nil
}

func loadWallet(ctx context.Context, node ports.NodeWallet, name string) error {
	if err := node.LoadWallet(ctx, name); err != nil {
		if bitcoind.IsWalletAlreadyLoaded(err) {
			return nil
		}
		return err
	}
	log.WithField("wallet", name).Debug("loaded wallet")
	return nil
}

// withWalletLoaded runs fn and, if the node says the wallet is not loaded,
// loads it and runs fn once more.
func withWalletLoaded(
	ctx context.Context, node ports.NodeWallet, name string, fn func() error,
) error {
	err := fn()
	if err == nil || !bitcoind.IsWalletNotLoaded(err) {
		return err
	}
	if err := loadWallet(ctx, node, name); err != nil {
		return err
	}
	return fn()
}

func createSignerWallet(node ports.NodeWallet) createWalletFn {
	return func(ctx context.Context, name string) error {
		_, err := node.CreateWallet(ctx, name)
		return err
	}
}

func createWatchOnlyWallet(node ports.NodeWallet) createWalletFn {
	return func(ctx context.Context, name string) error {
		_, err := node.CreateWatchOnlyWallet(ctx, name)
		return err
	}
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
