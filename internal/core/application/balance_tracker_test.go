package application_test

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errWalletExists = &bitcoind.RPCError{
	Code:    -4,
	Message: "Wallet file verification failed. Database already exists.",
}

func TestBalanceTrackerWatchOnlyProbe(t *testing.T) {
	ctx := context.Background()
	addresses := []string{newTestAddress(t, 1), newTestAddress(t, 2)}

	node := &mockNode{}
	// watcher1 is a wallet with private keys, watcher2 can't be loaded,
	// watcher3 is an existing watch-only wallet.
	node.On("CreateWatchOnlyWallet", mock.Anything, mock.Anything).Return(nil, errWalletExists)
	node.On("LoadWallet", mock.Anything, "watcher1").Return(nil)
	node.On("GetWalletInfo", mock.Anything, "watcher1").
		Return(&bitcoind.WalletInfo{PrivateKeysEnabled: true}, nil)
	node.On("LoadWallet", mock.Anything, "watcher2").
		Return(&bitcoind.RPCError{Code: -4, Message: "Wallet file verification failed."})
	node.On("LoadWallet", mock.Anything, "watcher3").
		Return(&bitcoind.RPCError{Code: -35, Message: "Wallet \"watcher3\" is already loaded."})
	node.On("GetWalletInfo", mock.Anything, "watcher3").
		Return(&bitcoind.WalletInfo{PrivateKeysEnabled: false}, nil)
	node.On("GetDescriptorInfo", mock.Anything, "addr("+addresses[0]+")").
		Return(&bitcoind.DescriptorInfo{Checksum: "aaaaaaaa"}, nil)
	node.On("GetDescriptorInfo", mock.Anything, "addr("+addresses[1]+")").
		Return(&bitcoind.DescriptorInfo{Checksum: "bbbbbbbb"}, nil)
	node.On("ImportDescriptors", mock.Anything, "watcher3", []bitcoind.ImportDescriptorRequest{
		{Desc: "addr(" + addresses[0] + ")#aaaaaaaa", Timestamp: 0, Label: addresses[0]},
		{Desc: "addr(" + addresses[1] + ")#bbbbbbbb", Timestamp: 0, Label: addresses[1]},
	}).Return(nil)
	node.On("GetReceivedByAddress", mock.Anything, "watcher3", addresses[0], 1).
		Return(btcutil.Amount(1000), nil)
	node.On("GetReceivedByAddress", mock.Anything, "watcher3", addresses[1], 1).
		Return(btcutil.Amount(0), nil)

	tracker := application.NewBalanceTracker(node, "watcher", 5)
	report, err := tracker.Refresh(ctx, 1, addresses)
	require.NoError(t, err)
	require.Equal(t, "watcher3", report.WatchOnlyWallet)
	require.Equal(t, 3, report.WatchOnlyWalletNumber)
	require.Equal(t, btcutil.Amount(1000), report.Balances[addresses[0]])
	require.Equal(t, btcutil.Amount(0), report.Balances[addresses[1]])
	node.AssertExpectations(t)
}

func TestBalanceTrackerGivesUp(t *testing.T) {
	ctx := context.Background()

	node := &mockNode{}
	node.On("CreateWatchOnlyWallet", mock.Anything, mock.Anything).Return(nil, errWalletExists)
	node.On("LoadWallet", mock.Anything, mock.Anything).Return(nil)
	node.On("GetWalletInfo", mock.Anything, mock.Anything).
		Return(&bitcoind.WalletInfo{PrivateKeysEnabled: true}, nil)

	tracker := application.NewBalanceTracker(node, "watcher", 3)
	_, err := tracker.Refresh(ctx, 4, []string{newTestAddress(t, 1)})
	require.ErrorIs(t, err, application.ErrWatchOnlyWalletUnavailable)

	node.AssertNumberOfCalls(t, "CreateWatchOnlyWallet", 3)
	node.AssertCalled(t, "CreateWatchOnlyWallet", mock.Anything, "watcher4")
	node.AssertCalled(t, "CreateWatchOnlyWallet", mock.Anything, "watcher6")
	node.AssertNotCalled(t, "CreateWatchOnlyWallet", mock.Anything, "watcher7")
}

func TestBalanceTrackerTransportError(t *testing.T) {
	ctx := context.Background()

	node := &mockNode{}
	node.On("CreateWatchOnlyWallet", mock.Anything, mock.Anything).
		Return(nil, &bitcoind.TransportError{Message: "connection refused"})

	tracker := application.NewBalanceTracker(node, "watcher", 3)
	_, err := tracker.Refresh(ctx, 1, []string{newTestAddress(t, 1)})
	require.True(t, bitcoind.IsTransportError(err))
	node.AssertNumberOfCalls(t, "CreateWatchOnlyWallet", 1)
}
