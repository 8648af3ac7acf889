package application_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// **** Node ****

type mockNode struct {
	mock.Mock
}

func (m *mockNode) GetBlockCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetBlockchainInfo(
	ctx context.Context,
) (*btcjson.GetBlockChainInfoResult, error) {
	args := m.Called(ctx)

	var res *btcjson.GetBlockChainInfoResult
	if a := args.Get(0); a != nil {
		res = a.(*btcjson.GetBlockChainInfoResult)
	}
	return res, args.Error(1)
}

func (m *mockNode) GenerateToAddress(
	ctx context.Context, numBlocks int, address string,
) ([]string, error) {
	args := m.Called(ctx, numBlocks, address)

	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetDescriptorInfo(
	ctx context.Context, desc string,
) (*bitcoind.DescriptorInfo, error) {
	args := m.Called(ctx, desc)

	var res *bitcoind.DescriptorInfo
	if a := args.Get(0); a != nil {
		res = a.(*bitcoind.DescriptorInfo)
	}
	return res, args.Error(1)
}

func (m *mockNode) ListWallets(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}

func (m *mockNode) CreateWallet(
	ctx context.Context, name string,
) (*bitcoind.CreateWalletResult, error) {
	args := m.Called(ctx, name)

	var res *bitcoind.CreateWalletResult
	if a := args.Get(0); a != nil {
		res = a.(*bitcoind.CreateWalletResult)
	}
	return res, args.Error(1)
}

func (m *mockNode) CreateWatchOnlyWallet(
	ctx context.Context, name string,
) (*bitcoind.CreateWalletResult, error) {
	args := m.Called(ctx, name)

	var res *bitcoind.CreateWalletResult
	if a := args.Get(0); a != nil {
		res = a.(*bitcoind.CreateWalletResult)
	}
	return res, args.Error(1)
}

func (m *mockNode) LoadWallet(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockNode) UnloadWallet(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockNode) GetWalletInfo(
	ctx context.Context, wallet string,
) (*bitcoind.WalletInfo, error) {
	args := m.Called(ctx, wallet)

	var res *bitcoind.WalletInfo
	if a := args.Get(0); a != nil {
		res = a.(*bitcoind.WalletInfo)
	}
	return res, args.Error(1)
}

func (m *mockNode) ListDescriptors(
	ctx context.Context, wallet string,
) ([]bitcoind.DescriptorEntry, error) {
	args := m.Called(ctx, wallet)

	var res []bitcoind.DescriptorEntry
	if a := args.Get(0); a != nil {
		res = a.([]bitcoind.DescriptorEntry)
	}
	return res, args.Error(1)
}

func (m *mockNode) ImportDescriptors(
	ctx context.Context, wallet string, reqs []bitcoind.ImportDescriptorRequest,
) error {
	args := m.Called(ctx, wallet, reqs)
	return args.Error(0)
}

func (m *mockNode) GetBalance(
	ctx context.Context, wallet string,
) (btcutil.Amount, error) {
	args := m.Called(ctx, wallet)

	var res btcutil.Amount
	if a := args.Get(0); a != nil {
		res = a.(btcutil.Amount)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetNewAddress(ctx context.Context, wallet string) (string, error) {
	args := m.Called(ctx, wallet)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockNode) SendToAddress(
	ctx context.Context, wallet, address string, amount btcutil.Amount,
) (string, error) {
	args := m.Called(ctx, wallet, address, amount)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetTransaction(
	ctx context.Context, wallet, txid string,
) (*btcjson.GetTransactionResult, error) {
	args := m.Called(ctx, wallet, txid)

	var res *btcjson.GetTransactionResult
	if a := args.Get(0); a != nil {
		res = a.(*btcjson.GetTransactionResult)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetReceivedByAddress(
	ctx context.Context, wallet, address string, minConf int,
) (btcutil.Amount, error) {
	args := m.Called(ctx, wallet, address, minConf)

	var res btcutil.Amount
	if a := args.Get(0); a != nil {
		res = a.(btcutil.Amount)
	}
	return res, args.Error(1)
}

// **** Repository ****

type inMemoryStateRepository struct {
	lock  sync.Mutex
	state *domain.WalletState
	// updateErr, if set, makes every update fail.
	updateErr error
}

func (r *inMemoryStateRepository) failUpdates(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.updateErr = err
}

func (r *inMemoryStateRepository) GetState(
	_ context.Context,
) (*domain.WalletState, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.state == nil {
		return nil, domain.ErrWalletStateNotFound
	}
	return r.state.Clone(), nil
}

func (r *inMemoryStateRepository) UpdateState(
	_ context.Context,
	updateFn func(s *domain.WalletState) (*domain.WalletState, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	next, err := updateFn(r.state.Clone())
	if err != nil {
		return err
	}
	r.state = next.Clone()
	// The password is never persisted.
	r.state.Connection.Password = ""
	return nil
}

func (r *inMemoryStateRepository) DeleteState(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.state = nil
	return nil
}

// **** Events ****

type eventRecorder struct {
	lock   sync.Mutex
	topics []string
}

func (e *eventRecorder) Publish(event ports.Event) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.topics = append(e.topics, event.Topic)
}

func (e *eventRecorder) Topics() []string {
	e.lock.Lock()
	defer e.lock.Unlock()
	return append([]string{}, e.topics...)
}

// **** Key material ****

// newTestAccountKey returns a deterministic regtest account level tpub
// derived at m/84'/1'/0' from a seed made of the given byte.
func newTestAccountKey(t *testing.T, b byte) string {
	t.Helper()

	master, err := hdkeychain.NewMaster(
		bytes.Repeat([]byte{b}, 32), &chaincfg.RegressionNetParams,
	)
	require.NoError(t, err)

	key := master
	for _, i := range []uint32{84, 1, 0} {
		key, err = key.Derive(hdkeychain.HardenedKeyStart + i)
		require.NoError(t, err)
	}
	pub, err := key.Neuter()
	require.NoError(t, err)
	return pub.String()
}

func newTestDescriptors(xpub, fingerprint string) []bitcoind.DescriptorEntry {
	origin := fmt.Sprintf("[%s/84h/1h/0h]%s", fingerprint, xpub)
	return []bitcoind.DescriptorEntry{
		{Desc: fmt.Sprintf("pkh(%s/0/*)#aaaaaaaa", origin), Active: true},
		{Desc: fmt.Sprintf("sh(wpkh(%s/1/*))#bbbbbbbb", origin), Active: true, Internal: true},
		{Desc: fmt.Sprintf("sh(wpkh(%s/0/*))#cccccccc", origin), Active: true},
		{Desc: fmt.Sprintf("wpkh(%s/0/*)#dddddddd", origin), Active: true},
	}
}
