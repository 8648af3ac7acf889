package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, names ...string) *domain.WalletState {
	q, err := domain.NewQuorum(2, 2, multisig.P2WSH, multisig.Regtest)
	require.NoError(t, err)
	state, err := domain.NewWalletState(names, *q, 0, "https://mempool.space/address/")
	require.NoError(t, err)
	return state
}

func TestWalletStateSigners(t *testing.T) {
	t.Parallel()

	state := newTestState(t, "reg_signer1", "reg_signer2")
	require.Equal(t, []string{"reg_signer1", "reg_signer2"}, state.SignerNames())
	require.Equal(t, 2, state.Quorum.TotalSigners)
	require.Equal(t, "watcher1", state.WatchOnlyWalletName("watcher"))

	require.NoError(t, state.AddSigner("reg_signer3"))
	require.Equal(t, 3, state.Quorum.TotalSigners)
	require.EqualError(t, state.AddSigner("reg_signer3"), domain.ErrDuplicateSigner.Error())

	require.EqualError(t, state.RenameSigner("reg_signer3", "reg_signer1"), domain.ErrDuplicateSigner.Error())
	require.NoError(t, state.RenameSigner("reg_signer3", "reg_signer4"))
	_, err := state.Signer("reg_signer4")
	require.NoError(t, err)

	require.NoError(t, state.RemoveSigner("reg_signer4", 2))
	require.Equal(t, 2, state.Quorum.TotalSigners)
	require.Equal(t, 2, state.Quorum.RequiredSigners)

	require.EqualError(t, state.RemoveSigner("reg_signer2", 2), domain.ErrTooFewSigners.Error())
	// Unknown signers are reported as such even at the minimum.
	require.EqualError(t, state.RemoveSigner("nope", 2), domain.ErrSignerNotFound.Error())

	require.NoError(t, state.AddSigner("reg_signer5"))
	require.EqualError(t, state.RemoveSigner("nope", 2), domain.ErrSignerNotFound.Error())

	_, err = domain.NewWalletState([]string{"a", "a"}, state.Quorum, 0, "")
	require.EqualError(t, err, domain.ErrDuplicateSigner.Error())
}

func TestWalletStateCreate(t *testing.T) {
	t.Parallel()

	state := newTestState(t, "reg_signer1", "reg_signer2", "reg_signer3")
	require.NoError(t, state.Quorum.SetRequiredSigners(3))

	keys := []domain.ExtendedKey{
		{Name: "a", BIP32Path: "m/84'/1'/0'", Xpub: "tpubA", Fingerprint: "00000001"},
		{Name: "b", BIP32Path: "m/84'/1'/0'", Xpub: "tpubB", Fingerprint: "00000002"},
	}
	require.NoError(t, state.SetKeys(keys, domain.SourceProvisioned))
	require.Equal(t, 2, state.Quorum.TotalSigners)
	require.Equal(t, 2, state.Quorum.RequiredSigners)

	require.NoError(t, state.MarkCreated())
	require.True(t, state.Created)
	require.EqualError(t, state.MarkCreated(), domain.ErrWalletAlreadyCreated.Error())
	require.EqualError(t, state.AddSigner("x"), domain.ErrWalletAlreadyCreated.Error())
	require.EqualError(t, state.SetKeys(keys, domain.SourceManual), domain.ErrWalletAlreadyCreated.Error())

	state.AddTransaction(domain.Transaction{TxID: "1"})
	state.AddTransaction(domain.Transaction{TxID: "2"})
	require.Equal(t, "2", state.Transactions[0].TxID)

	state.Connection = domain.Connection{Host: "localhost", Port: 18443, Password: "secret", Connected: true}
	require.NoError(t, state.Reset([]string{"reg_signer1", "reg_signer2"}, state.Quorum, 0))
	require.False(t, state.Created)
	require.Empty(t, state.Keys)
	require.Empty(t, state.Transactions)
	require.True(t, state.Connection.Connected)
	require.Equal(t, "secret", state.Connection.Password)
}

func TestWalletStateClone(t *testing.T) {
	t.Parallel()

	state := newTestState(t, "reg_signer1", "reg_signer2")
	signer, err := state.Signer("reg_signer1")
	require.NoError(t, err)
	require.NoError(t, signer.MarkProvisioned(testKey))

	clone := state.Clone()
	cloned, err := clone.Signer("reg_signer1")
	require.NoError(t, err)
	cloned.Reset()

	require.True(t, signer.IsProvisioned())
	require.Len(t, state.ProvisionedSigners(), 1)
	require.Len(t, clone.ProvisionedSigners(), 0)
}

func TestWalletStateNeverSerializesPassword(t *testing.T) {
	t.Parallel()

	state := newTestState(t, "reg_signer1", "reg_signer2")
	state.Connection = domain.Connection{Host: "localhost", Port: 18443, Username: "admin", Password: "secret"}

	buf, err := json.Marshal(state)
	require.NoError(t, err)
	require.NotContains(t, string(buf), "secret")
	require.Contains(t, string(buf), "admin")
}
