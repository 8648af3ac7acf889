package dbbadger_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	dbbadger "github.com/cascade-wallet/cascade-daemon/internal/infrastructure/storage/badger"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestWalletStateRepository(t *testing.T) {
	t.Run("GetStateNotFound", testGetStateNotFound())
	t.Run("UpdateState", testUpdateState())
	t.Run("FailingUpdateState", testFailingUpdateState())
	t.Run("DeleteState", testDeleteState())
	t.Run("PersistedState", testPersistedState())
}

func testGetStateNotFound() func(*testing.T) {
	return func(t *testing.T) {
		repo, err := dbbadger.NewWalletStateRepository("", nil)
		require.NoError(t, err)
		defer repo.Close()

		state, err := repo.GetState(ctx)
		require.ErrorIs(t, err, domain.ErrWalletStateNotFound)
		require.Nil(t, state)
	}
}

func testUpdateState() func(*testing.T) {
	return func(t *testing.T) {
		repo, err := dbbadger.NewWalletStateRepository("", nil)
		require.NoError(t, err)
		defer repo.Close()

		err = repo.UpdateState(ctx, func(s *domain.WalletState) (*domain.WalletState, error) {
			require.Nil(t, s)
			return newTestState(t), nil
		})
		require.NoError(t, err)

		err = repo.UpdateState(ctx, func(s *domain.WalletState) (*domain.WalletState, error) {
			require.NotNil(t, s)
			s.Name = "Treasury"
			return s, s.AddSigner("carol")
		})
		require.NoError(t, err)

		state, err := repo.GetState(ctx)
		require.NoError(t, err)
		require.Equal(t, "Treasury", state.Name)
		require.Equal(t, []string{"alice", "bob", "carol"}, state.SignerNames())
		require.Empty(t, state.Connection.Password)
		require.Equal(t, "127.0.0.1", state.Connection.Host)
	}
}

func testFailingUpdateState() func(*testing.T) {
	return func(t *testing.T) {
		repo, err := dbbadger.NewWalletStateRepository("", nil)
		require.NoError(t, err)
		defer repo.Close()

		err = repo.UpdateState(ctx, func(*domain.WalletState) (*domain.WalletState, error) {
			return newTestState(t), nil
		})
		require.NoError(t, err)

		err = repo.UpdateState(ctx, func(s *domain.WalletState) (*domain.WalletState, error) {
			s.Name = "Treasury"
			return nil, fmt.Errorf("boom")
		})
		require.EqualError(t, err, "boom")

		state, err := repo.GetState(ctx)
		require.NoError(t, err)
		require.Equal(t, domain.DefaultWalletName, state.Name)
	}
}

func testDeleteState() func(*testing.T) {
	return func(t *testing.T) {
		repo, err := dbbadger.NewWalletStateRepository("", nil)
		require.NoError(t, err)
		defer repo.Close()

		err = repo.UpdateState(ctx, func(*domain.WalletState) (*domain.WalletState, error) {
			return newTestState(t), nil
		})
		require.NoError(t, err)

		err = repo.DeleteState(ctx)
		require.NoError(t, err)

		err = repo.DeleteState(ctx)
		require.NoError(t, err)

		_, err = repo.GetState(ctx)
		require.ErrorIs(t, err, domain.ErrWalletStateNotFound)
	}
}

func testPersistedState() func(*testing.T) {
	return func(t *testing.T) {
		dir := t.TempDir()

		repo, err := dbbadger.NewWalletStateRepository(dir, nil)
		require.NoError(t, err)
		err = repo.UpdateState(ctx, func(*domain.WalletState) (*domain.WalletState, error) {
			return newTestState(t), nil
		})
		require.NoError(t, err)
		repo.Close()

		repo, err = dbbadger.NewWalletStateRepository(dir, nil)
		require.NoError(t, err)
		defer repo.Close()

		state, err := repo.GetState(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"alice", "bob"}, state.SignerNames())
		require.Equal(t, multisig.P2WSH, state.Quorum.AddressType)
		require.Empty(t, state.Connection.Password)
	}
}

func newTestState(t *testing.T) *domain.WalletState {
	quorum, err := domain.NewQuorum(2, 2, multisig.P2WSH, multisig.Regtest)
	require.NoError(t, err)

	state, err := domain.NewWalletState([]string{"alice", "bob"}, *quorum, 0, "")
	require.NoError(t, err)

	state.Connection = domain.Connection{
		Host:     "127.0.0.1",
		Port:     18443,
		Username: "user",
		Password: "secret",
	}
	return state
}
