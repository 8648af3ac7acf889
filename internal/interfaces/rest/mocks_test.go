package restinterface

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/stretchr/testify/mock"
)

type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) TestConnection(
	ctx context.Context, conn domain.Connection,
) (*application.ConnectionStatus, error) {
	args := m.Called(ctx, conn)
	res, _ := args.Get(0).(*application.ConnectionStatus)
	return res, args.Error(1)
}

func (m *mockWalletService) Connect(
	ctx context.Context, conn domain.Connection,
) (*application.ConnectionStatus, error) {
	args := m.Called(ctx, conn)
	res, _ := args.Get(0).(*application.ConnectionStatus)
	return res, args.Error(1)
}

func (m *mockWalletService) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockWalletService) Signers(ctx context.Context) []domain.SignerWallet {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.SignerWallet)
	return res
}

func (m *mockWalletService) AddSigner(
	ctx context.Context, name string,
) ([]domain.SignerWallet, error) {
	args := m.Called(ctx, name)
	res, _ := args.Get(0).([]domain.SignerWallet)
	return res, args.Error(1)
}

func (m *mockWalletService) RemoveSigner(
	ctx context.Context, name string,
) ([]domain.SignerWallet, error) {
	args := m.Called(ctx, name)
	res, _ := args.Get(0).([]domain.SignerWallet)
	return res, args.Error(1)
}

func (m *mockWalletService) RenameSigner(
	ctx context.Context, oldName, newName string,
) ([]domain.SignerWallet, error) {
	args := m.Called(ctx, oldName, newName)
	res, _ := args.Get(0).([]domain.SignerWallet)
	return res, args.Error(1)
}

func (m *mockWalletService) ProvisionWallets(
	ctx context.Context,
) ([]domain.SignerWallet, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.SignerWallet)
	return res, args.Error(1)
}

func (m *mockWalletService) RetrySigner(
	ctx context.Context, name string,
) (*domain.SignerWallet, error) {
	args := m.Called(ctx, name)
	res, _ := args.Get(0).(*domain.SignerWallet)
	return res, args.Error(1)
}

func (m *mockWalletService) ClearWallets(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockWalletService) SetQuorum(
	ctx context.Context, required int, addrType multisig.AddressType,
) (*domain.Quorum, error) {
	args := m.Called(ctx, required, addrType)
	res, _ := args.Get(0).(*domain.Quorum)
	return res, args.Error(1)
}

func (m *mockWalletService) CreateMultisig(
	ctx context.Context,
) (*application.Status, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*application.Status)
	return res, args.Error(1)
}

func (m *mockWalletService) ManualSetup(
	ctx context.Context, keys []domain.ExtendedKey, required int,
	addrType multisig.AddressType,
) (*application.Status, error) {
	args := m.Called(ctx, keys, required, addrType)
	res, _ := args.Get(0).(*application.Status)
	return res, args.Error(1)
}

func (m *mockWalletService) Addresses(
	ctx context.Context,
) ([]domain.DerivedAddress, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.DerivedAddress)
	return res, args.Error(1)
}

func (m *mockWalletService) GenerateNewAddress(
	ctx context.Context,
) (*domain.DerivedAddress, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*domain.DerivedAddress)
	return res, args.Error(1)
}

func (m *mockWalletService) Fund(
	ctx context.Context, address string, amount btcutil.Amount,
) (*application.FundingResult, error) {
	args := m.Called(ctx, address, amount)
	res, _ := args.Get(0).(*application.FundingResult)
	return res, args.Error(1)
}

func (m *mockWalletService) Send(
	ctx context.Context, address string, amount btcutil.Amount,
) (*domain.Transaction, error) {
	args := m.Called(ctx, address, amount)
	res, _ := args.Get(0).(*domain.Transaction)
	return res, args.Error(1)
}

func (m *mockWalletService) Transactions(ctx context.Context) []domain.Transaction {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.Transaction)
	return res
}

func (m *mockWalletService) RefreshBalances(
	ctx context.Context,
) ([]domain.DerivedAddress, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.DerivedAddress)
	return res, args.Error(1)
}

func (m *mockWalletService) ExportConfig(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]byte)
	return res, args.Error(1)
}

func (m *mockWalletService) ImportConfig(
	ctx context.Context, data []byte,
) (*application.Status, error) {
	args := m.Called(ctx, data)
	res, _ := args.Get(0).(*application.Status)
	return res, args.Error(1)
}

func (m *mockWalletService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockWalletService) Status(ctx context.Context) application.Status {
	args := m.Called(ctx)
	return args.Get(0).(application.Status)
}
