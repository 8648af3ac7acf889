package ports

import (
	"context"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
)

// Node is the subset of the bitcoind JSON-RPC interface the wallet workflow
// depends on.
type Node interface {
	Chain
	NodeWallet
}

// Chain groups the node global calls.
type Chain interface {
	GetBlockCount(ctx context.Context) (int64, error)
	GetBlockchainInfo(ctx context.Context) (*btcjson.GetBlockChainInfoResult, error)
	GenerateToAddress(ctx context.Context, numBlocks int, address string) ([]string, error)
	GetDescriptorInfo(ctx context.Context, desc string) (*bitcoind.DescriptorInfo, error)
}

// NodeWallet groups the wallet management and wallet scoped calls.
type NodeWallet interface {
	ListWallets(ctx context.Context) ([]string, error)
	CreateWallet(ctx context.Context, name string) (*bitcoind.CreateWalletResult, error)
	CreateWatchOnlyWallet(ctx context.Context, name string) (*bitcoind.CreateWalletResult, error)
	LoadWallet(ctx context.Context, name string) error
	UnloadWallet(ctx context.Context, name string) error
	GetWalletInfo(ctx context.Context, wallet string) (*bitcoind.WalletInfo, error)
	ListDescriptors(ctx context.Context, wallet string) ([]bitcoind.DescriptorEntry, error)
	ImportDescriptors(ctx context.Context, wallet string, reqs []bitcoind.ImportDescriptorRequest) error
	GetBalance(ctx context.Context, wallet string) (btcutil.Amount, error)
	GetNewAddress(ctx context.Context, wallet string) (string, error)
	SendToAddress(ctx context.Context, wallet, address string, amount btcutil.Amount) (string, error)
	GetTransaction(ctx context.Context, wallet, txid string) (*btcjson.GetTransactionResult, error)
	GetReceivedByAddress(ctx context.Context, wallet, address string, minConf int) (btcutil.Amount, error)
}

// NodeFactory returns a Node for the given connection config.
type NodeFactory func(cfg bitcoind.ConnConfig) (Node, error)
