package application

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	log "github.com/sirupsen/logrus"
)

// FundingResult ...
type FundingResult struct {
	TxID          string
	Address       string
	Amount        btcutil.Amount
	Confirmations int64
	BlocksMined   int
}

// FundingService sends coins mined on regtest to a target address.
type FundingService struct {
	node             ports.Node
	network          multisig.Network
	minerWallet      string
	maturationBlocks int
}

// NewFundingService ...
func NewFundingService(
	node ports.Node, net multisig.Network, minerWallet string,
	maturationBlocks int,
) *FundingService {
	return &FundingService{node, net, minerWallet, maturationBlocks}
}

// Fund sends amount to address from the miner wallet, mining enough blocks
// to have spendable coins if needed, and waits for the transaction to be
// confirmed by mining one more block.
func (f *FundingService) Fund(
	ctx context.Context, address string, amount btcutil.Amount,
) (*FundingResult, error) {
	if f.network != multisig.Regtest {
		return nil, ErrFundingNotRegtest
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := multisig.ValidateAddress(address, f.network); err != nil {
		return nil, ErrInvalidAddress
	}

	logger := log.WithField("wallet", f.minerWallet)

	if err := ensureWallet(
		ctx, f.node, f.minerWallet, createSignerWallet(f.node),
	); err != nil {
		return nil, err
	}

	balance, err := f.node.GetBalance(ctx, f.minerWallet)
	if err != nil {
		return nil, err
	}
	minerAddress, err := f.node.GetNewAddress(ctx, f.minerWallet)
	if err != nil {
		return nil, err
	}

	blocksMined := 0
	if balance < amount {
		logger.Infof(
			"miner balance %s lower than %s, mining %d blocks",
			balance, amount, f.maturationBlocks,
		)
		if _, err := f.node.GenerateToAddress(
			ctx, f.maturationBlocks, minerAddress,
		); err != nil {
			return nil, err
		}
		blocksMined += f.maturationBlocks

		balance, err = f.node.GetBalance(ctx, f.minerWallet)
		if err != nil {
			return nil, err
		}
		if balance < amount {
			return nil, &InsufficientFundsError{Requested: amount, Available: balance}
		}
	}

	txid, err := f.node.SendToAddress(ctx, f.minerWallet, address, amount)
	if err != nil {
		return nil, err
	}
	logger.WithField("txid", txid).Infof("sent %s to %s", amount, address)

	if _, err := f.node.GenerateToAddress(ctx, 1, minerAddress); err != nil {
		return nil, err
	}
	blocksMined++

	tx, err := f.node.GetTransaction(ctx, f.minerWallet, txid)
	if err != nil {
		return nil, err
	}
	if tx.Confirmations < 1 {
		return nil, &ConfirmationTimeoutError{TxID: txid, Confirmations: tx.Confirmations}
	}

	return &FundingResult{
		TxID:          txid,
		Address:       address,
		Amount:        amount,
		Confirmations: tx.Confirmations,
		BlocksMined:   blocksMined,
	}, nil
}
