package bitcoind

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// CreateWalletResult ...
type CreateWalletResult struct {
	Name    string `json:"name"`
	Warning string `json:"warning"`
}

// WalletInfo is the subset of getwalletinfo used by this package.
type WalletInfo struct {
	WalletName            string  `json:"walletname"`
	TxCount               int     `json:"txcount"`
	PrivateKeysEnabled    bool    `json:"private_keys_enabled"`
	Descriptors           bool    `json:"descriptors"`
	Balance               float64 `json:"balance"`
	UnconfirmedBalance    float64 `json:"unconfirmed_balance"`
	ImmatureBalance       float64 `json:"immature_balance"`
	AvoidReuse            bool    `json:"avoid_reuse"`
	ExternalSignerEnabled bool    `json:"external_signer"`
}

// DescriptorEntry is one of the descriptors of a wallet.
type DescriptorEntry struct {
	Desc      string `json:"desc"`
	Timestamp int64  `json:"timestamp"`
	Active    bool   `json:"active"`
	Internal  bool   `json:"internal"`
	Next      int64  `json:"next"`
}

// ListDescriptorsResult ...
type ListDescriptorsResult struct {
	WalletName  string            `json:"wallet_name"`
	Descriptors []DescriptorEntry `json:"descriptors"`
}

// DescriptorInfo is the result of getdescriptorinfo.
type DescriptorInfo struct {
	Descriptor     string `json:"descriptor"`
	Checksum       string `json:"checksum"`
	IsRange        bool   `json:"isrange"`
	IsSolvable     bool   `json:"issolvable"`
	HasPrivateKeys bool   `json:"hasprivatekeys"`
}

// ImportDescriptorRequest is one of the items of importdescriptors.
type ImportDescriptorRequest struct {
	Desc      string      `json:"desc"`
	Timestamp interface{} `json:"timestamp"`
	Label     string      `json:"label,omitempty"`
	Internal  bool        `json:"internal,omitempty"`
}

// ImportDescriptorResult ...
type ImportDescriptorResult struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListWallets returns the names of the wallets currently loaded.
func (c *Client) ListWallets(ctx context.Context) ([]string, error) {
	var wallets []string
	if err := c.Call(ctx, "listwallets", nil, "", &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// CreateWallet creates a descriptor wallet able to hold private keys.
func (c *Client) CreateWallet(ctx context.Context, name string) (*CreateWalletResult, error) {
	// name, disable_private_keys, blank
	params := []interface{}{name, false, false}
	res := &CreateWalletResult{}
	if err := c.Call(ctx, methodCreateWallet, params, "", res); err != nil {
		return nil, err
	}
	return res, nil
}

// CreateWatchOnlyWallet creates a blank wallet with private keys disabled.
func (c *Client) CreateWatchOnlyWallet(ctx context.Context, name string) (*CreateWalletResult, error) {
	params := []interface{}{name, true, true}
	res := &CreateWalletResult{}
	if err := c.Call(ctx, methodCreateWallet, params, "", res); err != nil {
		return nil, err
	}
	return res, nil
}

// LoadWallet ...
func (c *Client) LoadWallet(ctx context.Context, name string) error {
	return c.Call(ctx, "loadwallet", []interface{}{name}, "", nil)
}

// UnloadWallet ...
func (c *Client) UnloadWallet(ctx context.Context, name string) error {
	return c.Call(ctx, "unloadwallet", []interface{}{name}, "", nil)
}

// GetWalletInfo ...
func (c *Client) GetWalletInfo(ctx context.Context, wallet string) (*WalletInfo, error) {
	info := &WalletInfo{}
	if err := c.Call(ctx, "getwalletinfo", nil, wallet, info); err != nil {
		return nil, err
	}
	return info, nil
}

// ListDescriptors returns the public descriptors of the wallet.
func (c *Client) ListDescriptors(ctx context.Context, wallet string) ([]DescriptorEntry, error) {
	res := &ListDescriptorsResult{}
	if err := c.Call(ctx, "listdescriptors", nil, wallet, res); err != nil {
		return nil, err
	}
	return res.Descriptors, nil
}

// GetDescriptorInfo ...
func (c *Client) GetDescriptorInfo(ctx context.Context, desc string) (*DescriptorInfo, error) {
	info := &DescriptorInfo{}
	if err := c.Call(ctx, "getdescriptorinfo", []interface{}{desc}, "", info); err != nil {
		return nil, err
	}
	return info, nil
}

// ImportDescriptors imports the given descriptors into the wallet. An error
// is returned if any of the imports is not successful.
func (c *Client) ImportDescriptors(
	ctx context.Context, wallet string, reqs []ImportDescriptorRequest,
) error {
	var res []ImportDescriptorResult
	if err := c.Call(ctx, "importdescriptors", []interface{}{reqs}, wallet, &res); err != nil {
		return err
	}
	for i, r := range res {
		if r.Success {
			continue
		}
		if r.Error != nil {
			return &RPCError{Code: r.Error.Code, Message: r.Error.Message}
		}
		return fmt.Errorf("failed to import descriptor %s", reqs[i].Desc)
	}
	return nil
}

// GetBalance returns the trusted spendable balance of the wallet.
func (c *Client) GetBalance(ctx context.Context, wallet string) (btcutil.Amount, error) {
	var balance float64
	if err := c.Call(ctx, "getbalance", nil, wallet, &balance); err != nil {
		return 0, err
	}
	return btcutil.NewAmount(balance)
}

// GetNewAddress ...
func (c *Client) GetNewAddress(ctx context.Context, wallet string) (string, error) {
	var addr string
	if err := c.Call(ctx, "getnewaddress", nil, wallet, &addr); err != nil {
		return "", err
	}
	return addr, nil
}

// GenerateToAddress mines the given number of blocks paying the coinbase to
// address and returns their hashes.
func (c *Client) GenerateToAddress(
	ctx context.Context, numBlocks int, address string,
) ([]string, error) {
	var hashes []string
	params := []interface{}{numBlocks, address}
	if err := c.Call(ctx, "generatetoaddress", params, "", &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// SendToAddress sends amount to address from the given wallet and returns the
// id of the transaction.
func (c *Client) SendToAddress(
	ctx context.Context, wallet, address string, amount btcutil.Amount,
) (string, error) {
	var txid string
	params := []interface{}{address, amount.ToBTC()}
	if err := c.Call(ctx, "sendtoaddress", params, wallet, &txid); err != nil {
		return "", err
	}
	if _, err := chainhash.NewHashFromStr(txid); err != nil || len(txid) != 64 {
		return "", ErrInvalidTxID
	}
	return txid, nil
}

// GetTransaction ...
func (c *Client) GetTransaction(
	ctx context.Context, wallet, txid string,
) (*btcjson.GetTransactionResult, error) {
	res := &btcjson.GetTransactionResult{}
	if err := c.Call(ctx, "gettransaction", []interface{}{txid}, wallet, res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetReceivedByAddress returns the total amount received by address with at
// least minConf confirmations. The address must be tracked by the wallet.
func (c *Client) GetReceivedByAddress(
	ctx context.Context, wallet, address string, minConf int,
) (btcutil.Amount, error) {
	var amount float64
	params := []interface{}{address, minConf}
	if err := c.Call(ctx, "getreceivedbyaddress", params, wallet, &amount); err != nil {
		return 0, err
	}
	return btcutil.NewAmount(amount)
}
