package bitcoind

import (
	"context"

	"github.com/btcsuite/btcd/btcjson"
)

// GetBlockCount is the cheapest call to check that the node is reachable and
// that credentials are valid.
func (c *Client) GetBlockCount(ctx context.Context) (int64, error) {
	var count int64
	if err := c.Call(ctx, "getblockcount", nil, "", &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetBlockchainInfo ...
func (c *Client) GetBlockchainInfo(ctx context.Context) (*btcjson.GetBlockChainInfoResult, error) {
	res := &btcjson.GetBlockChainInfoResult{}
	if err := c.Call(ctx, "getblockchaininfo", nil, "", res); err != nil {
		return nil, err
	}
	return res, nil
}
