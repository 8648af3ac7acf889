package bitcoind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
)

// Error codes returned by bitcoind wallet RPCs.
const (
	CodeWalletError         = btcjson.ErrRPCWallet
	CodeWalletNotFound      = btcjson.RPCErrorCode(-18)
	CodeWalletNotSpecified  = btcjson.RPCErrorCode(-19)
	CodeWalletAlreadyLoaded = btcjson.RPCErrorCode(-35)
)

var (
	// ErrMissingRPCHost ...
	ErrMissingRPCHost = errors.New("missing rpc host")
	// ErrMissingRPCPort ...
	ErrMissingRPCPort = errors.New("missing rpc port")
	// ErrInvalidTxID ...
	ErrInvalidTxID = errors.New("node returned a malformed transaction id")
)

// RPCError is returned when the node responds with a populated error field.
// Message is the one reported by the node, untouched.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// TransportError is returned when the node cannot be reached or does not
// reply with a JSON-RPC response.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach node: %s", e.Message)
}

// IsWalletNotLoaded returns whether the error says that the wallet targeted
// by a wallet scoped call is not loaded, or not known at all, by the node.
func IsWalletNotLoaded(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	code := btcjson.RPCErrorCode(rpcErr.Code)
	return code == CodeWalletNotFound || code == CodeWalletNotSpecified
}

// IsWalletAlreadyExists returns whether the error is the one returned by
// createwallet for a name already in use.
func IsWalletAlreadyExists(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	return btcjson.RPCErrorCode(rpcErr.Code) == CodeWalletError &&
		strings.Contains(strings.ToLower(rpcErr.Message), "already exists")
}

// IsWalletAlreadyLoaded returns whether the error is the one returned by
// loadwallet for a wallet that is already loaded.
func IsWalletAlreadyLoaded(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	return btcjson.RPCErrorCode(rpcErr.Code) == CodeWalletAlreadyLoaded ||
		strings.Contains(strings.ToLower(rpcErr.Message), "already loaded")
}

// IsTransportError ...
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
