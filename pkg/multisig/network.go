package multisig

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network identifies the bitcoin chain a wallet lives on.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)

// ParseNetwork accepts the names used by the wallet config file format as
// well as the chain names reported by getblockchaininfo (main, test,
// regtest).
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet", "main", "bitcoin":
		return Mainnet, nil
	case "testnet", "test", "testnet3":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	default:
		return "", ErrUnknownNetwork
	}
}

// Params returns the chaincfg parameters for the network.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	case Testnet:
		return &chaincfg.TestNet3Params, nil
	case Regtest:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, ErrUnknownNetwork
	}
}

func (n Network) String() string {
	return string(n)
}

// AddressType is the script template used to wrap the multisig script.
type AddressType string

const (
	P2SH       AddressType = "P2SH"
	P2SHP2WSH  AddressType = "P2SH-P2WSH"
	P2WSH      AddressType = "P2WSH"
	unknownTyp AddressType = ""
)

// ParseAddressType is case insensitive and accepts both the dash and the
// underscore spelling of the nested segwit type.
func ParseAddressType(str string) (AddressType, error) {
	s := strings.ToUpper(strings.TrimSpace(str))
	s = strings.ReplaceAll(s, "_", "-")
	switch AddressType(s) {
	case P2SH:
		return P2SH, nil
	case P2SHP2WSH:
		return P2SHP2WSH, nil
	case P2WSH:
		return P2WSH, nil
	default:
		return unknownTyp, ErrUnknownAddressType
	}
}

func (t AddressType) String() string {
	return string(t)
}
