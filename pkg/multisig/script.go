package multisig

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// MaxPublicKeys is the maximum number of keys of a standard multisig script.
const MaxPublicKeys = 15

// Multisig is an M-of-N redeem/witness script together with the address it
// is paid to.
type Multisig struct {
	Address         string
	Script          []byte
	RequiredSigners int
	PublicKeys      []string
	AddressType     AddressType
	Network         Network
}

// ScriptHex returns the hex encoded multisig script.
func (m *Multisig) ScriptHex() string {
	return hex.EncodeToString(m.Script)
}

// GenerateMultisigFromPublicKeys builds the multisig script out of the given
// hex encoded public keys. Keys end up in the script in the very same order
// they are passed in, no sorting happens.
func GenerateMultisigFromPublicKeys(
	net Network, addrType AddressType, required int, pubkeys ...string,
) (*Multisig, error) {
	params, err := net.Params()
	if err != nil {
		return nil, err
	}
	if len(pubkeys) <= 0 {
		return nil, ErrNullPublicKeys
	}
	if len(pubkeys) > MaxPublicKeys {
		return nil, ErrTooManyPublicKeys
	}
	if required < 1 || required > len(pubkeys) {
		return nil, ErrInvalidThreshold
	}

	keys := make([]*btcutil.AddressPubKey, 0, len(pubkeys))
	for i, k := range pubkeys {
		buf, err := hex.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("public key %d is not hex encoded: %w", i, err)
		}
		pubkey, err := btcec.ParsePubKey(buf)
		if err != nil {
			return nil, fmt.Errorf("invalid public key %d: %w", i, err)
		}
		addrPubkey, err := btcutil.NewAddressPubKey(pubkey.SerializeCompressed(), params)
		if err != nil {
			return nil, err
		}
		keys = append(keys, addrPubkey)
	}

	script, err := txscript.MultiSigScript(keys, required)
	if err != nil {
		return nil, err
	}

	addr, err := payToScript(script, addrType, params)
	if err != nil {
		return nil, err
	}

	return &Multisig{
		Address:         addr.EncodeAddress(),
		Script:          script,
		RequiredSigners: required,
		PublicKeys:      append([]string(nil), pubkeys...),
		AddressType:     addrType,
		Network:         net,
	}, nil
}

func payToScript(
	script []byte, addrType AddressType, params *chaincfg.Params,
) (btcutil.Address, error) {
	switch addrType {
	case P2SH:
		return btcutil.NewAddressScriptHash(script, params)
	case P2WSH:
		h := sha256.Sum256(script)
		return btcutil.NewAddressWitnessScriptHash(h[:], params)
	case P2SHP2WSH:
		h := sha256.Sum256(script)
		segwitAddr, err := btcutil.NewAddressWitnessScriptHash(h[:], params)
		if err != nil {
			return nil, err
		}
		witnessProgram, err := txscript.PayToAddrScript(segwitAddr)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressScriptHash(witnessProgram, params)
	default:
		return nil, ErrUnknownAddressType
	}
}
