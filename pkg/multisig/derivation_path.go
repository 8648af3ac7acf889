package multisig

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the internal representation of a BIP32 derivation path.
type DerivationPath []uint32

// ParseDerivationPath converts a derivation path string to the
// internal binary representation. Hardened indexes can be marked either with
// ' or with h, the latter being the notation used by bitcoind descriptors.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	var path DerivationPath

	elems := strings.Split(strPath, "/")
	switch {
	case strPath == "":
		return nil, ErrNullDerivationPath

	case containsEmptyString(elems):
		return nil, ErrMalformedDerivationPath
	case len(elems) < 2:
		return nil, ErrMalformedDerivationPath

	default:
		if strings.TrimSpace(elems[0]) == "m" {
			elems = elems[1:]
		}
	}

	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") || strings.HasSuffix(elem, "h") {
			value = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(elem[:len(elem)-1])
		}

		bigval, ok := new(big.Int).SetString(elem, 0)
		if !ok {
			return nil, fmt.Errorf("invalid elem '%s' in path", elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
			if value == 0 {
				return nil, fmt.Errorf("elem %v must be in range [0, %d]", bigval, max)
			}
			return nil, fmt.Errorf("elem %v must be in hardened range [0, %d]", bigval, max)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	result := "m"
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		result = fmt.Sprintf("%s/%d", result, component)
		if hardened {
			result += "'"
		}
	}
	return result
}

// IsHardened returns whether any of the path components is hardened.
func (path DerivationPath) IsHardened() bool {
	for _, component := range path {
		if component >= hdkeychain.HardenedKeyStart {
			return true
		}
	}
	return false
}

// ValidateBIP32Path returns an empty string if the path is valid, otherwise
// the reason why it is not.
func ValidateBIP32Path(path string) string {
	if _, err := ParseDerivationPath(path); err != nil {
		return err.Error()
	}
	return ""
}

// NormalizeOriginPath turns the key origin path found in a descriptor, like
// /84h/1h/0h, into the absolute form used by wallet config files, like
// m/84'/1'/0'. Paths already in absolute form are re-serialized.
func NormalizeOriginPath(originPath string) (string, error) {
	p := strings.TrimSpace(originPath)
	if !strings.HasPrefix(p, "m") {
		p = "m" + p
	}
	path, err := ParseDerivationPath(p)
	if err != nil {
		return "", err
	}
	return path.String(), nil
}

// MaxAddressIndex is the highest non hardened receive index.
const MaxAddressIndex uint32 = hdkeychain.HardenedKeyStart - 1

// ValidateAddressIndexRange checks that count contiguous receive indexes
// starting from start are all non hardened.
func ValidateAddressIndexRange(start uint32, count int) error {
	if count <= 0 {
		return nil
	}
	if uint64(start)+uint64(count)-1 > uint64(MaxAddressIndex) {
		return ErrAddressIndexOutOfRange
	}
	return nil
}

// RelativePath returns the receive path, relative to an account level
// extended key, of the address with the given index.
func RelativePath(index uint32) string {
	return fmt.Sprintf("m/0/%d", index)
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if s == "" {
			return true
		}
	}
	return false
}
