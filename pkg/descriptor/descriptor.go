package descriptor

import (
	"regexp"
	"strings"
)

// The key expression of a single key descriptor as exported by bitcoind:
// [<master fingerprint>/<purpose>h/<coin type>h/<account>h]<extended key>
var rxKeyOrigin = regexp.MustCompile(
	`\[([0-9a-fA-F]{8})(/[0-9]+['h]/[0-9]+['h]/[0-9]+['h])\]([a-zA-Z0-9]+)`,
)

// KeyOrigin holds the key material extracted from a descriptor.
type KeyOrigin struct {
	Fingerprint       string `json:"fingerprint"`
	DerivationPath    string `json:"derivationPath"`
	ExtendedPublicKey string `json:"extendedPublicKey"`
}

// Decode extracts fingerprint, account derivation path and extended key from
// the first key expression of the descriptor. Returned substrings are exactly
// those found in the descriptor.
func Decode(desc string) (KeyOrigin, error) {
	m := rxKeyOrigin.FindStringSubmatch(desc)
	if m == nil {
		return KeyOrigin{}, &FormatError{Descriptor: desc}
	}
	return KeyOrigin{
		Fingerprint:       m[1],
		DerivationPath:    m[2],
		ExtendedPublicKey: m[3],
	}, nil
}

// Entry is one of the descriptors of a wallet, as listed by listdescriptors.
type Entry struct {
	Desc     string `json:"desc"`
	Active   bool   `json:"active"`
	Internal bool   `json:"internal"`
}

// Select returns the canonical external descriptor among the given ones:
// the first non internal entry whose script template is the one of the
// policy.
func Select(entries []Entry, policy Policy) (Entry, error) {
	for _, e := range entries {
		if e.Internal {
			continue
		}
		if strings.HasPrefix(e.Desc, policy.ScriptPrefix) {
			return e, nil
		}
	}
	return Entry{}, &FormatError{NoCandidate: true, ScriptPrefix: policy.ScriptPrefix}
}

// SelectAndDecode is the shorthand for Select followed by Decode.
func SelectAndDecode(entries []Entry, policy Policy) (Entry, KeyOrigin, error) {
	entry, err := Select(entries, policy)
	if err != nil {
		return Entry{}, KeyOrigin{}, err
	}
	origin, err := Decode(entry.Desc)
	if err != nil {
		return Entry{}, KeyOrigin{}, err
	}
	return entry, origin, nil
}

// StripChecksum removes the trailing #checksum, if any.
func StripChecksum(desc string) string {
	if i := strings.LastIndex(desc, "#"); i >= 0 {
		return desc[:i]
	}
	return desc
}

// Describe returns a human readable name for the script template of the
// descriptor.
func Describe(desc string) string {
	core := StripChecksum(desc)

	switch {
	case strings.HasPrefix(core, "wpkh("):
		return "native segwit single key"
	case strings.HasPrefix(core, "sh(wpkh("):
		return "p2sh-wrapped segwit single key"
	case strings.HasPrefix(core, "pkh("):
		return "legacy single key"
	case strings.HasPrefix(core, "tr("):
		return "taproot single key"
	case strings.HasPrefix(core, "wsh(multi("), strings.HasPrefix(core, "wsh(sortedmulti("):
		return "native segwit multisig"
	case strings.HasPrefix(core, "addr("):
		return "address"
	default:
		return "unknown"
	}
}
