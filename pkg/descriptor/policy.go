package descriptor

import "fmt"

// DefaultScriptPrefix is the template of the external descriptor bitcoind
// creates for the nested segwit receive chain of a descriptor wallet.
const DefaultScriptPrefix = "sh(wpkh("

var supportedScriptPrefixes = map[string]struct{}{
	"sh(wpkh(": {},
	"wpkh(":    {},
	"pkh(":     {},
	"tr(":      {},
}

// Policy defines which descriptor of a wallet represents the signer key.
// Exactly one script template is matched, there is no fallback.
type Policy struct {
	ScriptPrefix string
}

// DefaultPolicy ...
var DefaultPolicy = Policy{ScriptPrefix: DefaultScriptPrefix}

// NewPolicy returns a policy matching the given script template.
func NewPolicy(scriptPrefix string) (Policy, error) {
	if _, ok := supportedScriptPrefixes[scriptPrefix]; !ok {
		return Policy{}, fmt.Errorf(
			"%w: unsupported descriptor script template %q",
			ErrDescriptorFormat, scriptPrefix,
		)
	}
	return Policy{ScriptPrefix: scriptPrefix}, nil
}
