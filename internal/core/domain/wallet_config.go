package domain

import "github.com/cascade-wallet/cascade-daemon/pkg/multisig"

// ExtendedKey is one of the ordered signer keys of the multisig.
type ExtendedKey struct {
	Name        string `json:"name"`
	BIP32Path   string `json:"bip32Path"`
	Xpub        string `json:"xpub"`
	Fingerprint string `json:"fingerprint"`
}

// WalletSource tells how the signer keys of the multisig were obtained.
type WalletSource string

const (
	SourceProvisioned WalletSource = "provisioned"
	SourceManual      WalletSource = "manual"
	SourceImported    WalletSource = "imported"
)

// ClientInfo is the non secret connection metadata of an exported config.
type ClientInfo struct {
	URL        string
	Username   string
	WalletName string
}

// WalletConfig is the portable snapshot of a multisig wallet.
type WalletConfig struct {
	Name                 string
	AddressType          multisig.AddressType
	Network              multisig.Network
	Client               ClientInfo
	Quorum               Quorum
	ExtendedPublicKeys   []ExtendedKey
	StartingAddressIndex uint32
	AddressExplorerURL   string
}
