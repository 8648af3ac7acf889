package application

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
)

const (
	clientTypePrivate = "private"
	keyMethodText     = "text"
	importedWallet    = "Imported Wallet"
)

// The JSON layout of the config file shared with external multisig
// coordinators. Field names must not change.
type walletConfigFile struct {
	Name                 string                  `json:"name"`
	UUID                 string                  `json:"uuid"`
	AddressType          string                  `json:"addressType"`
	Network              string                  `json:"network"`
	Client               *clientFile             `json:"client,omitempty"`
	Quorum               *quorumFile             `json:"quorum"`
	ExtendedPublicKeys   []extendedPublicKeyFile `json:"extendedPublicKeys"`
	StartingAddressIndex uint32                  `json:"startingAddressIndex"`
	AddressExplorerURL   string                  `json:"addressExplorerUrl"`
}

type clientFile struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	Username   string `json:"username"`
	WalletName string `json:"walletName"`
}

type quorumFile struct {
	RequiredSigners int `json:"requiredSigners"`
	TotalSigners    int `json:"totalSigners"`
}

type extendedPublicKeyFile struct {
	Name        string `json:"name"`
	BIP32Path   string `json:"bip32Path"`
	Xpub        string `json:"xpub"`
	XFP         string `json:"xfp"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Method      string `json:"method"`
}

// ExportConfig serializes the wallet config to the shared JSON layout.
func ExportConfig(cfg domain.WalletConfig) ([]byte, error) {
	keys := make([]extendedPublicKeyFile, 0, len(cfg.ExtendedPublicKeys))
	for _, k := range cfg.ExtendedPublicKeys {
		keys = append(keys, extendedPublicKeyFile{
			Name:      k.Name,
			BIP32Path: k.BIP32Path,
			Xpub:      k.Xpub,
			XFP:       k.Fingerprint,
			Method:    keyMethodText,
		})
	}

	file := walletConfigFile{
		Name:        cfg.Name,
		UUID:        "",
		AddressType: cfg.AddressType.String(),
		Network:     cfg.Network.String(),
		Client: &clientFile{
			Type:       clientTypePrivate,
			URL:        cfg.Client.URL,
			Username:   cfg.Client.Username,
			WalletName: cfg.Client.WalletName,
		},
		Quorum: &quorumFile{
			RequiredSigners: cfg.Quorum.RequiredSigners,
			TotalSigners:    cfg.Quorum.TotalSigners,
		},
		ExtendedPublicKeys:   keys,
		StartingAddressIndex: cfg.StartingAddressIndex,
		AddressExplorerURL:   cfg.AddressExplorerURL,
	}
	return json.MarshalIndent(file, "", "  ")
}

// ImportConfig parses and validates a config in the shared JSON layout. The
// config is rejected as a whole if anything is wrong. Keys keep the order
// they have in the file. Network and address type default to the given ones
// when missing.
func ImportConfig(
	data []byte, defaultNet multisig.Network, defaultAddrType multisig.AddressType,
) (*domain.WalletConfig, error) {
	file := walletConfigFile{}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &ConfigFormatError{Reason: fmt.Sprintf("malformed json: %s", err)}
	}
	if file.Quorum == nil {
		return nil, &ConfigFormatError{Reason: "missing quorum"}
	}
	if file.ExtendedPublicKeys == nil {
		return nil, &ConfigFormatError{Reason: "missing extendedPublicKeys"}
	}
	if len(file.ExtendedPublicKeys) == 0 {
		return nil, &ConfigFormatError{Reason: "extendedPublicKeys must not be empty"}
	}

	net := defaultNet
	if file.Network != "" {
		n, err := multisig.ParseNetwork(file.Network)
		if err != nil {
			return nil, &ConfigFormatError{Reason: err.Error()}
		}
		net = n
	}
	addrType := defaultAddrType
	if file.AddressType != "" {
		t, err := multisig.ParseAddressType(file.AddressType)
		if err != nil {
			return nil, &ConfigFormatError{Reason: err.Error()}
		}
		addrType = t
	}

	if file.Quorum.TotalSigners != len(file.ExtendedPublicKeys) {
		return nil, &ConfigFormatError{Reason: fmt.Sprintf(
			"quorum total signers %d does not match the %d extended public keys",
			file.Quorum.TotalSigners, len(file.ExtendedPublicKeys),
		)}
	}
	quorum, err := domain.NewQuorum(
		file.Quorum.RequiredSigners, file.Quorum.TotalSigners, addrType, net,
	)
	if err != nil {
		return nil, &ConfigFormatError{Reason: err.Error()}
	}

	if file.StartingAddressIndex > multisig.MaxAddressIndex {
		return nil, &ConfigFormatError{Reason: fmt.Sprintf(
			"startingAddressIndex must not exceed %d", multisig.MaxAddressIndex,
		)}
	}

	keys := make([]domain.ExtendedKey, 0, len(file.ExtendedPublicKeys))
	seen := make(map[string]struct{})
	for i, k := range file.ExtendedPublicKeys {
		key, err := parseExtendedPublicKeyFile(i, k, net)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[key.Xpub]; ok {
			return nil, &ConfigFormatError{
				Reason: fmt.Sprintf("extended public key %d is a duplicate", i+1),
			}
		}
		seen[key.Xpub] = struct{}{}
		keys = append(keys, key)
	}

	name := file.Name
	if name == "" {
		name = importedWallet
	}

	cfg := &domain.WalletConfig{
		Name:                 name,
		AddressType:          addrType,
		Network:              net,
		Quorum:               *quorum,
		ExtendedPublicKeys:   keys,
		StartingAddressIndex: file.StartingAddressIndex,
		AddressExplorerURL:   file.AddressExplorerURL,
	}
	if file.Client != nil {
		cfg.Client = domain.ClientInfo{
			URL:        file.Client.URL,
			Username:   file.Client.Username,
			WalletName: file.Client.WalletName,
		}
	}
	return cfg, nil
}

func parseExtendedPublicKeyFile(
	i int, k extendedPublicKeyFile, net multisig.Network,
) (domain.ExtendedKey, error) {
	fail := func(format string, a ...interface{}) (domain.ExtendedKey, error) {
		return domain.ExtendedKey{}, &ConfigFormatError{
			Reason: fmt.Sprintf("extended public key %d: ", i+1) + fmt.Sprintf(format, a...),
		}
	}

	xpub := strings.TrimSpace(k.Xpub)
	if reason := multisig.ValidateExtendedPublicKey(xpub, net); reason != "" {
		return fail("%s", reason)
	}
	if reason := multisig.ValidateBIP32Path(k.BIP32Path); reason != "" {
		return fail("%s", reason)
	}

	fingerprint := strings.TrimSpace(k.XFP)
	if fingerprint == "" {
		fingerprint = strings.TrimSpace(k.Fingerprint)
	}
	if err := validateFingerprint(fingerprint); err != nil {
		return fail("%s", err)
	}

	name := k.Name
	if name == "" {
		name = fmt.Sprintf("Extended Public Key %d", i+1)
	}
	return domain.ExtendedKey{
		Name:        name,
		BIP32Path:   k.BIP32Path,
		Xpub:        xpub,
		Fingerprint: fingerprint,
	}, nil
}

// validateFingerprint accepts an empty fingerprint, keys entered by hand
// may come without origin info.
func validateFingerprint(fingerprint string) error {
	if fingerprint == "" {
		return nil
	}
	if len(fingerprint) != 8 {
		return fmt.Errorf("fingerprint must be 8 hex characters")
	}
	if _, err := hex.DecodeString(fingerprint); err != nil {
		return fmt.Errorf("fingerprint must be 8 hex characters")
	}
	return nil
}
