package domain

import (
	"fmt"
	"strings"
)

// SignerStatus is the provisioning status of a signer wallet.
type SignerStatus int

const (
	SignerUnprovisioned SignerStatus = iota
	SignerProvisioning
	SignerProvisioned
	SignerFailed
)

var signerStatusNames = map[SignerStatus]string{
	SignerUnprovisioned: "unprovisioned",
	SignerProvisioning:  "provisioning",
	SignerProvisioned:   "provisioned",
	SignerFailed:        "failed",
}

func (s SignerStatus) String() string {
	if name, ok := signerStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s SignerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SignerStatus) UnmarshalText(text []byte) error {
	for status, name := range signerStatusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown signer status %q", text)
}

// KeyMaterial is what gets extracted from the descriptor of a signer wallet.
// It is always set or cleared as a whole.
type KeyMaterial struct {
	Descriptor        string `json:"descriptor"`
	Fingerprint       string `json:"fingerprint"`
	DerivationPath    string `json:"derivationPath"`
	ExtendedPublicKey string `json:"extendedPublicKey"`
}

func (k KeyMaterial) validate() error {
	if k.Descriptor == "" || k.Fingerprint == "" ||
		k.DerivationPath == "" || k.ExtendedPublicKey == "" {
		return ErrIncompleteKeyMaterial
	}
	return nil
}

// SignerWallet is a node hosted wallet acting as one of the multisig signers.
type SignerWallet struct {
	Name      string       `json:"name"`
	Status    SignerStatus `json:"status"`
	Key       *KeyMaterial `json:"key,omitempty"`
	LastError string       `json:"lastError,omitempty"`
}

// NewSignerWallet returns an unprovisioned signer with the given name.
func NewSignerWallet(name string) (*SignerWallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptySignerName
	}
	return &SignerWallet{Name: name}, nil
}

// IsProvisioned ...
func (s *SignerWallet) IsProvisioned() bool {
	return s.Status == SignerProvisioned && s.Key != nil
}

// MarkProvisioning moves the signer to the in progress state and clears any
// previous error. A provisioned signer can't go back to provisioning.
func (s *SignerWallet) MarkProvisioning() error {
	if s.IsProvisioned() {
		return ErrSignerAlreadyProvisioned
	}
	s.Status = SignerProvisioning
	s.LastError = ""
	return nil
}

// MarkProvisioned sets the key material of the signer.
func (s *SignerWallet) MarkProvisioned(key KeyMaterial) error {
	if s.IsProvisioned() {
		return ErrSignerAlreadyProvisioned
	}
	if err := key.validate(); err != nil {
		return err
	}
	s.Key = &key
	s.Status = SignerProvisioned
	s.LastError = ""
	return nil
}

// MarkFailed records the reason of the failure. It is a no-op for a
// provisioned signer.
func (s *SignerWallet) MarkFailed(err error) {
	if s.IsProvisioned() {
		return
	}
	s.Status = SignerFailed
	s.Key = nil
	if err != nil {
		s.LastError = err.Error()
	}
}

// Rename is allowed only until the signer gets provisioned.
func (s *SignerWallet) Rename(name string) error {
	if s.IsProvisioned() {
		return ErrSignerAlreadyProvisioned
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptySignerName
	}
	s.Name = name
	return nil
}

// Reset brings the signer back to the unprovisioned state.
func (s *SignerWallet) Reset() {
	s.Status = SignerUnprovisioned
	s.Key = nil
	s.LastError = ""
}

// ExtendedKey returns the signer key in the form used to build the multisig.
func (s *SignerWallet) ExtendedKey(bip32Path string) (ExtendedKey, bool) {
	if !s.IsProvisioned() {
		return ExtendedKey{}, false
	}
	return ExtendedKey{
		Name:        s.Name,
		BIP32Path:   bip32Path,
		Xpub:        s.Key.ExtendedPublicKey,
		Fingerprint: s.Key.Fingerprint,
	}, true
}
