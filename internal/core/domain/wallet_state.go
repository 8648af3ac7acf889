package domain

import (
	"strconv"
	"strings"
)

// DefaultWalletName is the name given to the multisig wallet when none is
// provided.
const DefaultWalletName = "Bitcoin Multisig Wallet"

// WalletState is the aggregate holding the whole bootstrap workflow state:
// connection, signers, quorum, keys and, once created, the multisig
// addresses and transactions.
type WalletState struct {
	Name         string          `json:"name"`
	Connection   Connection      `json:"connection"`
	Signers      []*SignerWallet `json:"signers"`
	Quorum       Quorum          `json:"quorum"`
	Keys         []ExtendedKey   `json:"keys"`
	Source       WalletSource    `json:"source,omitempty"`
	Created      bool            `json:"created"`
	Addresses    AddressBook     `json:"addresses"`
	Transactions []Transaction   `json:"transactions"`
	// Number used to build the name of the watch-only wallet tracking the
	// multisig addresses on the node, ie. watcher1.
	WatchOnlyWalletNumber int    `json:"watchOnlyWalletNumber"`
	ExplorerURL           string `json:"explorerUrl"`
	UpdatedAt             int64  `json:"updatedAt"`
}

// NewWalletState returns the initial state, with a signer for each of the
// given names and the total signers of the quorum matching them.
func NewWalletState(
	signerNames []string, quorum Quorum, startIndex uint32, explorerURL string,
) (*WalletState, error) {
	w := &WalletState{
		Name:                  DefaultWalletName,
		Quorum:                quorum,
		Addresses:             NewAddressBook(startIndex),
		Transactions:          []Transaction{},
		WatchOnlyWalletNumber: 1,
		ExplorerURL:           explorerURL,
	}
	if err := w.ResetSigners(signerNames); err != nil {
		return nil, err
	}
	return w, nil
}

// Signer returns the signer with the given name.
func (w *WalletState) Signer(name string) (*SignerWallet, error) {
	for _, s := range w.Signers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, ErrSignerNotFound
}

// SignerNames returns the names of the signers in their configured order.
func (w *WalletState) SignerNames() []string {
	names := make([]string, 0, len(w.Signers))
	for _, s := range w.Signers {
		names = append(names, s.Name)
	}
	return names
}

// AddSigner appends a new unprovisioned signer.
func (w *WalletState) AddSigner(name string) error {
	if w.Created {
		return ErrWalletAlreadyCreated
	}
	signer, err := NewSignerWallet(name)
	if err != nil {
		return err
	}
	if _, err := w.Signer(signer.Name); err == nil {
		return ErrDuplicateSigner
	}
	if len(w.Signers)+1 > MaxSigners {
		return ErrTooManySigners
	}
	w.Signers = append(w.Signers, signer)
	return w.Quorum.SetTotalSigners(len(w.Signers))
}

// RemoveSigner removes the signer, refusing to go below minSigners.
func (w *WalletState) RemoveSigner(name string, minSigners int) error {
	if w.Created {
		return ErrWalletAlreadyCreated
	}
	for i, s := range w.Signers {
		if s.Name != name {
			continue
		}
		if len(w.Signers)-1 < minSigners {
			return ErrTooFewSigners
		}
		w.Signers = append(w.Signers[:i], w.Signers[i+1:]...)
		return w.Quorum.SetTotalSigners(len(w.Signers))
	}
	return ErrSignerNotFound
}

// RenameSigner ...
func (w *WalletState) RenameSigner(oldName, newName string) error {
	signer, err := w.Signer(oldName)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName != oldName {
		if _, err := w.Signer(newName); err == nil {
			return ErrDuplicateSigner
		}
	}
	return signer.Rename(newName)
}

// ResetSigners replaces the signer list with unprovisioned signers.
func (w *WalletState) ResetSigners(names []string) error {
	if len(names) > MaxSigners {
		return ErrTooManySigners
	}
	signers := make([]*SignerWallet, 0, len(names))
	seen := make(map[string]struct{})
	for _, n := range names {
		s, err := NewSignerWallet(n)
		if err != nil {
			return err
		}
		if _, ok := seen[s.Name]; ok {
			return ErrDuplicateSigner
		}
		seen[s.Name] = struct{}{}
		signers = append(signers, s)
	}
	w.Signers = signers
	if len(signers) > 0 {
		return w.Quorum.SetTotalSigners(len(signers))
	}
	return nil
}

// ProvisionedSigners returns the provisioned signers in configured order.
func (w *WalletState) ProvisionedSigners() []*SignerWallet {
	signers := make([]*SignerWallet, 0, len(w.Signers))
	for _, s := range w.Signers {
		if s.IsProvisioned() {
			signers = append(signers, s)
		}
	}
	return signers
}

// SetKeys defines the ordered signer keys of the multisig and adapts the
// quorum total to their number.
func (w *WalletState) SetKeys(keys []ExtendedKey, source WalletSource) error {
	if w.Created {
		return ErrWalletAlreadyCreated
	}
	if err := w.Quorum.SetTotalSigners(len(keys)); err != nil {
		return err
	}
	w.Keys = append([]ExtendedKey(nil), keys...)
	w.Source = source
	return nil
}

// MarkCreated flags the multisig as created, from now on the wallet only
// grows its address book and transaction list.
func (w *WalletState) MarkCreated() error {
	if w.Created {
		return ErrWalletAlreadyCreated
	}
	if err := w.Quorum.Validate(); err != nil {
		return err
	}
	if len(w.Keys) != w.Quorum.TotalSigners {
		return ErrInvalidTotalSigners
	}
	w.Created = true
	return nil
}

// AddTransaction records the transaction as the most recent one.
func (w *WalletState) AddTransaction(tx Transaction) {
	w.Transactions = append([]Transaction{tx}, w.Transactions...)
}

// WatchOnlyWalletName ...
func (w *WalletState) WatchOnlyWalletName(prefix string) string {
	n := w.WatchOnlyWalletNumber
	if n <= 0 {
		n = 1
	}
	return prefix + strconv.Itoa(n)
}

// Reset discards everything but the connection.
func (w *WalletState) Reset(signerNames []string, quorum Quorum, startIndex uint32) error {
	fresh, err := NewWalletState(signerNames, quorum, startIndex, w.ExplorerURL)
	if err != nil {
		return err
	}
	fresh.Connection = w.Connection
	*w = *fresh
	return nil
}

// Clone returns a deep copy of the state.
func (w *WalletState) Clone() *WalletState {
	if w == nil {
		return nil
	}
	c := *w
	c.Signers = make([]*SignerWallet, 0, len(w.Signers))
	for _, s := range w.Signers {
		sc := *s
		if s.Key != nil {
			k := *s.Key
			sc.Key = &k
		}
		c.Signers = append(c.Signers, &sc)
	}
	c.Keys = append([]ExtendedKey(nil), w.Keys...)
	c.Addresses.Addresses = append([]DerivedAddress{}, w.Addresses.Addresses...)
	c.Transactions = append([]Transaction{}, w.Transactions...)
	return &c
}
