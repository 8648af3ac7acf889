package domain

import (
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
)

// DerivedAddress is one of the receiving addresses of the multisig wallet.
type DerivedAddress struct {
	Address      string `json:"address"`
	RelativePath string `json:"relativePath"`
	Index        uint32 `json:"index"`
	BalanceSats  int64  `json:"balanceSats"`
}

// AddressBook is the ordered list of derived addresses. Indexes are
// contiguous starting from StartIndex.
type AddressBook struct {
	StartIndex uint32           `json:"startIndex"`
	Addresses  []DerivedAddress `json:"addresses"`
}

// NewAddressBook ...
func NewAddressBook(startIndex uint32) AddressBook {
	return AddressBook{StartIndex: startIndex, Addresses: []DerivedAddress{}}
}

// NextIndex returns the index to be used for the next address.
func (b *AddressBook) NextIndex() uint32 {
	return b.StartIndex + uint32(len(b.Addresses))
}

// Add appends the address to the book. Its index must be the next one.
func (b *AddressBook) Add(addr DerivedAddress) error {
	if addr.Index != b.NextIndex() {
		return ErrNonContiguousIndex
	}
	if addr.RelativePath == "" {
		addr.RelativePath = multisig.RelativePath(addr.Index)
	}
	for _, a := range b.Addresses {
		if a.Address == addr.Address || a.RelativePath == addr.RelativePath {
			return ErrDuplicateAddress
		}
	}
	if addr.BalanceSats < 0 {
		return ErrNegativeBalance
	}
	b.Addresses = append(b.Addresses, addr)
	return nil
}

// UpdateBalance ...
func (b *AddressBook) UpdateBalance(address string, sats int64) error {
	if sats < 0 {
		return ErrNegativeBalance
	}
	for i := range b.Addresses {
		if b.Addresses[i].Address == address {
			b.Addresses[i].BalanceSats = sats
			return nil
		}
	}
	return ErrAddressNotFound
}

// Deposit returns the first address of the book, if any.
func (b *AddressBook) Deposit() (DerivedAddress, bool) {
	if len(b.Addresses) <= 0 {
		return DerivedAddress{}, false
	}
	return b.Addresses[0], true
}

// Contains ...
func (b *AddressBook) Contains(address string) bool {
	for _, a := range b.Addresses {
		if a.Address == address {
			return true
		}
	}
	return false
}

// TotalBalance returns the sum of the balances of all addresses.
func (b *AddressBook) TotalBalance() int64 {
	var total int64
	for _, a := range b.Addresses {
		total += a.BalanceSats
	}
	return total
}

// Len ...
func (b *AddressBook) Len() int {
	return len(b.Addresses)
}
