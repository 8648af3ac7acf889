package domain

import (
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
)

// MaxSigners is the maximum number of keys of the multisig.
const MaxSigners = multisig.MaxPublicKeys

// Quorum is the M-of-N signing policy of the multisig wallet.
type Quorum struct {
	RequiredSigners int                  `json:"requiredSigners"`
	TotalSigners    int                  `json:"totalSigners"`
	AddressType     multisig.AddressType `json:"addressType"`
	Network         multisig.Network     `json:"network"`
}

// NewQuorum returns a validated quorum.
func NewQuorum(
	required, total int, addrType multisig.AddressType, net multisig.Network,
) (*Quorum, error) {
	if _, err := multisig.ParseAddressType(string(addrType)); err != nil {
		return nil, err
	}
	if _, err := net.Params(); err != nil {
		return nil, err
	}
	q := &Quorum{
		AddressType: addrType,
		Network:     net,
	}
	if err := q.SetTotalSigners(total); err != nil {
		return nil, err
	}
	if err := q.SetRequiredSigners(required); err != nil {
		return nil, err
	}
	return q, nil
}

// SetRequiredSigners rejects any value outside [1, TotalSigners].
func (q *Quorum) SetRequiredSigners(required int) error {
	if required < 1 || required > q.TotalSigners {
		return ErrInvalidQuorum
	}
	q.RequiredSigners = required
	return nil
}

// SetTotalSigners updates the number of signers and clamps the required ones
// so that they never exceed the total.
func (q *Quorum) SetTotalSigners(total int) error {
	if total < 1 || total > MaxSigners {
		return ErrInvalidTotalSigners
	}
	q.TotalSigners = total
	if q.RequiredSigners > total {
		q.RequiredSigners = total
	}
	return nil
}

// Validate ...
func (q Quorum) Validate() error {
	if q.TotalSigners < 1 || q.TotalSigners > MaxSigners {
		return ErrInvalidTotalSigners
	}
	if q.RequiredSigners < 1 || q.RequiredSigners > q.TotalSigners {
		return ErrInvalidQuorum
	}
	return nil
}
