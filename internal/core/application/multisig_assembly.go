package application

import (
	"context"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"golang.org/x/sync/errgroup"
)

// MultisigService derives the receiving addresses of the multisig out of the
// ordered signer keys.
type MultisigService struct {
	network  multisig.Network
	addrType multisig.AddressType
}

// NewMultisigService ...
func NewMultisigService(
	net multisig.Network, addrType multisig.AddressType,
) *MultisigService {
	return &MultisigService{net, addrType}
}

// DeriveAddress derives the child key of every signer at relPath and builds
// the multisig out of them, keeping signers order.
func (m *MultisigService) DeriveAddress(
	keys []domain.ExtendedKey, threshold int, relPath string,
) (*multisig.Multisig, error) {
	pubkeys := make([]string, 0, len(keys))
	for _, k := range keys {
		pubkey, err := multisig.DeriveChildPublicKey(k.Xpub, relPath, m.network)
		if err != nil {
			return nil, &KeyDerivationError{Signer: k.Name, Path: relPath, Err: err}
		}
		pubkeys = append(pubkeys, pubkey)
	}
	return multisig.GenerateMultisigFromPublicKeys(
		m.network, m.addrType, threshold, pubkeys...,
	)
}

// GenerateAddressBatch derives count contiguous addresses starting from
// startIndex. Derivations run concurrently but every address is assigned the
// index of its slot, so the result is always ordered and gapless. If any
// derivation fails the whole batch is discarded.
func (m *MultisigService) GenerateAddressBatch(
	ctx context.Context, keys []domain.ExtendedKey, threshold int,
	startIndex uint32, count int,
) ([]domain.DerivedAddress, error) {
	if count <= 0 {
		return []domain.DerivedAddress{}, nil
	}
	if err := multisig.ValidateAddressIndexRange(startIndex, count); err != nil {
		return nil, err
	}

	slots := make([]domain.DerivedAddress, count)
	eg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			index := startIndex + uint32(i)
			path := multisig.RelativePath(index)

			ms, err := m.DeriveAddress(keys, threshold, path)
			if err != nil {
				return err
			}
			slots[i] = domain.DerivedAddress{
				Address:      ms.Address,
				RelativePath: path,
				Index:        index,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}
