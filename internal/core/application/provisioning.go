package application

import (
	"context"
	"fmt"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/cascade-wallet/cascade-daemon/pkg/descriptor"
	log "github.com/sirupsen/logrus"
)

// ProvisioningService takes care of the node side of a signer wallet: it
// makes sure the wallet exists and is loaded, then extracts its key material
// out of the canonical descriptor.
type ProvisioningService struct {
	node   ports.NodeWallet
	policy descriptor.Policy
}

// NewProvisioningService ...
func NewProvisioningService(
	node ports.NodeWallet, policy descriptor.Policy,
) *ProvisioningService {
	return &ProvisioningService{node, policy}
}

// ProvisionWallet provisions a single signer wallet.
func (p *ProvisioningService) ProvisionWallet(
	ctx context.Context, name string,
) (domain.KeyMaterial, error) {
	logger := log.WithField("wallet", name)

	if err := ensureWallet(ctx, p.node, name, createSignerWallet(p.node)); err != nil {
		return domain.KeyMaterial{}, err
	}

	var entries []bitcoind.DescriptorEntry
	if err := withWalletLoaded(ctx, p.node, name, func() (err error) {
		entries, err = p.node.ListDescriptors(ctx, name)
		return
	}); err != nil {
		return domain.KeyMaterial{}, err
	}

	list := make([]descriptor.Entry, 0, len(entries))
	for _, e := range entries {
		list = append(list, descriptor.Entry{
			Desc:     e.Desc,
			Active:   e.Active,
			Internal: e.Internal,
		})
	}

	entry, origin, err := descriptor.SelectAndDecode(list, p.policy)
	if err != nil {
		return domain.KeyMaterial{}, fmt.Errorf("wallet %s: %w", name, err)
	}
	logger.Debugf("selected %s descriptor", descriptor.Describe(entry.Desc))

	return domain.KeyMaterial{
		Descriptor:        entry.Desc,
		Fingerprint:       origin.Fingerprint,
		DerivationPath:    origin.DerivationPath,
		ExtendedPublicKey: origin.ExtendedPublicKey,
	}, nil
}

// SignerResult is the outcome of provisioning one signer wallet.
type SignerResult struct {
	Name   string
	Status domain.SignerStatus
	Key    *domain.KeyMaterial
	Err    error
}

// ProvisionWallets provisions the named wallets one after the other. The
// failure of a wallet does not prevent the others from being provisioned.
// onResult, if not nil, is called right after every wallet is done.
func (p *ProvisioningService) ProvisionWallets(
	ctx context.Context, names []string, onResult func(SignerResult),
) []SignerResult {
	results := make([]SignerResult, 0, len(names))
	for _, name := range names {
		res := SignerResult{Name: name}

		key, err := p.ProvisionWallet(ctx, name)
		if err != nil {
			log.WithField("wallet", name).WithError(err).Warn(
				"failed to provision signer wallet",
			)
			res.Status = domain.SignerFailed
			res.Err = err
		} else {
			log.WithField("wallet", name).Info("signer wallet provisioned")
			res.Status = domain.SignerProvisioned
			res.Key = &key
		}

		if onResult != nil {
			onResult(res)
		}
		results = append(results, res)
	}
	return results
}
