package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	log "github.com/sirupsen/logrus"
)

// Signers returns the signer wallets in their configured order.
func (s *WalletService) Signers(_ context.Context) []domain.SignerWallet {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return copySigners(s.state.Signers)
}

// AddSigner ...
func (s *WalletService) AddSigner(
	ctx context.Context, name string,
) ([]domain.SignerWallet, error) {
	return s.updateSigners(ctx, func(w *domain.WalletState) error {
		return w.AddSigner(name)
	})
}

// RemoveSigner removes the signer, never going below the minimum number of
// signers required to build the multisig.
func (s *WalletService) RemoveSigner(
	ctx context.Context, name string,
) ([]domain.SignerWallet, error) {
	return s.updateSigners(ctx, func(w *domain.WalletState) error {
		return w.RemoveSigner(name, s.cfg.MinProvisionedSigners)
	})
}

// RenameSigner renames a signer not provisioned yet.
func (s *WalletService) RenameSigner(
	ctx context.Context, oldName, newName string,
) ([]domain.SignerWallet, error) {
	return s.updateSigners(ctx, func(w *domain.WalletState) error {
		return w.RenameSigner(oldName, newName)
	})
}

func (s *WalletService) updateSigners(
	ctx context.Context, fn func(w *domain.WalletState) error,
) ([]domain.SignerWallet, error) {
	// The signer list must not change while wallets are being provisioned.
	if s.isInFlight(opProvision) {
		return nil, ErrOperationInProgress
	}
	state, err := s.mutate(ctx, fn)
	if err != nil {
		return nil, err
	}
	signers := copySigners(state.Signers)
	s.publish(EventSignersChanged, signers)
	return signers, nil
}

// ProvisionWallets provisions every signer wallet not provisioned yet. It
// returns once all of them reached either the provisioned or failed status.
// A failure is recorded in the signer and doesn't stop the others.
func (s *WalletService) ProvisionWallets(
	ctx context.Context,
) ([]domain.SignerWallet, error) {
	release, err := s.acquire(opProvision)
	if err != nil {
		return nil, err
	}
	defer release()

	_, _, state, err := s.session()
	if err != nil {
		return nil, err
	}
	if state.Created {
		return nil, domain.ErrWalletAlreadyCreated
	}

	names := make([]string, 0, len(state.Signers))
	for _, signer := range state.Signers {
		if !signer.IsProvisioned() {
			names = append(names, signer.Name)
		}
	}
	return s.provision(ctx, names)
}

// RetrySigner provisions again a single signer wallet, usually one that
// previously failed.
func (s *WalletService) RetrySigner(
	ctx context.Context, name string,
) (*domain.SignerWallet, error) {
	release, err := s.acquire(opProvision)
	if err != nil {
		return nil, err
	}
	defer release()

	_, _, state, err := s.session()
	if err != nil {
		return nil, err
	}
	signer, err := state.Signer(name)
	if err != nil {
		return nil, err
	}
	if signer.IsProvisioned() {
		return nil, domain.ErrSignerAlreadyProvisioned
	}

	signers, err := s.provision(ctx, []string{name})
	if err != nil {
		return nil, err
	}
	for _, sw := range signers {
		if sw.Name == name {
			return &sw, nil
		}
	}
	return nil, domain.ErrSignerNotFound
}

func (s *WalletService) provision(
	ctx context.Context, names []string,
) ([]domain.SignerWallet, error) {
	node, gen, _, err := s.session()
	if err != nil {
		return nil, err
	}

	state, err := s.commit(ctx, gen, func(w *domain.WalletState) error {
		for _, name := range names {
			signer, err := w.Signer(name)
			if err != nil {
				return err
			}
			if err := signer.MarkProvisioning(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		s.publish(EventSignerStatus, signerEvent(state, name))
	}

	var staleErr error
	svc := NewProvisioningService(node, s.cfg.DescriptorPolicy)
	svc.ProvisionWallets(ctx, names, func(res SignerResult) {
		if staleErr != nil {
			return
		}
		state, err := s.commit(ctx, gen, func(w *domain.WalletState) error {
			signer, err := w.Signer(res.Name)
			if err != nil {
				return err
			}
			if res.Err != nil {
				signer.MarkFailed(res.Err)
				return nil
			}
			return signer.MarkProvisioned(*res.Key)
		})
		if err != nil {
			if errors.Is(err, ErrStaleWorkflow) {
				log.WithField("wallet", res.Name).Debug(
					"discarding provisioning result of stale workflow",
				)
				staleErr = err
				return
			}
			log.WithField("wallet", res.Name).WithError(err).Warn(
				"failed to record provisioning result",
			)
			return
		}
		s.publish(EventSignerStatus, signerEvent(state, res.Name))
	})
	if staleErr != nil {
		return nil, staleErr
	}

	return s.Signers(ctx), nil
}

// ClearWallets abandons the current workflow: every signer wallet is
// unloaded from the node, failures are only logged, and the signers are
// reset to the default ones.
func (s *WalletService) ClearWallets(ctx context.Context) error {
	release, err := s.acquire(opClear)
	if err != nil {
		return err
	}
	defer release()

	s.lock.Lock()
	s.generation++
	node := s.node
	names := s.state.SignerNames()
	s.lock.Unlock()

	if node != nil {
		for _, name := range names {
			if err := node.UnloadWallet(ctx, name); err != nil {
				log.WithField("wallet", name).WithError(err).Warn(
					"failed to unload wallet",
				)
			}
		}
	}

	state, err := s.mutate(ctx, s.resetState)
	if err != nil {
		return err
	}

	log.Info("signer wallets cleared")
	s.publish(EventSignersChanged, copySigners(state.Signers))
	return nil
}

// SetQuorum updates the required signers and, if not empty, the address
// type of the multisig to be created.
func (s *WalletService) SetQuorum(
	ctx context.Context, required int, addrType multisig.AddressType,
) (*domain.Quorum, error) {
	state, err := s.mutate(ctx, func(w *domain.WalletState) error {
		if w.Created {
			return domain.ErrWalletAlreadyCreated
		}
		if addrType != "" {
			t, err := multisig.ParseAddressType(string(addrType))
			if err != nil {
				return err
			}
			w.Quorum.AddressType = t
		}
		return w.Quorum.SetRequiredSigners(required)
	})
	if err != nil {
		return nil, err
	}
	s.publish(EventQuorumChanged, state.Quorum)
	return &state.Quorum, nil
}

// CreateMultisig builds the multisig out of the provisioned signers, in
// their configured order, and derives the initial batch of addresses, the
// first one being the deposit address.
func (s *WalletService) CreateMultisig(ctx context.Context) (*Status, error) {
	release, err := s.acquire(opCreate)
	if err != nil {
		return nil, err
	}
	defer release()

	if s.isInFlight(opProvision) {
		return nil, ErrOperationInProgress
	}

	gen, state := s.snapshot()
	if state.Created {
		return nil, domain.ErrWalletAlreadyCreated
	}
	provisioned := state.ProvisionedSigners()
	if len(provisioned) < s.cfg.MinProvisionedSigners {
		return nil, fmt.Errorf(
			"%w: %d provisioned, %d required", ErrNotEnoughProvisionedSigners,
			len(provisioned), s.cfg.MinProvisionedSigners,
		)
	}

	keys := make([]domain.ExtendedKey, 0, len(provisioned))
	for _, signer := range provisioned {
		path, err := multisig.NormalizeOriginPath(signer.Key.DerivationPath)
		if err != nil {
			return nil, &KeyDerivationError{
				Signer: signer.Name, Path: signer.Key.DerivationPath, Err: err,
			}
		}
		key, _ := signer.ExtendedKey(path)
		keys = append(keys, key)
	}

	quorum := state.Quorum
	if len(keys) < quorum.RequiredSigners {
		return nil, fmt.Errorf(
			"%w: %d signers required, %d provisioned", domain.ErrInvalidQuorum,
			quorum.RequiredSigners, len(keys),
		)
	}
	if err := quorum.SetTotalSigners(len(keys)); err != nil {
		return nil, err
	}

	return s.assemble(ctx, gen, assembly{
		name:       state.Name,
		keys:       keys,
		quorum:     quorum,
		source:     domain.SourceProvisioned,
		startIndex: state.Addresses.StartIndex,
	})
}

// ManualSetup builds the multisig out of externally provided keys, skipping
// the provisioning of signer wallets on the node.
func (s *WalletService) ManualSetup(
	ctx context.Context, keys []domain.ExtendedKey, required int,
	addrType multisig.AddressType,
) (*Status, error) {
	release, err := s.acquire(opCreate)
	if err != nil {
		return nil, err
	}
	defer release()

	gen, state := s.snapshot()
	if state.Created {
		return nil, domain.ErrWalletAlreadyCreated
	}
	if addrType == "" {
		addrType = state.Quorum.AddressType
	}
	if err := validateKeys(keys, s.cfg.Network); err != nil {
		return nil, err
	}
	quorum, err := domain.NewQuorum(required, len(keys), addrType, s.cfg.Network)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, gen, assembly{
		name:       state.Name,
		keys:       keys,
		quorum:     *quorum,
		source:     domain.SourceManual,
		startIndex: state.Addresses.StartIndex,
	})
}

// ExportConfig returns the config of the created multisig in the portable
// JSON layout. The connection password is never exported.
func (s *WalletService) ExportConfig(_ context.Context) ([]byte, error) {
	s.lock.RLock()
	w := s.state.Clone()
	s.lock.RUnlock()

	if !w.Created {
		return nil, domain.ErrWalletNotCreated
	}

	cfg := domain.WalletConfig{
		Name:        w.Name,
		AddressType: w.Quorum.AddressType,
		Network:     w.Quorum.Network,
		Client: domain.ClientInfo{
			URL:        w.Connection.URL(),
			Username:   w.Connection.Username,
			WalletName: w.WatchOnlyWalletName(s.cfg.WatchOnlyWalletPrefix),
		},
		Quorum:               w.Quorum,
		ExtendedPublicKeys:   w.Keys,
		StartingAddressIndex: w.Addresses.StartIndex,
		AddressExplorerURL:   w.ExplorerURL,
	}
	return ExportConfig(cfg)
}

// ImportConfig replaces the current workflow with the imported multisig.
// The deposit address and the initial address batch are derived before
// touching the state, so an inconsistent config leaves it unchanged.
func (s *WalletService) ImportConfig(
	ctx context.Context, data []byte,
) (*Status, error) {
	release, err := s.acquire(opImport)
	if err != nil {
		return nil, err
	}
	defer release()

	cfg, err := ImportConfig(data, s.cfg.Network, s.cfg.AddressType)
	if err != nil {
		return nil, err
	}
	if cfg.Network != s.cfg.Network {
		return nil, &ConfigFormatError{Reason: fmt.Sprintf(
			"config network %s does not match %s", cfg.Network, s.cfg.Network,
		)}
	}

	status, err := s.assemble(ctx, 0, assembly{
		name:        cfg.Name,
		keys:        cfg.ExtendedPublicKeys,
		quorum:      cfg.Quorum,
		source:      domain.SourceImported,
		startIndex:  cfg.StartingAddressIndex,
		explorerURL: cfg.AddressExplorerURL,
		replace:     true,
	})
	if err != nil {
		return nil, err
	}
	s.publish(EventConfigImported, status)
	return status, nil
}

type assembly struct {
	name        string
	keys        []domain.ExtendedKey
	quorum      domain.Quorum
	source      domain.WalletSource
	startIndex  uint32
	explorerURL string
	// replace discards the signer wallets and the address book of the
	// current workflow and, once committed, starts a new workflow
	// generation. The generation passed to assemble is ignored.
	replace bool
}

func (s *WalletService) assemble(
	ctx context.Context, gen uint64, a assembly,
) (*Status, error) {
	svc := NewMultisigService(a.quorum.Network, a.quorum.AddressType)
	addresses, err := svc.GenerateAddressBatch(
		ctx, a.keys, a.quorum.RequiredSigners, a.startIndex,
		s.cfg.InitialAddressBatch,
	)
	if err != nil {
		return nil, err
	}

	apply := func(w *domain.WalletState) error {
		if a.replace {
			fresh, err := domain.NewWalletState(
				nil, a.quorum, a.startIndex, w.ExplorerURL,
			)
			if err != nil {
				return err
			}
			fresh.Connection = w.Connection
			fresh.WatchOnlyWalletNumber = w.WatchOnlyWalletNumber
			*w = *fresh
		}
		if a.name != "" {
			w.Name = a.name
		}
		if a.explorerURL != "" {
			w.ExplorerURL = a.explorerURL
		}
		w.Quorum = a.quorum
		if err := w.SetKeys(a.keys, a.source); err != nil {
			return err
		}
		w.Addresses = domain.NewAddressBook(a.startIndex)
		for _, addr := range addresses {
			if err := w.Addresses.Add(addr); err != nil {
				return err
			}
		}
		return w.MarkCreated()
	}

	var state *domain.WalletState
	if a.replace {
		state, err = s.replaceWorkflow(ctx, apply)
	} else {
		state, err = s.commit(ctx, gen, apply)
	}
	if err != nil {
		return nil, err
	}

	deposit, _ := state.Addresses.Deposit()
	log.WithField("address", deposit.Address).Infof(
		"created %d-of-%d %s multisig", state.Quorum.RequiredSigners,
		state.Quorum.TotalSigners, state.Quorum.AddressType,
	)

	status := s.Status(ctx)
	s.publish(EventWalletCreated, status)
	return &status, nil
}

func validateKeys(keys []domain.ExtendedKey, net multisig.Network) error {
	if len(keys) <= 0 {
		return domain.ErrInvalidTotalSigners
	}
	seen := make(map[string]struct{})
	for i, k := range keys {
		name := k.Name
		if name == "" {
			name = fmt.Sprintf("key %d", i+1)
		}
		if reason := multisig.ValidateExtendedPublicKey(k.Xpub, net); reason != "" {
			return &KeyDerivationError{Signer: name, Path: k.BIP32Path, Err: errors.New(reason)}
		}
		if reason := multisig.ValidateBIP32Path(k.BIP32Path); reason != "" {
			return &KeyDerivationError{Signer: name, Path: k.BIP32Path, Err: errors.New(reason)}
		}
		if err := validateFingerprint(k.Fingerprint); err != nil {
			return &KeyDerivationError{Signer: name, Path: k.BIP32Path, Err: err}
		}
		if _, ok := seen[k.Xpub]; ok {
			return &KeyDerivationError{
				Signer: name, Path: k.BIP32Path, Err: errors.New("duplicate extended public key"),
			}
		}
		seen[k.Xpub] = struct{}{}
	}
	return nil
}

func signerEvent(state *domain.WalletState, name string) interface{} {
	signer, err := state.Signer(name)
	if err != nil {
		return map[string]string{"name": name}
	}
	return *signer
}
