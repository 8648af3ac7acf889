package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	log "github.com/sirupsen/logrus"
)

const (
	opConnect   = "connect"
	opProvision = "provision"
	opClear     = "clear"
	opCreate    = "create"
	opAddress   = "address"
	opFund      = "fund"
	opRefresh   = "refresh"
	opImport    = "import"
)

var chainNames = map[multisig.Network]string{
	multisig.Mainnet: "main",
	multisig.Testnet: "test",
	multisig.Regtest: "regtest",
}

// ConnectionStatus is the outcome of a connectivity probe.
type ConnectionStatus struct {
	Connection domain.Connection
	Chain      string
	BlockCount int64
}

// Status is a summary of the whole workflow state.
type Status struct {
	Name             string
	Network          multisig.Network
	Connection       domain.Connection
	Signers          []domain.SignerWallet
	Quorum           domain.Quorum
	Created          bool
	Source           domain.WalletSource
	DepositAddress   string
	AddressCount     int
	TotalBalanceSats int64
	WatchOnlyWallet  string
	ExplorerURL      string
	InProgress       []string
}

// WalletService is the workflow object driving a multisig wallet from a node
// with no wallets to a funded wallet. It owns the workflow state, every
// mutation goes through its methods.
//
// Operations that talk to the node capture the workflow generation before
// the first RPC call. Resetting, clearing, reconnecting or importing bumps
// the generation, so results of operations started before are discarded
// with ErrStaleWorkflow instead of being applied to the new workflow.
type WalletService struct {
	cfg     Config
	repo    domain.WalletStateRepository
	newNode ports.NodeFactory
	events  ports.EventPublisher

	lock       sync.RWMutex
	state      *domain.WalletState
	generation uint64
	node       ports.Node
	tracker    *BalanceTracker
	inFlight   map[string]struct{}
}

// NewWalletService restores the persisted workflow state, if any. The
// restored connection is always marked as disconnected since the password
// is never persisted.
func NewWalletService(
	ctx context.Context,
	cfg Config,
	repo domain.WalletStateRepository,
	newNode ports.NodeFactory,
	events ports.EventPublisher,
) (*WalletService, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	state, err := repo.GetState(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrWalletStateNotFound) {
			return nil, err
		}
		if state, err = newDefaultState(cfg); err != nil {
			return nil, err
		}
		log.Debug("no persisted wallet state, starting from defaults")
	}
	state.Connection.MarkDisconnected(nil)

	return &WalletService{
		cfg:      cfg,
		repo:     repo,
		newNode:  newNode,
		events:   events,
		state:    state,
		inFlight: make(map[string]struct{}),
	}, nil
}

// TestConnection probes the node without touching the workflow state.
func (s *WalletService) TestConnection(
	ctx context.Context, conn domain.Connection,
) (*ConnectionStatus, error) {
	_, status, err := s.probe(ctx, conn)
	return status, err
}

// Connect probes the node and, if reachable and on the configured network,
// makes it the node of the workflow.
func (s *WalletService) Connect(
	ctx context.Context, conn domain.Connection,
) (*ConnectionStatus, error) {
	release, err := s.acquire(opConnect)
	if err != nil {
		return nil, err
	}
	defer release()

	node, status, err := s.probe(ctx, conn)
	if err != nil {
		if _, cerr := s.mutate(ctx, func(w *domain.WalletState) error {
			w.Connection = conn
			w.Connection.MarkDisconnected(err)
			return nil
		}); cerr != nil {
			log.WithError(cerr).Warn("failed to persist connection error")
		}
		return nil, err
	}

	s.lock.Lock()
	s.generation++
	s.node = node
	s.tracker = NewBalanceTracker(
		node, s.cfg.WatchOnlyWalletPrefix, s.cfg.WatchOnlyMaxAttempts,
	)
	s.lock.Unlock()

	state, err := s.mutate(ctx, func(w *domain.WalletState) error {
		w.Connection = conn
		w.Connection.MarkConnected()
		return nil
	})
	if err != nil {
		return nil, err
	}
	status.Connection = state.Connection

	log.WithField("url", conn.URL()).Infof(
		"connected to %s node at height %d", status.Chain, status.BlockCount,
	)
	s.publish(EventConnectionChanged, state.Connection)
	return status, nil
}

// Disconnect drops the node and resets the workflow, keeping the connection
// metadata.
func (s *WalletService) Disconnect(ctx context.Context) error {
	s.lock.Lock()
	s.generation++
	s.node = nil
	s.tracker = nil
	s.lock.Unlock()

	state, err := s.mutate(ctx, func(w *domain.WalletState) error {
		if err := s.resetState(w); err != nil {
			return err
		}
		w.Connection.MarkDisconnected(nil)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("disconnected from node")
	s.publish(EventConnectionChanged, state.Connection)
	return nil
}

// Reset discards the whole workflow but the connection. Operations in
// progress are not awaited, their results are discarded.
func (s *WalletService) Reset(ctx context.Context) error {
	s.lock.Lock()
	s.generation++
	s.lock.Unlock()

	if err := s.repo.DeleteState(ctx); err != nil {
		return err
	}
	if _, err := s.mutate(ctx, s.resetState); err != nil {
		return err
	}

	log.Info("workflow reset")
	s.publish(EventWorkflowReset, nil)
	return nil
}

// Status ...
func (s *WalletService) Status(_ context.Context) Status {
	s.lock.RLock()
	defer s.lock.RUnlock()

	w := s.state
	status := Status{
		Name:             w.Name,
		Network:          s.cfg.Network,
		Connection:       w.Connection,
		Signers:          copySigners(w.Signers),
		Quorum:           w.Quorum,
		Created:          w.Created,
		Source:           w.Source,
		AddressCount:     w.Addresses.Len(),
		TotalBalanceSats: w.Addresses.TotalBalance(),
		ExplorerURL:      w.ExplorerURL,
		InProgress:       make([]string, 0, len(s.inFlight)),
	}
	if deposit, ok := w.Addresses.Deposit(); ok {
		status.DepositAddress = deposit.Address
	}
	if w.Created {
		status.WatchOnlyWallet = w.WatchOnlyWalletName(s.cfg.WatchOnlyWalletPrefix)
	}
	for op := range s.inFlight {
		status.InProgress = append(status.InProgress, op)
	}
	sort.Strings(status.InProgress)
	return status
}

func (s *WalletService) probe(
	ctx context.Context, conn domain.Connection,
) (ports.Node, *ConnectionStatus, error) {
	node, err := s.newNode(bitcoind.ConnConfig{
		Host:     conn.Host,
		Port:     conn.Port,
		User:     conn.Username,
		Password: conn.Password,
		Timeout:  s.cfg.RPCTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	count, err := node.GetBlockCount(ctx)
	if err != nil {
		return nil, nil, err
	}
	info, err := node.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, nil, err
	}
	if info.Chain != chainNames[s.cfg.Network] {
		log.Warnf(
			"node is on chain %s, expected %s", info.Chain, chainNames[s.cfg.Network],
		)
		return nil, nil, ErrWrongNetwork
	}

	conn.MarkConnected()
	return node, &ConnectionStatus{
		Connection: conn,
		Chain:      info.Chain,
		BlockCount: count,
	}, nil
}

// acquire marks the operation as in flight. The returned func must be
// called once the operation is done.
func (s *WalletService) acquire(op string) (func(), error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.inFlight[op]; ok {
		return nil, ErrOperationInProgress
	}
	s.inFlight[op] = struct{}{}
	return func() {
		s.lock.Lock()
		delete(s.inFlight, op)
		s.lock.Unlock()
	}, nil
}

func (s *WalletService) isInFlight(op string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.inFlight[op]
	return ok
}

// session returns the current node, the workflow generation and a snapshot
// of the state.
func (s *WalletService) session() (ports.Node, uint64, *domain.WalletState, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.node == nil || !s.state.Connection.Connected {
		return nil, 0, nil, ErrNotConnected
	}
	return s.node, s.generation, s.state.Clone(), nil
}

func (s *WalletService) snapshot() (uint64, *domain.WalletState) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.generation, s.state.Clone()
}

// commit applies fn to a copy of the current state and, if the workflow is
// still the one at generation gen, persists and installs the result.
func (s *WalletService) commit(
	ctx context.Context, gen uint64, fn func(w *domain.WalletState) error,
) (*domain.WalletState, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if gen != s.generation {
		return nil, ErrStaleWorkflow
	}
	return s.commitLocked(ctx, fn)
}

// replaceWorkflow is like mutate but, if the change is persisted, it starts a
// new workflow generation so that the results of operations started before
// are discarded. A rejected change leaves the generation untouched.
func (s *WalletService) replaceWorkflow(
	ctx context.Context, fn func(w *domain.WalletState) error,
) (*domain.WalletState, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	next, err := s.commitLocked(ctx, fn)
	if err != nil {
		return nil, err
	}
	s.generation++
	return next, nil
}

// mutate is like commit but for changes not depending on any earlier read.
func (s *WalletService) mutate(
	ctx context.Context, fn func(w *domain.WalletState) error,
) (*domain.WalletState, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.commitLocked(ctx, fn)
}

func (s *WalletService) commitLocked(
	ctx context.Context, fn func(w *domain.WalletState) error,
) (*domain.WalletState, error) {
	var next *domain.WalletState
	if err := s.repo.UpdateState(
		ctx, func(_ *domain.WalletState) (*domain.WalletState, error) {
			next = s.state.Clone()
			if err := fn(next); err != nil {
				return nil, err
			}
			next.UpdatedAt = time.Now().Unix()
			return next, nil
		},
	); err != nil {
		return nil, err
	}
	s.state = next
	return next.Clone(), nil
}

func (s *WalletService) resetState(w *domain.WalletState) error {
	quorum, err := defaultQuorum(s.cfg)
	if err != nil {
		return err
	}
	return w.Reset(s.cfg.DefaultSigners, *quorum, s.cfg.StartingAddressIndex)
}

func (s *WalletService) publish(topic string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.Event{Topic: topic, Payload: payload})
}

func newDefaultState(cfg Config) (*domain.WalletState, error) {
	quorum, err := defaultQuorum(cfg)
	if err != nil {
		return nil, err
	}
	return domain.NewWalletState(
		cfg.DefaultSigners, *quorum, cfg.StartingAddressIndex, cfg.ExplorerURL,
	)
}

func defaultQuorum(cfg Config) (*domain.Quorum, error) {
	total := len(cfg.DefaultSigners)
	required := cfg.MinProvisionedSigners
	if required > total {
		required = total
	}
	return domain.NewQuorum(required, total, cfg.AddressType, cfg.Network)
}

func copySigners(signers []*domain.SignerWallet) []domain.SignerWallet {
	list := make([]domain.SignerWallet, 0, len(signers))
	for _, s := range signers {
		c := *s
		if s.Key != nil {
			k := *s.Key
			c.Key = &k
		}
		list = append(list, c)
	}
	return list
}
