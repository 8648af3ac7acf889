package application

import (
	"sync"

	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	EventConnectionChanged = "CONNECTION_CHANGED"
	EventSignersChanged    = "SIGNERS_CHANGED"
	EventSignerStatus      = "SIGNER_STATUS"
	EventQuorumChanged     = "QUORUM_CHANGED"
	EventWalletCreated     = "WALLET_CREATED"
	EventAddressGenerated  = "ADDRESS_GENERATED"
	EventTransaction       = "TRANSACTION"
	EventBalancesRefreshed = "BALANCES_REFRESHED"
	EventConfigImported    = "CONFIG_IMPORTED"
	EventWorkflowReset     = "WORKFLOW_RESET"

	defaultEventBufferSize = 32
)

// EventBus fans out workflow events to in-process subscribers. Publishing
// never blocks: events are dropped for subscribers that can't keep up.
type EventBus struct {
	lock       sync.RWMutex
	subs       map[string]chan ports.Event
	bufferSize int
	closed     bool
}

// NewEventBus ...
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = defaultEventBufferSize
	}
	return &EventBus{
		subs:       make(map[string]chan ports.Event),
		bufferSize: bufferSize,
	}
}

// Publish ...
func (b *EventBus) Publish(event ports.Event) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			log.WithField("subscriber", id).Debugf(
				"dropped event %s for slow subscriber", event.Topic,
			)
		}
	}
}

// Subscribe returns the id of the new subscription and the channel where
// events are delivered. The channel is closed on Unsubscribe or Close.
func (b *EventBus) Subscribe() (string, <-chan ports.Event) {
	b.lock.Lock()
	defer b.lock.Unlock()

	id := uuid.New().String()
	ch := make(chan ports.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return id, ch
	}
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe ...
func (b *EventBus) Unsubscribe(id string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Close terminates all subscriptions.
func (b *EventBus) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.closed = true
}
