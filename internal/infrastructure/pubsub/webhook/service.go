package webhookpubsub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/circuitbreaker"
	"github.com/cascade-wallet/cascade-daemon/pkg/httputil"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

// EventSource is where the service reads the events to forward from.
type EventSource interface {
	Subscribe() (string, <-chan ports.Event)
	Unsubscribe(id string)
}

// Service forwards the workflow events to the registered webhooks.
type Service struct {
	hooks []Webhook
	cb    *gobreaker.CircuitBreaker

	lock   sync.Mutex
	source EventSource
	subID  string
	wg     sync.WaitGroup
}

// NewService ...
func NewService(hooks []Webhook) *Service {
	return &Service{
		hooks: append([]Webhook{}, hooks...),
		cb:    circuitbreaker.NewCircuitBreaker("webhook"),
	}
}

// Webhooks returns the registered webhooks.
func (s *Service) Webhooks() []Webhook {
	return append([]Webhook{}, s.hooks...)
}

// Start subscribes to the given source and forwards every event received
// until Stop is called or the source is closed.
func (s *Service) Start(source EventSource) error {
	if source == nil {
		return ErrNilEventSource
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.source != nil {
		return ErrAlreadyStarted
	}

	id, events := source.Subscribe()
	s.source = source
	s.subID = id

	s.wg.Add(1)
	go s.listen(events)

	log.Debugf("forwarding events to %d webhook(s)", len(s.hooks))
	return nil
}

// Stop unsubscribes from the event source and waits for the pending
// notifications to complete.
func (s *Service) Stop() {
	s.lock.Lock()
	source, id := s.source, s.subID
	s.source, s.subID = nil, ""
	s.lock.Unlock()

	if source == nil {
		return
	}
	source.Unsubscribe(id)
	s.wg.Wait()
}

// Publish notifies the webhooks subscribed to the event's topic.
func (s *Service) Publish(event ports.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	eg := &errgroup.Group{}
	for i := range s.hooks {
		hook := s.hooks[i]
		if !hook.matches(event.Topic) {
			continue
		}
		eg.Go(func() error { return s.doRequest(hook, event.Topic, string(payload)) })
	}
	return eg.Wait()
}

func (s *Service) listen(events <-chan ports.Event) {
	defer s.wg.Done()

	for event := range events {
		if err := s.Publish(event); err != nil {
			log.WithError(err).Warnf("failed to notify %s event", event.Topic)
		}
	}
}

func (s *Service) doRequest(hook Webhook, topic, payload string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if hook.isSecured() {
			token, err := newBearerToken(hook, topic)
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", token)
		}

		status, resp, err := httputil.NewHTTPRequest(
			http.MethodPost, hook.Endpoint, payload, headers,
		)
		if err != nil {
			return nil, err
		}
		if status < 200 || status > 299 {
			return nil, fmt.Errorf("%s replied with status %d: %s", hook.Endpoint, status, resp)
		}
		return nil, nil
	})
	return err
}

func newBearerToken(hook Webhook, topic string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:       hook.ID,
		Subject:  topic,
		IssuedAt: time.Now().Unix(),
	})
	return token.SignedString([]byte(hook.Secret))
}
