package webhookpubsub

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/google/uuid"
)

// AnyTopic subscribes a webhook to every workflow event.
const AnyTopic = "*"

var knownTopics = map[string]struct{}{
	AnyTopic:                           {},
	application.EventConnectionChanged: {},
	application.EventSignersChanged:    {},
	application.EventSignerStatus:      {},
	application.EventQuorumChanged:     {},
	application.EventWalletCreated:     {},
	application.EventAddressGenerated:  {},
	application.EventTransaction:       {},
	application.EventBalancesRefreshed: {},
	application.EventConfigImported:    {},
	application.EventWorkflowReset:     {},
}

// Webhook is an http endpoint notified with a POST request every time an
// event for its topic is published.
type Webhook struct {
	ID       string
	Topic    string
	Endpoint string
	Secret   string
}

// NewWebhook ...
func NewWebhook(topic, endpoint, secret string) (*Webhook, error) {
	if len(topic) <= 0 {
		return nil, ErrMissingTopic
	}
	if _, ok := knownTopics[topic]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
	u, err := url.ParseRequestURI(endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEndpoint, endpoint)
	}
	return &Webhook{
		ID:       uuid.New().String(),
		Topic:    topic,
		Endpoint: endpoint,
		Secret:   secret,
	}, nil
}

// ParseWebhooks parses a list of webhooks in the form <endpoint> or
// <TOPIC>=<endpoint>. Webhooks without topic are notified for every event.
// The secret, if any, is shared by all of them.
func ParseWebhooks(list []string, secret string) ([]Webhook, error) {
	hooks := make([]Webhook, 0, len(list))
	for _, str := range list {
		str = strings.TrimSpace(str)
		if str == "" {
			continue
		}
		topic, endpoint := AnyTopic, str
		if i := strings.Index(str, "="); i > 0 && !strings.Contains(str[:i], "/") {
			topic, endpoint = strings.ToUpper(str[:i]), str[i+1:]
		}
		hook, err := NewWebhook(topic, endpoint, secret)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, *hook)
	}
	return hooks, nil
}

func (h Webhook) isSecured() bool {
	return len(h.Secret) > 0
}

func (h Webhook) matches(topic string) bool {
	return h.Topic == AnyTopic || h.Topic == topic
}
