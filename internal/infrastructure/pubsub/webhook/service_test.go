package webhookpubsub_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	webhookpubsub "github.com/cascade-wallet/cascade-daemon/internal/infrastructure/pubsub/webhook"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

type notification struct {
	path  string
	auth  string
	event ports.Event
}

func newTestWebServer(t *testing.T) (*httptest.Server, <-chan notification) {
	received := make(chan notification, 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/broken") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		n := notification{path: r.URL.Path, auth: r.Header.Get("Authorization")}
		require.NoError(t, json.Unmarshal(body, &n.event))
		received <- n
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, received
}

func TestParseWebhooks(t *testing.T) {
	hooks, err := webhookpubsub.ParseWebhooks([]string{
		"http://localhost:8000/all",
		" transaction=http://localhost:8000/tx ",
		"",
		"http://localhost:8000/path?key=value",
	}, testSecret)
	require.NoError(t, err)
	require.Len(t, hooks, 3)

	require.Equal(t, webhookpubsub.AnyTopic, hooks[0].Topic)
	require.Equal(t, "http://localhost:8000/all", hooks[0].Endpoint)
	require.Equal(t, application.EventTransaction, hooks[1].Topic)
	require.Equal(t, "http://localhost:8000/tx", hooks[1].Endpoint)
	require.Equal(t, webhookpubsub.AnyTopic, hooks[2].Topic)
	require.Equal(t, "http://localhost:8000/path?key=value", hooks[2].Endpoint)
	for _, h := range hooks {
		require.NotEmpty(t, h.ID)
		require.Equal(t, testSecret, h.Secret)
	}
}

func TestFailingParseWebhooks(t *testing.T) {
	tests := []struct {
		hook        string
		expectedErr error
	}{
		{"UNKNOWN=http://localhost:8000", webhookpubsub.ErrUnknownTopic},
		{"not an url", webhookpubsub.ErrInvalidEndpoint},
		{"TRANSACTION=", webhookpubsub.ErrInvalidEndpoint},
	}
	for _, tt := range tests {
		_, err := webhookpubsub.ParseWebhooks([]string{tt.hook}, "")
		require.ErrorIs(t, err, tt.expectedErr, tt.hook)
	}

	_, err := webhookpubsub.NewWebhook("", "http://localhost:8000", "")
	require.ErrorIs(t, err, webhookpubsub.ErrMissingTopic)
}

func TestPublish(t *testing.T) {
	server, received := newTestWebServer(t)

	hooks, err := webhookpubsub.ParseWebhooks([]string{
		server.URL + "/all",
		"WALLET_CREATED=" + server.URL + "/created",
	}, "")
	require.NoError(t, err)
	svc := webhookpubsub.NewService(hooks)

	err = svc.Publish(ports.Event{Topic: application.EventTransaction, Payload: "tx"})
	require.NoError(t, err)
	n := <-received
	require.Equal(t, "/all", n.path)
	require.Empty(t, n.auth)
	require.Equal(t, application.EventTransaction, n.event.Topic)
	require.Equal(t, "tx", n.event.Payload)
	require.Empty(t, received)

	err = svc.Publish(ports.Event{Topic: application.EventWalletCreated})
	require.NoError(t, err)
	paths := []string{(<-received).path, (<-received).path}
	require.ElementsMatch(t, []string{"/all", "/created"}, paths)
}

func TestPublishSecured(t *testing.T) {
	server, received := newTestWebServer(t)

	hooks, err := webhookpubsub.ParseWebhooks([]string{server.URL}, testSecret)
	require.NoError(t, err)
	svc := webhookpubsub.NewService(hooks)

	err = svc.Publish(ports.Event{Topic: application.EventQuorumChanged})
	require.NoError(t, err)

	n := <-received
	require.True(t, strings.HasPrefix(n.auth, "Bearer "))

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(
		strings.TrimPrefix(n.auth, "Bearer "), claims,
		func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil },
	)
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, application.EventQuorumChanged, claims.Subject)
	require.Equal(t, hooks[0].ID, claims.Id)
}

func TestFailingPublish(t *testing.T) {
	server, _ := newTestWebServer(t)

	hooks, err := webhookpubsub.ParseWebhooks([]string{server.URL + "/broken"}, "")
	require.NoError(t, err)
	svc := webhookpubsub.NewService(hooks)

	err = svc.Publish(ports.Event{Topic: application.EventWorkflowReset})
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestStartStop(t *testing.T) {
	server, received := newTestWebServer(t)

	hooks, err := webhookpubsub.ParseWebhooks([]string{
		"SIGNER_STATUS=" + server.URL + "/status",
	}, "")
	require.NoError(t, err)
	svc := webhookpubsub.NewService(hooks)

	require.ErrorIs(t, svc.Start(nil), webhookpubsub.ErrNilEventSource)

	bus := application.NewEventBus(0)
	t.Cleanup(bus.Close)

	require.NoError(t, svc.Start(bus))
	require.ErrorIs(t, svc.Start(bus), webhookpubsub.ErrAlreadyStarted)

	bus.Publish(ports.Event{Topic: application.EventSignersChanged})
	bus.Publish(ports.Event{Topic: application.EventSignerStatus, Payload: "reg_signer1"})

	select {
	case n := <-received:
		require.Equal(t, "/status", n.path)
		require.Equal(t, application.EventSignerStatus, n.event.Topic)
		require.Equal(t, "reg_signer1", n.event.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook not notified")
	}

	svc.Stop()
	// Stopping twice is a no-op.
	svc.Stop()

	bus.Publish(ports.Event{Topic: application.EventSignerStatus})
	require.Empty(t, received)
}
