package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testXpub = "tpubDC8msFGeGuwnKG9Upg7DM2b4DaRqg3CUZa5g8v2SRQ6K4NSkxUgd7HsL2XVWbVm39yBA4LAxysQAm397zwQSQoQgewGiYZqrA9DsP4zbQ1M"

type request struct {
	method string
	path   string
	body   string
}

// newTestDaemon returns a server recording every request and replying with
// the given status and envelope.
func newTestDaemon(
	t *testing.T, status int, reply string,
) (*httptest.Server, *[]request) {
	t.Helper()

	requests := make([]request, 0)
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			requests = append(requests, request{r.Method, r.URL.Path, string(body)})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(reply))
		},
	))
	t.Cleanup(server.Close)

	return server, &requests
}

func setTestState(t *testing.T, daemon string) {
	t.Helper()

	prevDir, prevPath := cliDataDir, statePath
	cliDataDir = filepath.Join(t.TempDir(), "cli")
	statePath = filepath.Join(cliDataDir, "state.json")
	t.Cleanup(func() {
		cliDataDir, statePath = prevDir, prevPath
	})

	if daemon != "" {
		require.NoError(t, setState(map[string]string{daemonKey: daemon}))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"cascade"}, args...))
	return out.String(), err
}

func TestConfig(t *testing.T) {
	setTestState(t, "")

	_, err := getState()
	require.Error(t, err)

	_, err = run(t, "config", "init")
	require.NoError(t, err)

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, defaultDaemon, state[daemonKey])

	_, err = run(t, "config", "set", daemonKey, "http://127.0.0.1:9999")
	require.NoError(t, err)

	out, err := run(t, "config")
	require.NoError(t, err)
	require.Contains(t, out, "daemon: http://127.0.0.1:9999")

	_, err = run(t, "config", "set", daemonKey)
	require.Error(t, err)
}

func TestCommands(t *testing.T) {
	tests := []struct {
		args   []string
		method string
		path   string
		body   map[string]interface{}
	}{
		{
			args:   []string{"connect", "--user", "user", "--password", "pass"},
			method: http.MethodPost,
			path:   "/v1/connect",
			body: map[string]interface{}{
				"host": "127.0.0.1", "port": float64(18443),
				"username": "user", "password": "pass",
			},
		},
		{
			args:   []string{"connect", "--test"},
			method: http.MethodPost,
			path:   "/v1/connect/test",
		},
		{
			args:   []string{"signers", "add", "carol"},
			method: http.MethodPost,
			path:   "/v1/signers",
			body:   map[string]interface{}{"name": "carol"},
		},
		{
			args:   []string{"signers", "rename", "bob", "dave"},
			method: http.MethodPut,
			path:   "/v1/signers/bob",
			body:   map[string]interface{}{"name": "dave"},
		},
		{
			args:   []string{"signers", "remove", "alice"},
			method: http.MethodDelete,
			path:   "/v1/signers/alice",
		},
		{
			args:   []string{"retry", "alice"},
			method: http.MethodPost,
			path:   "/v1/signers/alice/retry",
		},
		{
			args:   []string{"quorum", "--required", "2", "--type", "P2SH"},
			method: http.MethodPut,
			path:   "/v1/quorum",
			body: map[string]interface{}{
				"requiredSigners": float64(2), "addressType": "P2SH",
			},
		},
		{
			args:   []string{"fund", "--amount", "1.5"},
			method: http.MethodPost,
			path:   "/v1/fund",
			body: map[string]interface{}{
				"address": "", "amount": "1.50000000",
			},
		},
		{
			args:   []string{"address", "new"},
			method: http.MethodPost,
			path:   "/v1/addresses",
		},
		{
			args:   []string{"balances"},
			method: http.MethodPost,
			path:   "/v1/balances/refresh",
		},
		{
			args:   []string{"status"},
			method: http.MethodGet,
			path:   "/v1/status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			server, requests := newTestDaemon(t, http.StatusOK, `{"data":{"ok":true}}`)
			setTestState(t, server.URL)

			out, err := run(t, tt.args...)
			require.NoError(t, err)
			require.Contains(t, out, `"ok": true`)

			require.Len(t, *requests, 1)
			req := (*requests)[0]
			require.Equal(t, tt.method, req.method)
			require.Equal(t, tt.path, req.path)
			if tt.body != nil {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(req.body), &body))
				require.Equal(t, tt.body, body)
			}
		})
	}
}

func TestDaemonError(t *testing.T) {
	server, _ := newTestDaemon(
		t, http.StatusConflict,
		`{"data":null,"error":"operation already in progress","kind":"conflict"}`,
	)
	setTestState(t, server.URL)

	_, err := run(t, "provision")
	require.EqualError(t, err, "conflict: operation already in progress")
}

func TestInvalidAmount(t *testing.T) {
	server, requests := newTestDaemon(t, http.StatusOK, `{"data":null}`)
	setTestState(t, server.URL)

	_, err := run(t, "send", "--address", "bcrt1qxyz", "--amount", "-1")
	require.Error(t, err)
	require.Empty(t, *requests)
}

func TestExportImport(t *testing.T) {
	file := `{"name":"Treasury"}`
	server, requests := newTestDaemon(t, http.StatusOK, file)
	setTestState(t, server.URL)

	out := filepath.Join(t.TempDir(), "wallet.json")
	_, err := run(t, "export", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.JSONEq(t, file, string(data))

	_, err = run(t, "import", "--file", out)
	require.NoError(t, err)
	require.Len(t, *requests, 2)
	require.Equal(t, "/v1/config/import", (*requests)[1].path)
	require.JSONEq(t, file, (*requests)[1].body)
}

func TestParseKey(t *testing.T) {
	key, err := parseKey("alice:[d34db33f/84h/1h/0h]"+testXpub, 0)
	require.NoError(t, err)
	require.Equal(t, "alice", key.Name)
	require.Equal(t, "d34db33f", key.Fingerprint)
	require.Equal(t, "m/84'/1'/0'", key.BIP32Path)
	require.Equal(t, testXpub, key.Xpub)

	key, err = parseKey("[d34db33f/48'/1'/0']"+testXpub, 1)
	require.NoError(t, err)
	require.Equal(t, "Signer 2", key.Name)
	require.Equal(t, "m/48'/1'/0'", key.BIP32Path)

	for _, str := range []string{
		testXpub,
		"[d34db33f]" + testXpub,
		"[d34db33f/84h/1h/0h]" + testXpub + "/0/*",
		"alice:" + testXpub,
	} {
		_, err := parseKey(str, 0)
		require.Error(t, err, str)
	}
}
