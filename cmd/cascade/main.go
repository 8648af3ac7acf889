package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/pkg/httputil"
	"github.com/urfave/cli/v2"
)

const (
	daemonKey     = "daemon"
	defaultDaemon = "http://localhost:9090"
)

var (
	cliDataDir = btcutil.AppDataDir("cascade-cli", false)
	statePath  = filepath.Join(cliDataDir, "state.json")
)

func init() {
	if dir := os.Getenv("CASCADE_CLI_DATADIR"); dir != "" {
		cliDataDir = dir
		statePath = filepath.Join(cliDataDir, "state.json")
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "cascade"
	app.Usage = "Command line interface for the cascaded multisig bootstrap daemon"
	app.Commands = append(
		app.Commands,
		&configCmd,
		&connectCmd,
		&disconnectCmd,
		&statusCmd,
		&resetCmd,
		&signersCmd,
		&provisionCmd,
		&retryCmd,
		&clearCmd,
		&quorumCmd,
		&createCmd,
		&manualCmd,
		&addressCmd,
		&fundCmd,
		&sendCmd,
		&transactionsCmd,
		&balancesCmd,
		&exportCmd,
		&importCmd,
	)
	return app
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(cliDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(cliDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

type response struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Kind  string          `json:"kind"`
}

// daemonError is returned when the daemon replies with an error.
type daemonError struct {
	status int
	kind   string
	msg    string
}

func (e *daemonError) Error() string {
	if e.kind == "" {
		return fmt.Sprintf("daemon replied %d: %s", e.status, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func getDaemonURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	url, ok := state[daemonKey]
	if !ok || url == "" {
		return "", errors.New("set daemon with `config set daemon`")
	}
	return strings.TrimSuffix(url, "/"), nil
}

// callRaw calls the daemon and returns the body of the response as is.
func callRaw(method, path string, body []byte) ([]byte, error) {
	url, err := getDaemonURL()
	if err != nil {
		return nil, err
	}

	header := map[string]string{"Content-Type": "application/json"}
	status, resp, err := httputil.NewHTTPRequest(
		method, url+"/v1"+path, string(body), header,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	if status != http.StatusOK {
		var res response
		if err := json.Unmarshal([]byte(resp), &res); err != nil || res.Error == "" {
			return nil, &daemonError{status: status, msg: strings.TrimSpace(resp)}
		}
		return nil, &daemonError{status: status, kind: res.Kind, msg: res.Error}
	}
	return []byte(resp), nil
}

// call sends req, if any, as JSON body and returns the data of the reply.
func call(method, path string, req interface{}) (json.RawMessage, error) {
	var body []byte
	if req != nil {
		buf, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		body = buf
	}

	resp, err := callRaw(method, path, body)
	if err != nil {
		return nil, err
	}
	return decodeData(resp)
}

func decodeData(resp []byte) (json.RawMessage, error) {
	var res response
	if err := json.Unmarshal(resp, &res); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}
	return res.Data, nil
}

// callAndPrint calls the daemon and prints the data of the reply.
func callAndPrint(ctx *cli.Context, method, path string, req interface{}) error {
	data, err := call(method, path, req)
	if err != nil {
		return err
	}
	printRespJSON(ctx, data)
	return nil
}

func printRespJSON(ctx *cli.Context, data json.RawMessage) {
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		fmt.Fprintln(ctx.App.Writer, "unable to decode response: ", err)
		return
	}

	jsonStr, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		fmt.Fprintln(ctx.App.Writer, "unable to decode response: ", err)
		return
	}

	fmt.Fprintln(ctx.App.Writer, string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[cascade] %v\n", err)
	}
	os.Exit(1)
}
