package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var connectionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "host",
		Usage: "bitcoind RPC host",
		Value: "127.0.0.1",
	},
	&cli.IntFlag{
		Name:  "port",
		Usage: "bitcoind RPC port",
		Value: 18443,
	},
	&cli.StringFlag{
		Name:  "user",
		Usage: "bitcoind RPC username",
	},
	&cli.StringFlag{
		Name:    "password",
		Usage:   "bitcoind RPC password",
		EnvVars: []string{"CASCADE_RPC_PASSWORD"},
	},
	&cli.BoolFlag{
		Name:  "test",
		Usage: "only check the node is reachable, without connecting",
	},
}

var connectCmd = cli.Command{
	Name:   "connect",
	Usage:  "connect the daemon to a bitcoind node",
	Flags:  connectionFlags,
	Action: connectAction,
}

var disconnectCmd = cli.Command{
	Name:  "disconnect",
	Usage: "disconnect the daemon from the node, the workflow state is cleared",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodPost, "/disconnect", nil)
	},
}

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "show the status of the wallet workflow",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodGet, "/status", nil)
	},
}

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "discard the whole workflow state, keeping the node connection",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodPost, "/reset", nil)
	},
}

func connectAction(ctx *cli.Context) error {
	req := map[string]interface{}{
		"host":     ctx.String("host"),
		"port":     ctx.Int("port"),
		"username": ctx.String("user"),
		"password": ctx.String("password"),
	}

	path := "/connect"
	if ctx.Bool("test") {
		path = "/connect/test"
	}
	return callAndPrint(ctx, http.MethodPost, path, req)
}
