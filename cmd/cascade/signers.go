package main

import (
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var signersCmd = cli.Command{
	Name:  "signers",
	Usage: "manage the signer wallets of the multisig",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodGet, "/signers", nil)
	},
	Subcommands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "add a signer wallet",
			ArgsUsage: "<name>",
			Action:    addSignerAction,
		},
		{
			Name:      "remove",
			Usage:     "remove a signer wallet",
			ArgsUsage: "<name>",
			Action:    removeSignerAction,
		},
		{
			Name:      "rename",
			Usage:     "rename a signer wallet not yet provisioned",
			ArgsUsage: "<name> <new_name>",
			Action:    renameSignerAction,
		},
	},
}

var provisionCmd = cli.Command{
	Name:  "provision",
	Usage: "create or load on the node every signer wallet and read its key",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodPost, "/signers/provision", nil)
	},
}

var retryCmd = cli.Command{
	Name:      "retry",
	Usage:     "retry provisioning a single signer wallet",
	ArgsUsage: "<name>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return &invalidUsageError{ctx, ctx.Command.Name}
		}
		path := "/signers/" + url.PathEscape(ctx.Args().First()) + "/retry"
		return callAndPrint(ctx, http.MethodPost, path, nil)
	},
}

var clearCmd = cli.Command{
	Name:  "clear",
	Usage: "unload the signer wallets from the node and restore the default signers",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodPost, "/signers/clear", nil)
	},
}

func addSignerAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	req := map[string]string{"name": ctx.Args().First()}
	return callAndPrint(ctx, http.MethodPost, "/signers", req)
}

func removeSignerAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	path := "/signers/" + url.PathEscape(ctx.Args().First())
	return callAndPrint(ctx, http.MethodDelete, path, nil)
}

func renameSignerAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	path := "/signers/" + url.PathEscape(ctx.Args().Get(0))
	req := map[string]string{"name": ctx.Args().Get(1)}
	return callAndPrint(ctx, http.MethodPut, path, req)
}
