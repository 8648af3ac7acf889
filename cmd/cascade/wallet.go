package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/urfave/cli/v2"
)

var (
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "the receiving address",
	}
	amountFlag = cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount in BTC",
		Required: true,
	}
)

var addressCmd = cli.Command{
	Name:  "address",
	Usage: "list the receiving addresses of the multisig",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodGet, "/addresses", nil)
	},
	Subcommands: []*cli.Command{
		{
			Name:  "new",
			Usage: "derive a new receiving address",
			Action: func(ctx *cli.Context) error {
				return callAndPrint(ctx, http.MethodPost, "/addresses", nil)
			},
		},
	},
}

var fundCmd = cli.Command{
	Name: "fund",
	Usage: "send coins from the regtest miner wallet to the given address, " +
		"or to the deposit address",
	Flags:  []cli.Flag{&addressFlag, &amountFlag},
	Action: fundAction,
}

var sendCmd = cli.Command{
	Name:  "send",
	Usage: "record a simulated send from the multisig, nothing is broadcast",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     addressFlag.Name,
			Usage:    "the recipient address",
			Required: true,
		},
		&amountFlag,
	},
	Action: sendAction,
}

var transactionsCmd = cli.Command{
	Name:  "transactions",
	Usage: "list the transactions of the multisig",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodGet, "/transactions", nil)
	},
}

var balancesCmd = cli.Command{
	Name:  "balances",
	Usage: "refresh from the node the balance of every address",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodPost, "/balances/refresh", nil)
	},
}

var exportCmd = cli.Command{
	Name:  "export",
	Usage: "export the multisig config file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "path of the file to write, stdout if empty",
		},
	},
	Action: exportAction,
}

var importCmd = cli.Command{
	Name:  "import",
	Usage: "replace the multisig with the one of the given config file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Usage:    "path of the config file",
			Required: true,
		},
	},
	Action: importAction,
}

func fundAction(ctx *cli.Context) error {
	req, err := amountRequest(ctx)
	if err != nil {
		return err
	}
	return callAndPrint(ctx, http.MethodPost, "/fund", req)
}

func sendAction(ctx *cli.Context) error {
	req, err := amountRequest(ctx)
	if err != nil {
		return err
	}
	return callAndPrint(ctx, http.MethodPost, "/send", req)
}

func amountRequest(ctx *cli.Context) (map[string]string, error) {
	amount, err := application.ParseBTCAmount(ctx.String("amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", ctx.String("amount"), err)
	}
	return map[string]string{
		"address": ctx.String("address"),
		"amount":  application.FormatBTC(int64(amount)),
	}, nil
}

func exportAction(ctx *cli.Context) error {
	file, err := callRaw(http.MethodGet, "/config/export", nil)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" {
		fmt.Fprintln(ctx.App.Writer, string(file))
		return nil
	}
	if err := os.WriteFile(out, file, 0644); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "config exported to %s\n", out)
	return nil
}

func importAction(ctx *cli.Context) error {
	file, err := os.ReadFile(ctx.String("file"))
	if err != nil {
		return err
	}

	resp, err := callRaw(http.MethodPost, "/config/import", file)
	if err != nil {
		return err
	}

	data, err := decodeData(resp)
	if err != nil {
		return err
	}
	printRespJSON(ctx, data)
	return nil
}
