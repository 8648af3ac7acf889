package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var daemonFlag = cli.StringFlag{
	Name:  daemonKey,
	Usage: "cascaded REST endpoint",
	Value: defaultDaemon,
}

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the cascade CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags:  []cli.Flag{&daemonFlag},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Fprintln(ctx.App.Writer, key+": "+value)
	}
	return nil
}

func configInitAction(ctx *cli.Context) error {
	return setState(map[string]string{
		daemonKey: ctx.String(daemonKey),
	})
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "%s %s has been set\n", key, value)
	return nil
}
