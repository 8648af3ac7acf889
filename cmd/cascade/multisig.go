package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/descriptor"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/urfave/cli/v2"
)

var (
	requiredFlag = cli.IntFlag{
		Name:     "required",
		Usage:    "number of signatures required to spend",
		Required: true,
	}
	addressTypeFlag = cli.StringFlag{
		Name:  "type",
		Usage: "multisig address type: P2SH, P2SH-P2WSH or P2WSH",
	}
)

var quorumCmd = cli.Command{
	Name:   "quorum",
	Usage:  "set the M-of-N signing policy and address type",
	Flags:  []cli.Flag{&requiredFlag, &addressTypeFlag},
	Action: quorumAction,
}

var createCmd = cli.Command{
	Name:  "create",
	Usage: "create the multisig from the provisioned signer wallets",
	Action: func(ctx *cli.Context) error {
		return callAndPrint(ctx, http.MethodPost, "/multisig", nil)
	},
}

var manualCmd = cli.Command{
	Name:  "manual",
	Usage: "create the multisig from extended public keys entered by hand",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name: "key",
			Usage: "signer key in the form [name:][<fingerprint>/<path>]<xpub>, " +
				"repeat for every signer in order",
			Required: true,
		},
		&requiredFlag,
		&addressTypeFlag,
	},
	Action: manualAction,
}

func quorumAction(ctx *cli.Context) error {
	req := map[string]interface{}{
		"requiredSigners": ctx.Int("required"),
		"addressType":     ctx.String("type"),
	}
	return callAndPrint(ctx, http.MethodPut, "/quorum", req)
}

func manualAction(ctx *cli.Context) error {
	keys := make([]domain.ExtendedKey, 0)
	for i, str := range ctx.StringSlice("key") {
		key, err := parseKey(str, i)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}

	req := map[string]interface{}{
		"keys":            keys,
		"requiredSigners": ctx.Int("required"),
		"addressType":     ctx.String("type"),
	}
	return callAndPrint(ctx, http.MethodPost, "/multisig/manual", req)
}

// parseKey parses a key in the form [name:][<fingerprint>/<path>]<xpub>.
// Without name, the signer is named after its position.
func parseKey(str string, index int) (domain.ExtendedKey, error) {
	name := fmt.Sprintf("Signer %d", index+1)
	if i := strings.Index(str, ":["); i > 0 {
		name, str = str[:i], str[i+1:]
	}

	origin, err := descriptor.Decode(str)
	if err != nil || !strings.HasPrefix(str, "[") ||
		!strings.HasSuffix(str, origin.ExtendedPublicKey) {
		return domain.ExtendedKey{}, fmt.Errorf(
			"invalid key %q, must be in the form [name:][<fingerprint>/<path>]<xpub>",
			str,
		)
	}
	path, err := multisig.NormalizeOriginPath(origin.DerivationPath)
	if err != nil {
		return domain.ExtendedKey{}, fmt.Errorf("invalid key %q: %w", str, err)
	}

	return domain.ExtendedKey{
		Name:        name,
		BIP32Path:   path,
		Xpub:        origin.ExtendedPublicKey,
		Fingerprint: origin.Fingerprint,
	}, nil
}
