package application

import (
	"fmt"
	"time"

	"github.com/cascade-wallet/cascade-daemon/pkg/descriptor"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
)

// Config holds the workflow policies of the wallet service.
type Config struct {
	Network               multisig.Network
	AddressType           multisig.AddressType
	DefaultSigners        []string
	MinProvisionedSigners int
	InitialAddressBatch   int
	StartingAddressIndex  uint32
	MinerWallet           string
	MaturationBlocks      int
	WatchOnlyWalletPrefix string
	WatchOnlyMaxAttempts  int
	ExplorerURL           string
	DescriptorPolicy      descriptor.Policy
	// Zero means the default timeout of the RPC client.
	RPCTimeout time.Duration
}

func (c Config) validate() error {
	if _, err := c.Network.Params(); err != nil {
		return err
	}
	if _, err := multisig.ParseAddressType(string(c.AddressType)); err != nil {
		return err
	}
	if len(c.DefaultSigners) < c.MinProvisionedSigners {
		return fmt.Errorf(
			"default signers must be at least %d", c.MinProvisionedSigners,
		)
	}
	if c.MinProvisionedSigners < 1 {
		return fmt.Errorf("min provisioned signers must be at least 1")
	}
	if c.InitialAddressBatch < 1 {
		return fmt.Errorf("initial address batch must be at least 1")
	}
	if c.MinerWallet == "" {
		return fmt.Errorf("miner wallet name must not be empty")
	}
	if c.MaturationBlocks < 1 {
		return fmt.Errorf("maturation blocks must be at least 1")
	}
	if c.WatchOnlyWalletPrefix == "" {
		return fmt.Errorf("watch-only wallet prefix must not be empty")
	}
	if c.WatchOnlyMaxAttempts < 1 {
		return fmt.Errorf("watch-only max attempts must be at least 1")
	}
	if c.DescriptorPolicy.ScriptPrefix == "" {
		return fmt.Errorf("descriptor policy must not be empty")
	}
	return nil
}
