package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	webhookpubsub "github.com/cascade-wallet/cascade-daemon/internal/infrastructure/pubsub/webhook"
	"github.com/cascade-wallet/cascade-daemon/pkg/descriptor"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ListeningPortKey is the port where the REST interface will listen on
	ListeningPortKey = "LISTEN_PORT"
	// NetworkKey is the bitcoin network of the node, one of regtest, testnet or mainnet
	NetworkKey = "NETWORK"
	// RPCHostKey is the host of the bitcoind RPC interface. If set, the daemon
	// connects to the node at startup
	RPCHostKey = "RPC_HOST"
	// RPCPortKey is the port of the bitcoind RPC interface
	RPCPortKey = "RPC_PORT"
	// RPCUserKey ...
	RPCUserKey = "RPC_USER"
	// RPCPasswordKey ...
	RPCPasswordKey = "RPC_PASSWORD"
	// RPCTimeoutKey is the timeout in seconds of every RPC call
	RPCTimeoutKey = "RPC_TIMEOUT"
	// MinProvisionedSignersKey is the minimum number of signer wallets
	// required to create the multisig
	MinProvisionedSignersKey = "MIN_PROVISIONED_SIGNERS"
	// DefaultSignersKey is the comma separated list of signer wallet names of
	// a fresh workflow
	DefaultSignersKey = "DEFAULT_SIGNERS"
	// InitialAddressBatchKey is the number of addresses derived when the
	// multisig is created
	InitialAddressBatchKey = "INITIAL_ADDRESS_BATCH"
	// StartingAddressIndexKey is the index of the deposit address
	StartingAddressIndexKey = "STARTING_ADDRESS_INDEX"
	// AddressTypeKey is the default multisig address type, one of P2SH, P2SH-P2WSH or P2WSH
	AddressTypeKey = "ADDRESS_TYPE"
	// MinerWalletKey is the name of the regtest wallet used to mine and fund
	MinerWalletKey = "MINER_WALLET"
	// MaturationBlocksKey is the number of blocks mined to make the coinbase spendable
	MaturationBlocksKey = "MATURATION_BLOCKS"
	// WatchOnlyWalletPrefixKey is the name prefix of the watch-only wallet
	// tracking the multisig balances
	WatchOnlyWalletPrefixKey = "WATCH_ONLY_WALLET_PREFIX"
	// WatchOnlyMaxAttemptsKey is the number of wallet names probed before
	// giving up on creating the watch-only wallet
	WatchOnlyMaxAttemptsKey = "WATCH_ONLY_MAX_ATTEMPTS"
	// ExplorerURLKey is the base url of the block explorer used for address links
	ExplorerURLKey = "EXPLORER_URL"
	// DescriptorScriptKey is the script template of the descriptor that
	// identifies the key of a signer wallet
	DescriptorScriptKey = "DESCRIPTOR_SCRIPT"
	// WebhookEndpointsKey is the comma separated list of endpoints notified
	// of workflow events, each in the form <url> or <TOPIC>=<url>
	WebhookEndpointsKey = "WEBHOOK_ENDPOINTS"
	// WebhookSecretKey signs the bearer token sent to the webhook endpoints
	WebhookSecretKey = "WEBHOOK_SECRET"
	// DBInMemoryKey keeps the wallet state in memory only
	DBInMemoryKey = "DB_INMEMORY"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic memory statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("cascade-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("CASCADE")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ListeningPortKey, 9090)
	vip.SetDefault(NetworkKey, string(multisig.Regtest))
	vip.SetDefault(RPCPortKey, 18443)
	vip.SetDefault(RPCTimeoutKey, 30)
	vip.SetDefault(MinProvisionedSignersKey, 2)
	vip.SetDefault(DefaultSignersKey, "reg_signer1,reg_signer2")
	vip.SetDefault(InitialAddressBatchKey, 10)
	vip.SetDefault(StartingAddressIndexKey, 0)
	vip.SetDefault(AddressTypeKey, string(multisig.P2WSH))
	vip.SetDefault(MinerWalletKey, "miner_wallet")
	vip.SetDefault(MaturationBlocksKey, 101)
	vip.SetDefault(WatchOnlyWalletPrefixKey, "watcher")
	vip.SetDefault(WatchOnlyMaxAttemptsKey, 5)
	vip.SetDefault(ExplorerURLKey, "https://mempool.space/address/")
	vip.SetDefault(DescriptorScriptKey, descriptor.DefaultScriptPrefix)
	vip.SetDefault(DBInMemoryKey, false)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the folder of the state store, empty if the store is in
// memory only.
func GetDbDir() string {
	if GetBool(DBInMemoryKey) {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetNetwork() multisig.Network {
	return multisig.Network(GetString(NetworkKey))
}

// GetDefaultSigners returns the trimmed, non empty names of DEFAULT_SIGNERS.
func GetDefaultSigners() []string {
	names := make([]string, 0)
	for _, name := range strings.Split(GetString(DefaultSignersKey), ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// GetWebhooks returns the webhooks configured via WEBHOOK_ENDPOINTS.
func GetWebhooks() ([]webhookpubsub.Webhook, error) {
	return webhookpubsub.ParseWebhooks(
		strings.Split(GetString(WebhookEndpointsKey), ","),
		GetString(WebhookSecretKey),
	)
}

// GetRPCConnection returns the node connection configured via env, and
// whether one is configured at all.
func GetRPCConnection() (domain.Connection, bool) {
	host := GetString(RPCHostKey)
	if host == "" {
		return domain.Connection{}, false
	}
	return domain.Connection{
		Host:     host,
		Port:     GetInt(RPCPortKey),
		Username: GetString(RPCUserKey),
		Password: GetString(RPCPasswordKey),
	}, true
}

// GetWalletServiceConfig returns the policies of the wallet workflow.
func GetWalletServiceConfig() (application.Config, error) {
	policy, err := descriptor.NewPolicy(GetString(DescriptorScriptKey))
	if err != nil {
		return application.Config{}, err
	}

	return application.Config{
		Network:               GetNetwork(),
		AddressType:           multisig.AddressType(GetString(AddressTypeKey)),
		DefaultSigners:        GetDefaultSigners(),
		MinProvisionedSigners: GetInt(MinProvisionedSignersKey),
		InitialAddressBatch:   GetInt(InitialAddressBatchKey),
		StartingAddressIndex:  uint32(GetInt(StartingAddressIndexKey)),
		MinerWallet:           GetString(MinerWalletKey),
		MaturationBlocks:      GetInt(MaturationBlocksKey),
		WatchOnlyWalletPrefix: GetString(WatchOnlyWalletPrefixKey),
		WatchOnlyMaxAttempts:  GetInt(WatchOnlyMaxAttemptsKey),
		ExplorerURL:           GetString(ExplorerURLKey),
		DescriptorPolicy:      policy,
		RPCTimeout:            time.Duration(GetInt(RPCTimeoutKey)) * time.Second,
	}, nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := GetNetwork().Params(); err != nil {
		return err
	}
	addrType := GetString(AddressTypeKey)
	if _, err := multisig.ParseAddressType(addrType); err != nil {
		return err
	}
	if _, err := descriptor.NewPolicy(GetString(DescriptorScriptKey)); err != nil {
		return err
	}

	port := GetInt(ListeningPortKey)
	if port <= 1024 || port > 65535 {
		return fmt.Errorf("listening port must be in range (1024, 65535]")
	}
	if GetString(RPCHostKey) != "" {
		rpcPort := GetInt(RPCPortKey)
		if rpcPort <= 0 || rpcPort > 65535 {
			return fmt.Errorf("rpc port must be in range (0, 65535]")
		}
	}
	if GetInt(RPCTimeoutKey) < 0 {
		return fmt.Errorf("rpc timeout must not be negative")
	}

	minSigners := GetInt(MinProvisionedSignersKey)
	if minSigners < 1 {
		return fmt.Errorf("min provisioned signers must be at least 1")
	}
	if len(GetDefaultSigners()) < minSigners {
		return fmt.Errorf("default signers must be at least %d", minSigners)
	}
	if len(GetDefaultSigners()) > domain.MaxSigners {
		return fmt.Errorf("default signers must be at most %d", domain.MaxSigners)
	}
	if GetInt(InitialAddressBatchKey) < 1 {
		return fmt.Errorf("initial address batch must be at least 1")
	}
	startIndex := GetInt(StartingAddressIndexKey)
	if startIndex < 0 || int64(startIndex) > int64(multisig.MaxAddressIndex) {
		return fmt.Errorf(
			"starting address index must be in range [0, %d]", multisig.MaxAddressIndex,
		)
	}
	if GetInt(MaturationBlocksKey) < 1 {
		return fmt.Errorf("maturation blocks must be at least 1")
	}
	if GetInt(WatchOnlyMaxAttemptsKey) < 1 {
		return fmt.Errorf("watch-only max attempts must be at least 1")
	}
	if _, err := GetWebhooks(); err != nil {
		return err
	}
	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if !GetBool(DBInMemoryKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
