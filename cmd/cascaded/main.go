package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cascade-wallet/cascade-daemon/internal/config"
	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	webhookpubsub "github.com/cascade-wallet/cascade-daemon/internal/infrastructure/pubsub/webhook"
	dbbadger "github.com/cascade-wallet/cascade-daemon/internal/infrastructure/storage/badger"
	restinterface "github.com/cascade-wallet/cascade-daemon/internal/interfaces/rest"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/cascade-wallet/cascade-daemon/pkg/stats"
	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to initialize config")
	}

	logLevel := log.Level(config.GetInt(config.LogLevelKey))
	log.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		statsDir := filepath.Join(config.GetDatadir(), config.ProfilerLocation)
		stats.EnableMemoryStatistics(ctx, interval, statsDir)
	}

	// badger logs are too verbose unless debugging.
	var dbLogger badger.Logger
	if logLevel >= log.DebugLevel {
		dbLogger = log.StandardLogger()
	}
	repo, err := dbbadger.NewWalletStateRepository(config.GetDbDir(), dbLogger)
	if err != nil {
		log.WithError(err).Fatal("failed to open wallet state store")
	}
	defer repo.Close()

	walletCfg, err := config.GetWalletServiceConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid wallet config")
	}

	events := application.NewEventBus(0)
	defer events.Close()

	walletSvc, err := application.NewWalletService(
		ctx, walletCfg, repo, newNode, events,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize wallet service")
	}

	hooks, err := config.GetWebhooks()
	if err != nil {
		log.WithError(err).Fatal("invalid webhooks")
	}
	if len(hooks) > 0 {
		notifier := webhookpubsub.NewService(hooks)
		if err := notifier.Start(events); err != nil {
			log.WithError(err).Fatal("failed to start webhook notifier")
		}
		defer notifier.Stop()
	}

	if conn, ok := config.GetRPCConnection(); ok {
		status, err := walletSvc.Connect(ctx, conn)
		if err != nil {
			log.WithError(err).Warnf(
				"failed to connect to node at %s, connect via api", conn.URL(),
			)
		} else {
			log.Infof(
				"connected to %s node at %s, block height %d",
				status.Chain, conn.URL(), status.BlockCount,
			)
		}
	}

	svc, err := restinterface.NewService(restinterface.ServiceOpts{
		Address:   fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		WalletSvc: walletSvc,
		Events:    events,
		DebugMode: logLevel >= log.DebugLevel,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize rest interface")
	}

	log.Info("starting daemon")
	defer log.Info("shutdown")

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start rest interface")
	}
	defer svc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
}

func newNode(cfg bitcoind.ConnConfig) (ports.Node, error) {
	client, err := bitcoind.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
