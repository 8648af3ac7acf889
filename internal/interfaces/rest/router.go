package restinterface

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/internal/core/ports"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WalletService defines the workflow operations exposed over REST.
type WalletService interface {
	TestConnection(ctx context.Context, conn domain.Connection) (*application.ConnectionStatus, error)
	Connect(ctx context.Context, conn domain.Connection) (*application.ConnectionStatus, error)
	Disconnect(ctx context.Context) error
	Signers(ctx context.Context) []domain.SignerWallet
	AddSigner(ctx context.Context, name string) ([]domain.SignerWallet, error)
	RemoveSigner(ctx context.Context, name string) ([]domain.SignerWallet, error)
	RenameSigner(ctx context.Context, oldName, newName string) ([]domain.SignerWallet, error)
	ProvisionWallets(ctx context.Context) ([]domain.SignerWallet, error)
	RetrySigner(ctx context.Context, name string) (*domain.SignerWallet, error)
	ClearWallets(ctx context.Context) error
	SetQuorum(ctx context.Context, required int, addrType multisig.AddressType) (*domain.Quorum, error)
	CreateMultisig(ctx context.Context) (*application.Status, error)
	ManualSetup(ctx context.Context, keys []domain.ExtendedKey, required int, addrType multisig.AddressType) (*application.Status, error)
	Addresses(ctx context.Context) ([]domain.DerivedAddress, error)
	GenerateNewAddress(ctx context.Context) (*domain.DerivedAddress, error)
	Fund(ctx context.Context, address string, amount btcutil.Amount) (*application.FundingResult, error)
	Send(ctx context.Context, address string, amount btcutil.Amount) (*domain.Transaction, error)
	Transactions(ctx context.Context) []domain.Transaction
	RefreshBalances(ctx context.Context) ([]domain.DerivedAddress, error)
	ExportConfig(ctx context.Context) ([]byte, error)
	ImportConfig(ctx context.Context, data []byte) (*application.Status, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) application.Status
}

// EventSource is where the websocket endpoint reads workflow events from.
type EventSource interface {
	Subscribe() (string, <-chan ports.Event)
	Unsubscribe(id string)
}

type handler struct {
	svc    WalletService
	events EventSource
	quit   <-chan struct{}
}

func newRouter(
	svc WalletService, events EventSource, quit <-chan struct{},
) *gin.Engine {
	h := &handler{svc, events, quit}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(slowRequestThreshold))
	router.Use(cors.Default())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/connect", h.connect)
		v1.POST("/connect/test", h.testConnection)
		v1.POST("/disconnect", h.disconnect)

		v1.GET("/signers", h.listSigners)
		v1.POST("/signers", h.addSigner)
		v1.DELETE("/signers/:name", h.removeSigner)
		v1.PUT("/signers/:name", h.renameSigner)
		v1.POST("/signers/provision", h.provision)
		v1.POST("/signers/:name/retry", h.retrySigner)
		v1.POST("/signers/clear", h.clearWallets)

		v1.PUT("/quorum", h.setQuorum)
		v1.POST("/multisig", h.createMultisig)
		v1.POST("/multisig/manual", h.manualSetup)

		v1.GET("/addresses", h.listAddresses)
		v1.POST("/addresses", h.newAddress)
		v1.POST("/fund", h.fund)
		v1.POST("/send", h.send)
		v1.GET("/transactions", h.listTransactions)
		v1.POST("/balances/refresh", h.refreshBalances)

		v1.GET("/config/export", h.exportConfig)
		v1.POST("/config/import", h.importConfig)

		v1.POST("/reset", h.reset)
		v1.GET("/status", h.status)
		v1.GET("/events", h.streamEvents)
	}

	return router
}
