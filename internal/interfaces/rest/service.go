package restinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cascade-wallet/cascade-daemon/internal/interfaces"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// ServiceOpts ...
type ServiceOpts struct {
	Address   string
	WalletSvc WalletService
	Events    EventSource
	// Logs every request and runs gin in debug mode.
	DebugMode bool
}

func (o ServiceOpts) validate() error {
	if !isValidAddress(o.Address) {
		return fmt.Errorf("%s: address must be in the form [host]:port", o.Address)
	}
	if o.WalletSvc == nil {
		return fmt.Errorf("missing wallet service")
	}
	if o.Events == nil {
		return fmt.Errorf("missing event source")
	}
	return nil
}

type service struct {
	opts       ServiceOpts
	httpServer *http.Server

	// closed on Stop to terminate the open websocket streams, which are not
	// tracked by http.Server.Shutdown.
	quit     chan struct{}
	stopOnce sync.Once
}

// NewService returns the REST interface of the daemon.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{
		opts: opts,
		quit: make(chan struct{}),
	}, nil
}

func (s *service) Start() error {
	if !s.opts.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(s.opts.WalletSvc, s.opts.Events, s.quit)
	s.httpServer = &http.Server{
		Addr:              s.opts.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.httpServer.Serve(lis); err != nil &&
			err != http.ErrServerClosed {
			log.WithError(err).Error("rest server stopped unexpectedly")
		}
	}()

	log.Infof("rest interface is listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.httpServer == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Debug("stop rest server")
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("failed to gracefully stop rest server")
		}
	})
}

func isValidAddress(addr string) bool {
	parts := strings.Split(addr, ":")
	if len(parts) != 2 {
		return false
	}
	if parts[0] != "" && parts[0] != "localhost" {
		if ip := net.ParseIP(parts[0]); ip == nil {
			return false
		}
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	if port <= 1024 || port > 65535 {
		return false
	}
	return true
}
