package restinterface

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/gin-gonic/gin"
)

const maxConfigFileSize = 1 << 20

// ConnectRequest ...
type ConnectRequest struct {
	Host     string `json:"host" binding:"required"`
	Port     int    `json:"port" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignerRequest carries the name of the signer to add, or the new name of
// the one to rename.
type SignerRequest struct {
	Name string `json:"name" binding:"required"`
}

// QuorumRequest ...
type QuorumRequest struct {
	RequiredSigners int    `json:"requiredSigners" binding:"required"`
	AddressType     string `json:"addressType"`
}

// ManualSetupRequest ...
type ManualSetupRequest struct {
	Keys            []domain.ExtendedKey `json:"keys" binding:"required"`
	RequiredSigners int                  `json:"requiredSigners" binding:"required"`
	AddressType     string               `json:"addressType"`
}

// AmountRequest is used by fund and send, the amount is in BTC.
type AmountRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount" binding:"required"`
}

// ConnectionResponse ...
type ConnectionResponse struct {
	Connection domain.Connection `json:"connection"`
	Chain      string            `json:"chain"`
	BlockCount int64             `json:"blockCount"`
}

// FundResponse ...
type FundResponse struct {
	TxID          string `json:"txid"`
	Address       string `json:"address"`
	Amount        string `json:"amount"`
	Confirmations int64  `json:"confirmations"`
	BlocksMined   int    `json:"blocksMined"`
}

// StatusResponse ...
type StatusResponse struct {
	Name            string                `json:"name"`
	Network         string                `json:"network"`
	Connection      domain.Connection     `json:"connection"`
	Signers         []domain.SignerWallet `json:"signers"`
	Quorum          domain.Quorum         `json:"quorum"`
	Created         bool                  `json:"created"`
	Source          string                `json:"source,omitempty"`
	DepositAddress  string                `json:"depositAddress,omitempty"`
	AddressCount    int                   `json:"addressCount"`
	TotalBalance    string                `json:"totalBalance"`
	WatchOnlyWallet string                `json:"watchOnlyWallet,omitempty"`
	ExplorerURL     string                `json:"explorerUrl"`
	InProgress      []string              `json:"inProgress"`
}

func (h *handler) connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := h.svc.Connect(c.Request.Context(), req.toConnection())
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, toConnectionResponse(status))
}

func (h *handler) testConnection(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := h.svc.TestConnection(c.Request.Context(), req.toConnection())
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, toConnectionResponse(status))
}

func (h *handler) disconnect(c *gin.Context) {
	if err := h.svc.Disconnect(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	writeData(c, nil)
}

func (h *handler) listSigners(c *gin.Context) {
	writeData(c, h.svc.Signers(c.Request.Context()))
}

func (h *handler) addSigner(c *gin.Context) {
	var req SignerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	signers, err := h.svc.AddSigner(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, signers)
}

func (h *handler) removeSigner(c *gin.Context) {
	signers, err := h.svc.RemoveSigner(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, signers)
}

func (h *handler) renameSigner(c *gin.Context) {
	var req SignerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	signers, err := h.svc.RenameSigner(
		c.Request.Context(), c.Param("name"), req.Name,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, signers)
}

func (h *handler) provision(c *gin.Context) {
	signers, err := h.svc.ProvisionWallets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, signers)
}

func (h *handler) retrySigner(c *gin.Context) {
	signer, err := h.svc.RetrySigner(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, signer)
}

func (h *handler) clearWallets(c *gin.Context) {
	if err := h.svc.ClearWallets(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	writeData(c, h.svc.Signers(c.Request.Context()))
}

func (h *handler) setQuorum(c *gin.Context) {
	var req QuorumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	quorum, err := h.svc.SetQuorum(
		c.Request.Context(), req.RequiredSigners,
		multisig.AddressType(req.AddressType),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, quorum)
}

func (h *handler) createMultisig(c *gin.Context) {
	status, err := h.svc.CreateMultisig(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, toStatusResponse(*status))
}

func (h *handler) manualSetup(c *gin.Context) {
	var req ManualSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := h.svc.ManualSetup(
		c.Request.Context(), req.Keys, req.RequiredSigners,
		multisig.AddressType(req.AddressType),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, toStatusResponse(*status))
}

func (h *handler) listAddresses(c *gin.Context) {
	addresses, err := h.svc.Addresses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, addresses)
}

func (h *handler) newAddress(c *gin.Context) {
	addr, err := h.svc.GenerateNewAddress(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, addr)
}

func (h *handler) fund(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := application.ParseBTCAmount(req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.svc.Fund(c.Request.Context(), req.Address, amount)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, FundResponse{
		TxID:          res.TxID,
		Address:       res.Address,
		Amount:        application.FormatBTC(int64(res.Amount)),
		Confirmations: res.Confirmations,
		BlocksMined:   res.BlocksMined,
	})
}

func (h *handler) send(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := application.ParseBTCAmount(req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	tx, err := h.svc.Send(c.Request.Context(), req.Address, amount)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, tx)
}

func (h *handler) listTransactions(c *gin.Context) {
	writeData(c, h.svc.Transactions(c.Request.Context()))
}

func (h *handler) refreshBalances(c *gin.Context) {
	addresses, err := h.svc.RefreshBalances(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, addresses)
}

// exportConfig replies with the bare config file, so that it can be
// downloaded as is.
func (h *handler) exportConfig(c *gin.Context) {
	data, err := h.svc.ExportConfig(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (h *handler) importConfig(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxConfigFileSize+1))
	if err != nil {
		badRequest(c, err)
		return
	}
	if len(data) > maxConfigFileSize {
		badRequest(c, fmt.Errorf("config file must not exceed %d bytes", maxConfigFileSize))
		return
	}
	status, err := h.svc.ImportConfig(c.Request.Context(), data)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, toStatusResponse(*status))
}

func (h *handler) reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	writeData(c, toStatusResponse(h.svc.Status(c.Request.Context())))
}

func (h *handler) status(c *gin.Context) {
	writeData(c, toStatusResponse(h.svc.Status(c.Request.Context())))
}

func (r ConnectRequest) toConnection() domain.Connection {
	return domain.Connection{
		Host:     r.Host,
		Port:     r.Port,
		Username: r.Username,
		Password: r.Password,
	}
}

func toConnectionResponse(s *application.ConnectionStatus) ConnectionResponse {
	return ConnectionResponse{
		Connection: s.Connection,
		Chain:      s.Chain,
		BlockCount: s.BlockCount,
	}
}

func toStatusResponse(s application.Status) StatusResponse {
	inProgress := s.InProgress
	if inProgress == nil {
		inProgress = []string{}
	}
	return StatusResponse{
		Name:            s.Name,
		Network:         string(s.Network),
		Connection:      s.Connection,
		Signers:         s.Signers,
		Quorum:          s.Quorum,
		Created:         s.Created,
		Source:          string(s.Source),
		DepositAddress:  s.DepositAddress,
		AddressCount:    s.AddressCount,
		TotalBalance:    application.FormatBTC(s.TotalBalanceSats),
		WatchOnlyWallet: s.WatchOnlyWallet,
		ExplorerURL:     s.ExplorerURL,
		InProgress:      inProgress,
	}
}
