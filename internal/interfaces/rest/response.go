package restinterface

import (
	"net/http"

	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Response is the envelope of every REST reply.
type Response struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
	Kind  string      `json:"kind"`
}

var statusByKind = map[application.Kind]int{
	application.KindInvalidArgument:     http.StatusBadRequest,
	application.KindConfigFormat:        http.StatusBadRequest,
	application.KindKeyDerivation:       http.StatusBadRequest,
	application.KindNotFound:            http.StatusNotFound,
	application.KindConflict:            http.StatusConflict,
	application.KindPrecondition:        http.StatusConflict,
	application.KindInsufficientFunds:   http.StatusUnprocessableEntity,
	application.KindTransport:           http.StatusBadGateway,
	application.KindRPC:                 http.StatusBadGateway,
	application.KindWalletNotLoaded:     http.StatusBadGateway,
	application.KindDescriptorFormat:    http.StatusBadGateway,
	application.KindConfirmationTimeout: http.StatusGatewayTimeout,
}

func httpStatus(kind application.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Data: data})
}

func writeError(c *gin.Context, err error) {
	kind := application.ErrorKind(err)
	status := httpStatus(kind)
	if status == http.StatusInternalServerError {
		log.WithError(err).Errorf("%s %s", c.Request.Method, c.FullPath())
	}
	c.JSON(status, Response{Error: err.Error(), Kind: string(kind)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{
		Error: err.Error(),
		Kind:  string(application.KindInvalidArgument),
	})
}
