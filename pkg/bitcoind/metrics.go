package bitcoind

import (
	"github.com/prometheus/client_golang/prometheus"
)

var rpcCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "cascade",
		Name:      "rpc_calls_total",
		Help:      "Number of JSON-RPC calls sent to bitcoind, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

func init() {
	prometheus.MustRegister(rpcCalls)
}

func observeCall(method string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsTransportError(err):
		outcome = "transport_error"
	default:
		outcome = "rpc_error"
	}
	rpcCalls.WithLabelValues(method, outcome).Inc()
}
