package domain

// TxDirection ...
type TxDirection string

// TxStatus ...
type TxStatus string

const (
	TxIncoming TxDirection = "incoming"
	TxOutgoing TxDirection = "outgoing"

	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
)

// Transaction is a wallet activity record. Outgoing ones are simulated
// locally and never broadcast, incoming ones are fundings sent by the miner
// wallet on regtest.
type Transaction struct {
	TxID          string      `json:"txid"`
	Direction     TxDirection `json:"type"`
	Status        TxStatus    `json:"status"`
	Address       string      `json:"address"`
	AmountSats    int64       `json:"amountSats"`
	Confirmations int64       `json:"confirmations"`
	Timestamp     int64       `json:"timestamp"`
	Simulated     bool        `json:"simulated"`
}
