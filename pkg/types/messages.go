package types

import "encoding/json"

// RelayRequest is a JSON-RPC request sent to the transaction relay
type RelayRequest struct {
	ID     string `json:"id,omitempty"`
	Method string `json:"method"`
	Params any    `json:"params"`
}

// SubscribeOptions selects the fields and filter of a newTxs subscription
type SubscribeOptions struct {
	Include []string `json:"include"`
	Filters string   `json:"filters,omitempty"`
}

// TransactionParams carries a signed transaction to the relay
type TransactionParams struct {
	Transaction string `json:"transaction"`
}

// RelayNotification is a subscription push from the relay
type RelayNotification struct {
	JSONRPC string                   `json:"jsonrpc"`
	Method  string                   `json:"method"`
	Params  *RelayNotificationParams `json:"params"`
}

type RelayNotificationParams struct {
	Subscription string          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// TxContents is the subset of a pending transaction the bot subscribes to
type TxContents struct {
	Input    string `json:"input"`
	GasPrice string `json:"gasPrice"`
	To       string `json:"to,omitempty"`
	Value    string `json:"value,omitempty"`
}

type NewTxResult struct {
	TxHash     string      `json:"txHash,omitempty"`
	TxContents *TxContents `json:"txContents"`
}
