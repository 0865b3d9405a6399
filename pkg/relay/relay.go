// Package relay builds and parses the JSON-RPC messages exchanged with a
// transaction relay's websocket stream: the pending-transaction subscription,
// the notifications it produces, and the message that submits a signed
// transaction. It does no networking.
package relay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

const (
	MethodSubscribe   = "subscribe"
	MethodTransaction = "blxr_tx"

	StreamNewTxs = "newTxs"

	// UniswapV2Router02 is the router whose addLiquidityETH calls are watched.
	UniswapV2Router02 = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"

	// AddLiquidityETHMethodID is the selector of
	// addLiquidityETH(address,uint256,uint256,uint256,address,uint256).
	AddLiquidityETHMethodID = "f305d719"
)

var (
	subscribeInclude = []string{"tx_contents.input", "tx_contents.gas_price"}

	addLiquidityETHSelector = common.FromHex(AddLiquidityETHMethodID)
)

// Filters narrows the newTxs stream to liquidity additions worth reacting to.
type Filters struct {
	// MinimumLiquidityWei is the smallest ETH value of the addLiquidityETH call.
	MinimumLiquidityWei *uint256.Int
	// MaximumGasPriceWei drops pending transactions priced above this.
	MaximumGasPriceWei *uint256.Int
}

// Expression renders the relay's filter language.
func (f *Filters) Expression() string {
	minimum, maximum := new(uint256.Int), new(uint256.Int)
	if f.MinimumLiquidityWei != nil {
		minimum = f.MinimumLiquidityWei
	}
	if f.MaximumGasPriceWei != nil {
		maximum = f.MaximumGasPriceWei
	}
	return fmt.Sprintf("method_id = %s and to = %s and value >= %s and gas_price <= %s",
		AddLiquidityETHMethodID, UniswapV2Router02, minimum.Dec(), maximum.Dec())
}

// NewRequestID returns a fresh JSON-RPC request id.
func NewRequestID() string {
	return uuid.NewString()
}

// BuildSubscribe returns the message that opens a filtered newTxs stream.
func BuildSubscribe(filters *Filters) ([]byte, error) {
	if filters == nil {
		return nil, fmt.Errorf("filters cannot be nil")
	}
	return json.Marshal(&types.RelayRequest{
		ID:     NewRequestID(),
		Method: MethodSubscribe,
		Params: []any{
			StreamNewTxs,
			&types.SubscribeOptions{
				Include: subscribeInclude,
				Filters: filters.Expression(),
			},
		},
	})
}

// BuildTransaction returns the message that submits a signed transaction.
// rawTxHex is the signed encoding in hex, with or without 0x. The message
// carries it as lowercase hex without a prefix.
func BuildTransaction(rawTxHex string) ([]byte, error) {
	if util.TrimHexPrefix(rawTxHex) == "" {
		return nil, fmt.Errorf("raw transaction cannot be empty")
	}
	raw, err := util.HexStringToBuffer(rawTxHex, false)
	if err != nil {
		return nil, fmt.Errorf("raw transaction is not hex: %w", err)
	}
	return json.Marshal(&types.RelayRequest{
		ID:     NewRequestID(),
		Method: MethodTransaction,
		Params: &types.TransactionParams{Transaction: util.BufferToHexString(raw, false)},
	})
}

// Notification is a decoded newTxs push.
type Notification struct {
	Subscription string
	TxHash       string
	Input        []byte
	GasPrice     *uint256.Int
}

// ParseNotification decodes a subscription push. Responses to requests and
// pushes from other methods are rejected.
func ParseNotification(msg []byte) (*Notification, error) {
	var n types.RelayNotification
	if err := json.Unmarshal(msg, &n); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	if n.Method != MethodSubscribe {
		return nil, fmt.Errorf("unexpected method %q", n.Method)
	}
	if n.Params == nil || len(n.Params.Result) == 0 {
		return nil, fmt.Errorf("notification has no result")
	}

	var result types.NewTxResult
	if err := json.Unmarshal(n.Params.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode notification result: %w", err)
	}
	if result.TxContents == nil {
		return nil, fmt.Errorf("notification has no tx contents")
	}

	input, err := util.HexStringToBuffer(result.TxContents.Input, false)
	if err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	gasPriceBytes, err := util.HexStringToBuffer(result.TxContents.GasPrice, true)
	if err != nil {
		return nil, fmt.Errorf("invalid gas price: %w", err)
	}
	if len(gasPriceBytes) > 32 {
		return nil, fmt.Errorf("gas price exceeds 256 bits")
	}

	return &Notification{
		Subscription: n.Params.Subscription,
		TxHash:       result.TxHash,
		Input:        input,
		GasPrice:     new(uint256.Int).SetBytes(gasPriceBytes),
	}, nil
}

// Token returns the token argument of an addLiquidityETH call.
func (n *Notification) Token() (common.Address, bool) {
	// selector, then the first argument word whose low 20 bytes are the token
	if len(n.Input) < 4+32 || !bytes.Equal(n.Input[:4], addLiquidityETHSelector) {
		return common.Address{}, false
	}
	return common.BytesToAddress(n.Input[4+12 : 4+32]), true
}

// MatchesToken reports whether the notification adds liquidity for token.
func (n *Notification) MatchesToken(token common.Address) bool {
	got, ok := n.Token()
	return ok && got == token
}
