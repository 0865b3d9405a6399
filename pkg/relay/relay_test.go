package relay

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "0x6B175474E89094C44Da98b954EedeAC495271d0F"

func addLiquidityInput(token string) string {
	return "0x" + AddLiquidityETHMethodID +
		"000000000000000000000000" + strings.ToLower(strings.TrimPrefix(token, "0x")) +
		strings.Repeat("0", 64*5)
}

func notification(input, gasPrice string) []byte {
	return []byte(`{"jsonrpc":"2.0","id":null,"method":"subscribe","params":{"subscription":"9f5b1a7e","result":` +
		`{"txHash":"0xabc","txContents":{"input":"` + input + `","gasPrice":"` + gasPrice + `"}}}}`)
}

func Test_BuildSubscribe(t *testing.T) {
	msg, err := BuildSubscribe(&Filters{
		MinimumLiquidityWei: uint256.NewInt(5_000_000_000_000_000_000),
		MaximumGasPriceWei:  uint256.NewInt(300_000_000_000),
	})
	require.NoError(t, err)

	var decoded struct {
		ID     string            `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	require.NoError(t, json.Unmarshal(msg, &decoded))

	_, err = uuid.Parse(decoded.ID)
	assert.NoError(t, err)
	assert.Equal(t, "subscribe", decoded.Method)
	require.Len(t, decoded.Params, 2)
	assert.JSONEq(t, `"newTxs"`, string(decoded.Params[0]))
	assert.JSONEq(t, `{
		"include": ["tx_contents.input", "tx_contents.gas_price"],
		"filters": "method_id = f305d719 and to = 0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D and value >= 5000000000000000000 and gas_price <= 300000000000"
	}`, string(decoded.Params[1]))

	_, err = BuildSubscribe(nil)
	assert.Error(t, err)
}

func Test_BuildTransaction(t *testing.T) {
	msg, err := BuildTransaction("0xf86a8086")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg, &decoded))
	assert.Equal(t, "blxr_tx", decoded["method"])
	assert.Equal(t, map[string]any{"transaction": "f86a8086"}, decoded["params"])

	first, _ := BuildTransaction("f86a")
	second, _ := BuildTransaction("f86a")
	assert.NotEqual(t, first, second, "each request gets its own id")

	_, err = BuildTransaction("")
	assert.Error(t, err)
	_, err = BuildTransaction("0xzz")
	assert.Error(t, err)
}

func Test_BuildTransactionHexPolicy(t *testing.T) {
	params := func(t *testing.T, msg []byte) any {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(msg, &decoded))
		return decoded["params"]
	}

	t.Run("Should normalise case and prefix", func(t *testing.T) {
		msg, err := BuildTransaction("0XF86A8086")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"transaction": "f86a8086"}, params(t, msg))
	})

	t.Run("Should read an odd digit count with a leading zero", func(t *testing.T) {
		msg, err := BuildTransaction("0xf86a808")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"transaction": "0f86a808"}, params(t, msg))
	})

	t.Run("Should reject non-hex as invalid", func(t *testing.T) {
		for _, in := range []string{"0xzz", "f86g", "0x 1"} {
			_, err := BuildTransaction(in)
			require.Error(t, err, in)
			assert.True(t, fault.IsErrInvalid(err), in)
		}
	})

	t.Run("Should reject a bare prefix", func(t *testing.T) {
		_, err := BuildTransaction("0x")
		assert.Error(t, err)
	})
}

func Test_ParseNotification(t *testing.T) {
	t.Run("Should decode input and gas price", func(t *testing.T) {
		n, err := ParseNotification(notification(addLiquidityInput(testToken), "0x2540be400"))
		require.NoError(t, err)

		assert.Equal(t, "9f5b1a7e", n.Subscription)
		assert.Equal(t, "0xabc", n.TxHash)
		assert.Equal(t, uint64(10_000_000_000), n.GasPrice.Uint64())
		assert.Len(t, n.Input, 4+32*6)

		token, ok := n.Token()
		require.True(t, ok)
		assert.Equal(t, common.HexToAddress(testToken), token)
		assert.True(t, n.MatchesToken(common.HexToAddress(testToken)))
		assert.False(t, n.MatchesToken(common.HexToAddress(UniswapV2Router02)))
	})

	t.Run("Should not match other calls", func(t *testing.T) {
		input := strings.Replace(addLiquidityInput(testToken), AddLiquidityETHMethodID, "7ff36ab5", 1)
		n, err := ParseNotification(notification(input, "0x1"))
		require.NoError(t, err)
		assert.False(t, n.MatchesToken(common.HexToAddress(testToken)))

		n, err = ParseNotification(notification("0x"+AddLiquidityETHMethodID, "0x1"))
		require.NoError(t, err)
		_, ok := n.Token()
		assert.False(t, ok)
	})

	t.Run("Should reject malformed messages", func(t *testing.T) {
		bad := [][]byte{
			[]byte(`not json`),
			[]byte(`{"id":"1","result":"0x1"}`),
			[]byte(`{"method":"subscribe","params":{"subscription":"x"}}`),
			[]byte(`{"method":"subscribe","params":{"subscription":"x","result":{}}}`),
			notification("0xzz", "0x1"),
			notification("0x", "0xqq"),
			notification("0x", "0x1"+strings.Repeat("0", 64)),
		}
		for _, msg := range bad {
			_, err := ParseNotification(msg)
			assert.Error(t, err, string(msg))
		}
	})
}
