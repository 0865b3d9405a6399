package util

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/fault"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SwapExactETHForTokensSignature is the Uniswap V2 Router 02 method the bot calls.
const SwapExactETHForTokensSignature = "swapExactETHForTokens(uint256,address[],address,uint256)"

var (
	// WETHAddress is the mainnet wrapped ether token, always path[0] of the swap.
	WETHAddress = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")

	// MaxDeadline is the largest uint256, i.e. a swap that never expires.
	MaxDeadline = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	swapSelector = crypto.Keccak256([]byte(SwapExactETHForTokensSignature))[:4]
)

// SwapExactETHForTokensSelector returns the 4-byte method id (0x7ff36ab5).
func SwapExactETHForTokensSelector() []byte {
	return append([]byte{}, swapSelector...)
}

// EncodeSwapExactETHForTokens ABI-encodes a swapExactETHForTokens call,
// selector included.
func EncodeSwapExactETHForTokens(amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	if amountOutMin == nil || deadline == nil {
		return nil, fmt.Errorf("amountOutMin and deadline are required")
	}

	uint256Type, _ := abi.NewType("uint256", "", nil)
	addressSliceType, _ := abi.NewType("address[]", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	arguments := abi.Arguments{
		{Type: uint256Type},
		{Type: addressSliceType},
		{Type: addressType},
		{Type: uint256Type},
	}

	encoded, err := arguments.Pack(amountOutMin, path, to, deadline)
	if err != nil {
		return nil, err
	}

	return append(SwapExactETHForTokensSelector(), encoded...), nil
}

// BuildSwapData builds the call data for swapping ether into tokenAddress
// with WETH as path[0], receiverAddress as the recipient and no deadline.
// amountOutMin is a hex quantity; addresses may omit the 0x prefix.
func BuildSwapData(amountOutMinHex string, tokenAddress string, receiverAddress string) ([]byte, error) {
	amount, err := HexStringToBuffer(amountOutMinHex, true)
	if err != nil {
		return nil, fmt.Errorf("invalid amountOutMin: %w", err)
	}
	if len(amount) > 32 {
		return nil, fmt.Errorf("invalid amountOutMin: %w", fault.ErrQuantityTooLong)
	}
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("invalid token address %q: %w", tokenAddress, fault.ErrInvalidAddressLen)
	}
	if !common.IsHexAddress(receiverAddress) {
		return nil, fmt.Errorf("invalid receiver address %q: %w", receiverAddress, fault.ErrInvalidAddressLen)
	}

	path := []common.Address{WETHAddress, common.HexToAddress(tokenAddress)}
	return EncodeSwapExactETHForTokens(new(big.Int).SetBytes(amount), path, common.HexToAddress(receiverAddress), MaxDeadline)
}
