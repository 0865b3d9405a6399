package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/pregen"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/relay"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transaction"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for bot configuration
const (
	EnvRawtxConfig      = "RAWTX_CONFIG"
	EnvRawtxPrivateKey  = "RAWTX_PRIVATE_KEY"
	EnvRawtxChainID     = "RAWTX_CHAIN_ID"
	EnvRawtxBackend     = "RAWTX_SIGNING_BACKEND"
	EnvRawtxPersistence = "RAWTX_PERSISTENCE"
	EnvRawtxBadgerPath  = "RAWTX_BADGER_PATH"
	EnvRawtxRedisAddr   = "RAWTX_REDIS_ADDRESS"
	EnvRawtxDebug       = "RAWTX_DEBUG"
)

type ChainId uint64

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_EthereumMainnet: ChainId_EthereumMainnet,
	ChainName_EthereumSepolia: ChainId_EthereumSepolia,
	ChainName_EthereumAnvil:   ChainId_EthereumAnvil,
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}

// ParseChainId accepts a chain name or a decimal chain id. Unknown numeric
// ids are allowed, since signing works for any EIP-155 chain.
func ParseChainId(s string) (ChainId, error) {
	s = strings.TrimSpace(s)
	if id, ok := ChainNameToId[ChainName(strings.ToLower(s))]; ok {
		return id, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 || n > transaction.MaxChainID {
		return 0, fmt.Errorf("invalid chain id %q, expected a name or one of %s", s, GetSupportedChainIDsString())
	}
	return ChainId(n), nil
}

type PersistenceType string

const (
	PersistenceMemory PersistenceType = "memory"
	PersistenceBadger PersistenceType = "badger"
	PersistenceRedis  PersistenceType = "redis"
)

// TransactionConfig is the template of the transaction sent in response to a
// liquidity addition. Quantities are hex, with or without 0x.
type TransactionConfig struct {
	Nonce    string `toml:"nonce" json:"nonce"`
	Value    string `toml:"value" json:"value"`
	To       string `toml:"to" json:"to"`
	GasLimit string `toml:"gas_limit" json:"gasLimit"`
}

// SwapConfig holds the swapExactETHForTokens arguments.
type SwapConfig struct {
	AmountOutMin    string `toml:"amount_out_min" json:"amountOutMin"`
	TokenAddress    string `toml:"token_address" json:"tokenAddress"`
	ReceiverAddress string `toml:"receiver_address" json:"receiverAddress"`
}

// RelayConfig holds the relay connection and subscription filter. Wei
// amounts are decimal strings.
type RelayConfig struct {
	URL                 string `toml:"url" json:"url"`
	AuthToken           string `toml:"auth_token" json:"-"`
	MinimumLiquidityWei string `toml:"minimum_liquidity_wei" json:"minimumLiquidityWei"`
	MaximumGasPriceWei  string `toml:"maximum_gas_price_wei" json:"maximumGasPriceWei"`
}

type PersistenceConfig struct {
	Type          PersistenceType `toml:"type" json:"type"`
	BadgerPath    string          `toml:"badger_path" json:"badgerPath"`
	RedisAddress  string          `toml:"redis_address" json:"redisAddress"`
	RedisPassword string          `toml:"redis_password" json:"-"`
	RedisDB       int             `toml:"redis_db" json:"redisDb"`
	RedisPrefix   string          `toml:"redis_key_prefix" json:"redisKeyPrefix"`
}

// BotConfig is the complete configuration of the sniping bot.
type BotConfig struct {
	PrivateKey     string            `toml:"private_key" json:"-"`
	ChainID        ChainId           `toml:"chain_id" json:"chainId"`
	SigningBackend crypto.Backend    `toml:"signing_backend" json:"signingBackend"`
	Debug          bool              `toml:"debug" json:"debug"`
	Transaction    TransactionConfig `toml:"transaction" json:"transaction"`
	Swap           SwapConfig        `toml:"swap" json:"swap"`
	Relay          RelayConfig       `toml:"relay" json:"relay"`
	Pregen         pregen.Range      `toml:"pregen" json:"pregen"`
	Persistence    PersistenceConfig `toml:"persistence" json:"persistence"`
}

// DefaultBotConfig returns the configuration used for keys a file omits.
func DefaultBotConfig() *BotConfig {
	return &BotConfig{
		ChainID:        ChainId_EthereumMainnet,
		SigningBackend: crypto.BackendGeth,
		Transaction: TransactionConfig{
			Nonce:    "0",
			Value:    "0de0b6b3a7640000",
			To:       relay.UniswapV2Router02,
			GasLimit: "30d40",
		},
		Relay: RelayConfig{
			URL:                 "ws://localhost:3000",
			MinimumLiquidityWei: "0",
			MaximumGasPriceWei:  "1000000000000",
		},
		Pregen: pregen.Range{
			FromGwei: 100,
			ToGwei:   500,
			Decimals: 100,
		},
		Persistence: PersistenceConfig{
			Type: PersistenceMemory,
		},
	}
}

// LoadConfigFile decodes a TOML file over DefaultBotConfig. Keys missing from
// the file keep their default values.
func LoadConfigFile(path string) (*BotConfig, error) {
	cfg := DefaultBotConfig()
	var raw BotConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config: unknown keys %v", undecoded)
	}

	overlay := func(dst *string, src string, key ...string) {
		if meta.IsDefined(key...) {
			*dst = strings.TrimSpace(src)
		}
	}

	overlay(&cfg.PrivateKey, raw.PrivateKey, "private_key")
	if meta.IsDefined("chain_id") {
		cfg.ChainID = raw.ChainID
	}
	if meta.IsDefined("signing_backend") {
		cfg.SigningBackend = crypto.Backend(strings.TrimSpace(string(raw.SigningBackend)))
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	overlay(&cfg.Transaction.Nonce, raw.Transaction.Nonce, "transaction", "nonce")
	overlay(&cfg.Transaction.Value, raw.Transaction.Value, "transaction", "value")
	overlay(&cfg.Transaction.To, raw.Transaction.To, "transaction", "to")
	overlay(&cfg.Transaction.GasLimit, raw.Transaction.GasLimit, "transaction", "gas_limit")

	overlay(&cfg.Swap.AmountOutMin, raw.Swap.AmountOutMin, "swap", "amount_out_min")
	overlay(&cfg.Swap.TokenAddress, raw.Swap.TokenAddress, "swap", "token_address")
	overlay(&cfg.Swap.ReceiverAddress, raw.Swap.ReceiverAddress, "swap", "receiver_address")

	overlay(&cfg.Relay.URL, raw.Relay.URL, "relay", "url")
	overlay(&cfg.Relay.AuthToken, raw.Relay.AuthToken, "relay", "auth_token")
	overlay(&cfg.Relay.MinimumLiquidityWei, raw.Relay.MinimumLiquidityWei, "relay", "minimum_liquidity_wei")
	overlay(&cfg.Relay.MaximumGasPriceWei, raw.Relay.MaximumGasPriceWei, "relay", "maximum_gas_price_wei")

	if meta.IsDefined("pregen", "from_gwei") {
		cfg.Pregen.FromGwei = raw.Pregen.FromGwei
	}
	if meta.IsDefined("pregen", "to_gwei") {
		cfg.Pregen.ToGwei = raw.Pregen.ToGwei
	}
	if meta.IsDefined("pregen", "decimals") {
		cfg.Pregen.Decimals = raw.Pregen.Decimals
	}

	if meta.IsDefined("persistence", "type") {
		cfg.Persistence.Type = PersistenceType(strings.TrimSpace(string(raw.Persistence.Type)))
	}
	overlay(&cfg.Persistence.BadgerPath, raw.Persistence.BadgerPath, "persistence", "badger_path")
	overlay(&cfg.Persistence.RedisAddress, raw.Persistence.RedisAddress, "persistence", "redis_address")
	overlay(&cfg.Persistence.RedisPassword, raw.Persistence.RedisPassword, "persistence", "redis_password")
	if meta.IsDefined("persistence", "redis_db") {
		cfg.Persistence.RedisDB = raw.Persistence.RedisDB
	}
	overlay(&cfg.Persistence.RedisPrefix, raw.Persistence.RedisPrefix, "persistence", "redis_key_prefix")

	return cfg, nil
}

// Validate checks the whole configuration and reports every problem at once.
func (c *BotConfig) Validate() error {
	return c.validate(true)
}

// ValidateWithoutKey checks everything except the private key, for commands
// that never sign.
func (c *BotConfig) ValidateWithoutKey() error {
	return c.validate(false)
}

func (c *BotConfig) validate(requireKey bool) error {
	var allErrors field.ErrorList

	if requireKey {
		if c.PrivateKey == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("private_key"), "private key is required"))
		} else if key, err := util.HexStringToBuffer(c.PrivateKey, false); err != nil || len(key) != crypto.PrivateKeyLength {
			allErrors = append(allErrors, field.Invalid(field.NewPath("private_key"), "<redacted>", "must be 32 bytes of hex"))
		}
	}

	if c.ChainID == 0 || uint64(c.ChainID) > transaction.MaxChainID {
		allErrors = append(allErrors, field.Invalid(field.NewPath("chain_id"), c.ChainID,
			fmt.Sprintf("must be between 1 and %d", transaction.MaxChainID)))
	}

	switch c.SigningBackend {
	case crypto.BackendGeth, crypto.BackendDecred:
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("signing_backend"), c.SigningBackend,
			[]string{string(crypto.BackendGeth), string(crypto.BackendDecred)}))
	}

	txPath := field.NewPath("transaction")
	for _, q := range []struct {
		name, value string
	}{
		{"nonce", c.Transaction.Nonce},
		{"value", c.Transaction.Value},
		{"gas_limit", c.Transaction.GasLimit},
	} {
		if err := validateQuantity(q.value); err != nil {
			allErrors = append(allErrors, field.Invalid(txPath.Child(q.name), q.value, err.Error()))
		}
	}
	if !common.IsHexAddress(c.Transaction.To) {
		allErrors = append(allErrors, field.Invalid(txPath.Child("to"), c.Transaction.To, "must be a 20 byte hex address"))
	}

	swapPath := field.NewPath("swap")
	if err := validateQuantity(c.Swap.AmountOutMin); err != nil {
		allErrors = append(allErrors, field.Invalid(swapPath.Child("amount_out_min"), c.Swap.AmountOutMin, err.Error()))
	}
	if !common.IsHexAddress(c.Swap.TokenAddress) {
		allErrors = append(allErrors, field.Invalid(swapPath.Child("token_address"), c.Swap.TokenAddress, "must be a 20 byte hex address"))
	}
	if !common.IsHexAddress(c.Swap.ReceiverAddress) {
		allErrors = append(allErrors, field.Invalid(swapPath.Child("receiver_address"), c.Swap.ReceiverAddress, "must be a 20 byte hex address"))
	}

	relayPath := field.NewPath("relay")
	if c.Relay.URL == "" {
		allErrors = append(allErrors, field.Required(relayPath.Child("url"), "relay url is required"))
	}
	if _, err := uint256.FromDecimal(c.Relay.MinimumLiquidityWei); err != nil {
		allErrors = append(allErrors, field.Invalid(relayPath.Child("minimum_liquidity_wei"), c.Relay.MinimumLiquidityWei, "must be a decimal wei amount"))
	}
	if _, err := uint256.FromDecimal(c.Relay.MaximumGasPriceWei); err != nil {
		allErrors = append(allErrors, field.Invalid(relayPath.Child("maximum_gas_price_wei"), c.Relay.MaximumGasPriceWei, "must be a decimal wei amount"))
	}

	if err := c.Pregen.Validate(); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("pregen"), c.Pregen, err.Error()))
	}

	persistencePath := field.NewPath("persistence")
	switch c.Persistence.Type {
	case PersistenceMemory:
	case PersistenceBadger:
		if c.Persistence.BadgerPath == "" {
			allErrors = append(allErrors, field.Required(persistencePath.Child("badger_path"), "required for badger persistence"))
		}
	case PersistenceRedis:
		if c.Persistence.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(persistencePath.Child("redis_address"), "required for redis persistence"))
		}
		if c.Persistence.RedisDB < 0 || c.Persistence.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(persistencePath.Child("redis_db"), c.Persistence.RedisDB, "must be between 0 and 15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(persistencePath.Child("type"), c.Persistence.Type,
			[]string{string(PersistenceMemory), string(PersistenceBadger), string(PersistenceRedis)}))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func validateQuantity(s string) error {
	b, err := util.HexStringToBuffer(s, true)
	if err != nil {
		return err
	}
	if len(b) > transaction.MaxQuantityLength {
		return fmt.Errorf("longer than %d bytes", transaction.MaxQuantityLength)
	}
	return nil
}

// TransactionValues returns the six caller-owned transaction fields: the
// template with swap call data and a zero gas price.
func (c *BotConfig) TransactionValues() (*transaction.Values, error) {
	data, err := util.BuildSwapData(c.Swap.AmountOutMin, c.Swap.TokenAddress, c.Swap.ReceiverAddress)
	if err != nil {
		return nil, err
	}
	return &transaction.Values{
		Nonce:    c.Transaction.Nonce,
		GasPrice: "0",
		GasLimit: c.Transaction.GasLimit,
		To:       c.Transaction.To,
		Value:    c.Transaction.Value,
		Data:     util.BufferToHexString(data, false),
	}, nil
}

// RelayFilters returns the subscription filter.
func (c *BotConfig) RelayFilters() (*relay.Filters, error) {
	minimum, err := uint256.FromDecimal(c.Relay.MinimumLiquidityWei)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum liquidity: %w", err)
	}
	maximum, err := uint256.FromDecimal(c.Relay.MaximumGasPriceWei)
	if err != nil {
		return nil, fmt.Errorf("invalid maximum gas price: %w", err)
	}
	return &relay.Filters{MinimumLiquidityWei: minimum, MaximumGasPriceWei: maximum}, nil
}
