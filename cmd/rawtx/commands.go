package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/crypto"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence/badger"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence/memory"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence/redis"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/pregen"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/relay"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transaction"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/transactionSigner"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// loadConfig reads the config file, if any, and applies global flags and
// their environment variables on top. The private key is only checked when
// requireKey is set.
func loadConfig(c *cli.Context, requireKey bool) (*config.BotConfig, error) {
	cfg := config.DefaultBotConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("private-key") {
		cfg.PrivateKey = c.String("private-key")
	}
	if c.IsSet("chain-id") {
		id, err := config.ParseChainId(c.String("chain-id"))
		if err != nil {
			return nil, err
		}
		cfg.ChainID = id
	}
	if c.IsSet("signing-backend") {
		cfg.SigningBackend = crypto.Backend(c.String("signing-backend"))
	}
	if c.IsSet("persistence") {
		cfg.Persistence.Type = config.PersistenceType(c.String("persistence"))
	}
	if c.IsSet("badger-path") {
		cfg.Persistence.BadgerPath = c.String("badger-path")
	}
	if c.IsSet("redis-address") {
		cfg.Persistence.RedisAddress = c.String("redis-address")
	}
	if c.IsSet("verbose") {
		cfg.Debug = c.Bool("verbose")
	}

	validate := cfg.ValidateWithoutKey
	if requireKey {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type botRuntime struct {
	cfg    *config.BotConfig
	logger *zap.Logger
	signer transactionSigner.ITransactionSigner
}

func newRuntime(c *cli.Context) (*botRuntime, error) {
	cfg, err := loadConfig(c, true)
	if err != nil {
		return nil, err
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	signer, err := transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{
		PrivateKey: cfg.PrivateKey,
		Backend:    cfg.SigningBackend,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	chainName, known := config.ChainIdToName[cfg.ChainID]
	if !known {
		chainName = "custom"
	}
	l.Sugar().Debugw("Using chain", "name", chainName, "chain_id", cfg.ChainID)

	return &botRuntime{cfg: cfg, logger: l, signer: signer}, nil
}

func (r *botRuntime) close() {
	_ = r.logger.Sync()
}

func (r *botRuntime) newTransaction() (*transaction.Transaction, error) {
	values, err := r.cfg.TransactionValues()
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	tx := transaction.New(transaction.WithChainID(uint64(r.cfg.ChainID)))
	if err := tx.SetFields(values); err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	return tx, nil
}

func (r *botRuntime) openStore() (persistence.IPregenPersistence, error) {
	p := r.cfg.Persistence
	switch p.Type {
	case config.PersistenceBadger:
		return badger.NewBadgerPersistence(p.BadgerPath, r.logger)
	case config.PersistenceRedis:
		return redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   p.RedisAddress,
			Password:  p.RedisPassword,
			DB:        p.RedisDB,
			KeyPrefix: p.RedisPrefix,
		}, r.logger)
	default:
		return memory.NewMemoryPersistence(r.logger), nil
	}
}

// keyRotator is implemented by signers whose key can be replaced in place.
type keyRotator interface {
	RotateKey(hexKey string) error
}

func parseWei(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid wei amount %q: %w", s, err)
	}
	return v, nil
}

func signCommand(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.close()

	tx, err := r.newTransaction()
	if err != nil {
		return err
	}
	gasPrice, err := parseWei(c.String("gas-price"))
	if err != nil {
		return err
	}
	if err := tx.SetFieldUint256(transaction.GasPrice, gasPrice); err != nil {
		return err
	}
	if c.IsSet("nonce") {
		if err := tx.SetField(transaction.Nonce, c.String("nonce")); err != nil {
			return err
		}
	}
	if c.IsSet("data") {
		if err := tx.SetField(transaction.Data, c.String("data")); err != nil {
			return err
		}
	}

	signed, err := r.signer.SignTransaction(tx)
	if err != nil {
		return err
	}
	raw := util.BufferToHexString(signed, false)

	r.logger.Sugar().Infow("Signed transaction",
		"from", r.signer.GetFromAddress().Hex(),
		"gasPriceWei", gasPrice.Dec(),
		"length", len(signed),
	)

	if c.Bool("message") {
		msg, err := relay.BuildTransaction(raw)
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
		return nil
	}
	fmt.Println("0x" + raw)
	return nil
}

func calldataCommand(c *cli.Context) error {
	cfg, err := loadConfig(c, false)
	if err != nil {
		return err
	}
	data, err := util.BuildSwapData(cfg.Swap.AmountOutMin, cfg.Swap.TokenAddress, cfg.Swap.ReceiverAddress)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(data))
	return nil
}

func subscribeCommand(c *cli.Context) error {
	cfg, err := loadConfig(c, false)
	if err != nil {
		return err
	}
	filters, err := cfg.RelayFilters()
	if err != nil {
		return err
	}
	msg, err := relay.BuildSubscribe(filters)
	if err != nil {
		return err
	}
	fmt.Println(string(msg))
	return nil
}

func pregenCommand(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.close()

	if r.cfg.Persistence.Type == config.PersistenceMemory {
		r.logger.Sugar().Warnw("Pregenerating into memory, entries are discarded on exit")
	}

	store, err := r.openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			r.logger.Sugar().Errorw("Failed to close store", "error", err)
		}
	}()

	tx, err := r.newTransaction()
	if err != nil {
		return err
	}

	if next := c.String("next-private-key"); next != "" {
		rotator, ok := r.signer.(keyRotator)
		if !ok {
			return fmt.Errorf("signer does not support key rotation")
		}
		if err := rotator.RotateKey(next); err != nil {
			return fmt.Errorf("failed to rotate signing key: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := pregen.NewGenerator(r.signer, store, r.logger)
	state, err := gen.Generate(ctx, tx, r.cfg.Pregen)
	if err != nil {
		return fmt.Errorf("pregeneration failed: %w", err)
	}

	r.logger.Sugar().Infow("Pregeneration complete",
		"entries", state.EntryCount,
		"fromGwei", state.FromGwei,
		"toGwei", state.ToGwei,
		"decimals", state.Decimals,
		"signer", state.SignerAddress,
	)
	return nil
}

func lookupCommand(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.close()

	gasPrice, err := parseWei(c.String("gas-price"))
	if err != nil {
		return err
	}

	store, err := r.openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	tx, err := r.newTransaction()
	if err != nil {
		return err
	}

	entry, err := pregen.NewGenerator(r.signer, store, r.logger).Lookup(c.Context, tx, gasPrice)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no pregenerated transaction for gas price %s", gasPrice.Dec())
	}
	fmt.Println(entry.Message)
	return nil
}

func readNotification(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func respondCommand(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer r.close()

	msg, err := readNotification(c.String("notification"))
	if err != nil {
		return fmt.Errorf("failed to read notification: %w", err)
	}
	n, err := relay.ParseNotification(msg)
	if err != nil {
		return err
	}

	token := common.HexToAddress(r.cfg.Swap.TokenAddress)
	if !n.MatchesToken(token) {
		got, _ := n.Token()
		return fmt.Errorf("notification %s adds liquidity for %s, not %s", n.TxHash, got.Hex(), token.Hex())
	}

	store, err := r.openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	tx, err := r.newTransaction()
	if err != nil {
		return err
	}

	entry, pregenerated, err := pregen.NewGenerator(r.signer, store, r.logger).Respond(c.Context, tx, n.GasPrice)
	if err != nil {
		return err
	}
	r.logger.Sugar().Infow("Responding to liquidity addition",
		"txHash", n.TxHash,
		"gasPriceWei", n.GasPrice.Dec(),
		"pregenerated", pregenerated,
	)
	fmt.Println(entry.Message)
	return nil
}
