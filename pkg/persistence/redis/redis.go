package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixEntry       = "rawtx:pregen:"
	keyRunState          = "rawtx:runstate:main"
	keySchemaVersion     = "rawtx:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Sorted set of entry keys. Every member has score 0, so ZRANGE returns
	// them in lexicographic order, which for fixed width keys is gas price order.
	keySetEntries = "rawtx:pregen:index"
)

// RedisPersistence stores pregenerated transactions in Redis so that
// several bot instances can share one pregeneration run.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

var _ persistence.IPregenPersistence = (*RedisPersistence)(nil)

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is an optional custom prefix for all keys, e.g. "bot1:" gives
	// keys like "bot1:rawtx:pregen:...".
	KeyPrefix string
}

// NewRedisPersistence creates a new Redis-backed persistence layer.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis persistence initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rp, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

// initSchema initializes or validates the schema version
func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

func (r *RedisPersistence) entryKey(indexMember string) string {
	return r.prefixKey(keyPrefixEntry + indexMember)
}

// SaveEntry persists a pregenerated entry
func (r *RedisPersistence) SaveEntry(entry *types.PregenEntry) error {
	if entry == nil {
		return fmt.Errorf("cannot save nil PregenEntry")
	}

	member, err := persistence.GasPriceKey(entry.GasPriceWei)
	if err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalPregenEntry(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal PregenEntry: %w", err)
	}

	ctx := context.Background()
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.entryKey(member), data, 0)
	pipe.ZAdd(ctx, r.prefixKey(keySetEntries), redis.Z{Score: 0, Member: member})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save PregenEntry: %w", err)
	}

	return nil
}

// LoadEntry retrieves the entry for a gas price
func (r *RedisPersistence) LoadEntry(gasPriceWei string) (*types.PregenEntry, error) {
	member, err := persistence.GasPriceKey(gasPriceWei)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := r.client.Get(context.Background(), r.entryKey(member)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load PregenEntry: %w", err)
	}

	entry, err := persistence.UnmarshalPregenEntry(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal PregenEntry: %w", err)
	}

	return entry, nil
}

// ListEntries returns all entries sorted by gas price
func (r *RedisPersistence) ListEntries() ([]*types.PregenEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	ctx := context.Background()
	indexKey := r.prefixKey(keySetEntries)

	members, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list PregenEntry keys: %w", err)
	}

	entries := make([]*types.PregenEntry, 0, len(members))
	if len(members) == 0 {
		return entries, nil
	}

	keys := make([]string, len(members))
	for i, member := range members {
		keys[i] = r.entryKey(member)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PregenEntries: %w", err)
	}

	for i, val := range values {
		if val == nil {
			// indexed but missing, drop the stale index member
			r.client.ZRem(ctx, indexKey, members[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for PregenEntry", "key", keys[i])
			continue
		}

		entry, err := persistence.UnmarshalPregenEntry([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal PregenEntry, skipping",
				"key", keys[i], "error", err)
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// DeleteEntry removes the entry for a gas price
func (r *RedisPersistence) DeleteEntry(gasPriceWei string) error {
	member, err := persistence.GasPriceKey(gasPriceWei)
	if err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx := context.Background()
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.entryKey(member))
	pipe.ZRem(ctx, r.prefixKey(keySetEntries), member)

	_, err = pipe.Exec(ctx)
	return err
}

// SaveRunState persists the last run state
func (r *RedisPersistence) SaveRunState(state *persistence.RunState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil RunState")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalRunState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal RunState: %w", err)
	}

	return r.client.Set(context.Background(), r.prefixKey(keyRunState), data, 0).Err()
}

// LoadRunState retrieves the last run state
func (r *RedisPersistence) LoadRunState() (*persistence.RunState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := r.client.Get(context.Background(), r.prefixKey(keyRunState)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load RunState: %w", err)
	}

	state, err := persistence.UnmarshalRunState(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal RunState: %w", err)
	}

	return state, nil
}

// DeleteRunState removes the run state
func (r *RedisPersistence) DeleteRunState() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return r.client.Del(context.Background(), r.prefixKey(keyRunState)).Err()
}

// Close shuts down the persistence layer
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if err == redis.Nil {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}

	return nil
}
