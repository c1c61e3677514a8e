package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurpe/market-leases/internal/config"
	"github.com/nurpe/market-leases/internal/model"
)

const principalTTL = 10 * time.Minute

// PrincipalCache keeps session principals in redis. A nil client turns every call into a no-op.
type PrincipalCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// Connect returns a cache backed by redis, or a disabled cache when no address is configured
// or the server does not answer.
func Connect(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) *PrincipalCache {
	if cfg.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, principal cache disabled")
		return &PrincipalCache{log: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("redis unreachable, principal cache disabled")
		_ = client.Close()
		return &PrincipalCache{log: log}
	}

	log.Info().Str("addr", cfg.Addr).Msg("connected to redis")
	return &PrincipalCache{client: client, log: log}
}

func New(client *redis.Client, log zerolog.Logger) *PrincipalCache {
	return &PrincipalCache{client: client, log: log}
}

func (c *PrincipalCache) Enabled() bool {
	return c != nil && c.client != nil
}

func key(userID int64) string {
	return fmt.Sprintf("user:%d:data", userID)
}

func (c *PrincipalCache) Get(ctx context.Context, userID int64) (*model.Principal, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Error().Err(err).Int64("user_id", userID).Msg("redis get failed")
		}
		return nil, false
	}

	var principal model.Principal
	if err := json.Unmarshal(raw, &principal); err != nil {
		c.log.Warn().Err(err).Int64("user_id", userID).Msg("discarding malformed cached principal")
		return nil, false
	}
	return &principal, true
}

func (c *PrincipalCache) Set(ctx context.Context, principal model.Principal) {
	if !c.Enabled() {
		return
	}
	payload, err := json.Marshal(principal)
	if err != nil {
		c.log.Error().Err(err).Int64("user_id", principal.UserID).Msg("marshal principal")
		return
	}
	if err := c.client.Set(ctx, key(principal.UserID), payload, principalTTL).Err(); err != nil {
		c.log.Error().Err(err).Int64("user_id", principal.UserID).Msg("redis set failed")
	}
}

func (c *PrincipalCache) Invalidate(ctx context.Context, userID int64) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		c.log.Error().Err(err).Int64("user_id", userID).Msg("redis del failed")
	}
}

func (c *PrincipalCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
