package cache

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/nurpe/market-leases/internal/config"
	"github.com/nurpe/market-leases/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "user:17:data", key(17))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	c := Connect(ctx, config.RedisConfig{}, zerolog.Nop())

	assert.False(t, c.Enabled())
	c.Set(ctx, model.Principal{UserID: 1, Username: "admin"})
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	c.Invalidate(ctx, 1)
	assert.NoError(t, c.Close())

	var nilCache *PrincipalCache
	assert.False(t, nilCache.Enabled())
}
