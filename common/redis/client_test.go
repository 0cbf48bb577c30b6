package redis

import (
	"context"
	"testing"
	"time"

	"wisefido-wellness/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	defer Close(client)

	require.NoError(t, Ping(context.Background(), client, time.Second))

	mr.Close()
	assert.Error(t, Ping(context.Background(), client, 200*time.Millisecond))
}
