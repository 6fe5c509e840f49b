package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/homecare-api/pkg/circuitbreaker"
)

func TestNewRedisBroker_InvalidURL(t *testing.T) {
	_, err := NewRedisBroker(context.Background(), Config{URL: "not a url"}, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestPublish_OpensBreakerWhenRedisIsDown(t *testing.T) {
	// nothing listens on port 1
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	b := newBroker(client, zerolog.Nop())
	defer b.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		err := b.Publish(ctx, "homecare.test", map[string]string{"n": "x"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrOpen)
	}

	err := b.Publish(ctx, "homecare.test", map[string]string{"n": "x"})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}

func TestPublish_MarshalError(t *testing.T) {
	b := newBroker(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), zerolog.Nop())
	defer b.Close()

	err := b.Publish(context.Background(), "homecare.test", make(chan int))
	assert.ErrorContains(t, err, "failed to marshal message")
}
