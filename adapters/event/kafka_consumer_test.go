package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/pkg/logger"
)

func newTestConsumer(handler service.EventHandler, slept *[]time.Duration) *KafkaConsumer {
	return &KafkaConsumer{
		handler: handler,
		logger:  logger.NewNop(),
		sleep: func(ctx context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return ctx.Err()
		},
	}
}

func TestKafkaConsumer_RetriesUntilHandled(t *testing.T) {
	var calls int
	var slept []time.Duration
	c := newTestConsumer(service.EventHandlerFunc(func(context.Context, service.ContentEvent) error {
		calls++
		if calls < 4 {
			return errors.New("redis unavailable")
		}
		return nil
	}), &slept)

	require.NoError(t, c.handle(context.Background(), service.ContentEvent{Collection: "posts", OwnerID: "u1"}))
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{retryBaseDelay, 2 * retryBaseDelay, 4 * retryBaseDelay}, slept)
}

func TestKafkaConsumer_StopsRetryingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	var slept []time.Duration
	c := newTestConsumer(service.EventHandlerFunc(func(context.Context, service.ContentEvent) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("redis unavailable")
	}), &slept)

	err := c.handle(ctx, service.ContentEvent{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestRetryBackoff_Capped(t *testing.T) {
	assert.Equal(t, retryBaseDelay, retryBackoff(1))
	assert.Equal(t, 8*retryBaseDelay, retryBackoff(4))
	assert.Equal(t, retryMaxDelay, retryBackoff(20))
	assert.Equal(t, retryMaxDelay, retryBackoff(12))
}
