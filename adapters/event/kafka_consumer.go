package event

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

const (
	retryBaseDelay = 100 * time.Millisecond
	retryMaxDelay  = 30 * time.Second
)

type KafkaConsumer struct {
	reader  *kafka.Reader
	handler service.EventHandler
	logger  logger.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewKafkaConsumer(cfg config.Config, handler service.EventHandler, log logger.Logger) *KafkaConsumer {
	topic := cfg.Kafka.Topic
	if topic == "" {
		topic = TopicContentEvents
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &KafkaConsumer{reader: reader, handler: handler, logger: log, sleep: sleepCtx}
}

// Run blocks until ctx is cancelled. Messages that fail to decode are
// committed and skipped. A handler failure is retried until it succeeds or ctx
// ends, and the message is committed only after success, since committing a
// later offset would skip it for good.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	c.logger.Info("Worker listening for content events", zap.String("topic", c.reader.Config().Topic))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		var ev service.ContentEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Warn("Skipping undecodable content event", zap.Error(err), zap.ByteString("key", msg.Key))
			c.commit(ctx, msg)
			continue
		}

		if err := c.handle(ctx, ev); err != nil {
			// ctx ended; the uncommitted message is redelivered to the next worker
			return nil
		}
		c.commit(ctx, msg)
	}
}

// handle calls the handler until it succeeds, backing off between attempts.
// It only fails when ctx ends.
func (c *KafkaConsumer) handle(ctx context.Context, ev service.ContentEvent) error {
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(ctx, ev)
		if err == nil {
			return nil
		}
		delay := retryBackoff(attempt)
		c.logger.Error("Failed to handle content event", err,
			zap.String("collection", ev.Collection),
			zap.String("owner_id", ev.OwnerID),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay))
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func retryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 16 {
		return retryMaxDelay
	}
	delay := retryBaseDelay << (attempt - 1)
	if delay > retryMaxDelay {
		return retryMaxDelay
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *KafkaConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err)
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
