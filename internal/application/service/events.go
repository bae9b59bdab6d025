package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/pkg/logger"
)

type ContentAction string

const (
	ActionCreated ContentAction = "created"
	ActionUpdated ContentAction = "updated"
	ActionDeleted ContentAction = "deleted"
)

// ContentEvent is emitted after every successful profile or content write.
type ContentEvent struct {
	Collection string        `json:"collection"`
	Action     ContentAction `json:"action"`
	OwnerID    string        `json:"ownerId"`
	RecordID   string        `json:"recordId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event ContentEvent) error
	Close() error
}

type EventHandler interface {
	Handle(ctx context.Context, event ContentEvent) error
}

type EventHandlerFunc func(ctx context.Context, event ContentEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event ContentEvent) error {
	return f(ctx, event)
}

const publishTimeout = 2 * time.Second

// Notify publishes event after a write has already succeeded. A publish
// failure is logged and never fails the write.
func Notify(ctx context.Context, p EventPublisher, event ContentEvent, log logger.Logger) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, event); err != nil {
		log.Error("Failed to publish content event", err,
			zap.String("collection", event.Collection),
			zap.String("action", string(event.Action)),
			zap.String("owner_id", event.OwnerID))
	}
}
