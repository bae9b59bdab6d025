package event

import (
	"context"

	"github.com/khoahotran/folio/internal/application/service"
)

// LocalPublisher hands events straight to a handler in process. It stands in
// for Kafka when no brokers are configured.
type LocalPublisher struct {
	handler service.EventHandler
}

func NewLocalPublisher(handler service.EventHandler) *LocalPublisher {
	return &LocalPublisher{handler: handler}
}

func (p *LocalPublisher) Publish(ctx context.Context, event service.ContentEvent) error {
	if p.handler == nil {
		return nil
	}
	return p.handler.Handle(ctx, event)
}

func (p *LocalPublisher) Close() error { return nil }
