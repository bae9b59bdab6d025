package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/folio/internal/application/service"
)

func TestLocalPublisher_Dispatches(t *testing.T) {
	var got []service.ContentEvent
	pub := NewLocalPublisher(service.EventHandlerFunc(func(_ context.Context, ev service.ContentEvent) error {
		got = append(got, ev)
		return nil
	}))

	ev := service.ContentEvent{Collection: "posts", Action: service.ActionCreated, OwnerID: "u1", RecordID: "p1"}
	assert.NoError(t, pub.Publish(context.Background(), ev))
	assert.Equal(t, []service.ContentEvent{ev}, got)
	assert.NoError(t, pub.Close())
}

func TestLocalPublisher_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	pub := NewLocalPublisher(service.EventHandlerFunc(func(context.Context, service.ContentEvent) error { return boom }))
	assert.ErrorIs(t, pub.Publish(context.Background(), service.ContentEvent{}), boom)
}

func TestLocalPublisher_NilHandler(t *testing.T) {
	assert.NoError(t, NewLocalPublisher(nil).Publish(context.Background(), service.ContentEvent{}))
}
