package portfolio

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/pkg/logger"
)

// CacheInvalidator drops an owner's composed portfolio whenever any of their
// records change.
type CacheInvalidator struct {
	cache  service.Cache
	logger logger.Logger
}

func NewCacheInvalidator(cache service.Cache, log logger.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, logger: log}
}

func (h *CacheInvalidator) Handle(ctx context.Context, ev service.ContentEvent) error {
	if ev.OwnerID == "" {
		return nil
	}
	if err := h.cache.Delete(ctx, CacheKey(ev.OwnerID)); err != nil {
		return err
	}
	h.logger.Debug("Invalidated portfolio cache",
		zap.String("owner_id", ev.OwnerID),
		zap.String("collection", ev.Collection),
		zap.String("action", string(ev.Action)))
	return nil
}
