package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

var tracer = otel.Tracer("identity_usecase")

// ResolveUseCase maps a public username to the owner's profile.
type ResolveUseCase struct {
	profileRepo profile.Repository
	cache       service.Cache
	ttl         time.Duration
	logger      logger.Logger
}

func NewResolveUseCase(profileRepo profile.Repository, cache service.Cache, ttl time.Duration, logger logger.Logger) *ResolveUseCase {
	if cache == nil {
		cache = service.NewNopCache()
	}
	return &ResolveUseCase{profileRepo: profileRepo, cache: cache, ttl: ttl, logger: logger}
}

func CacheKey(username string) string {
	return "identity:" + username
}

// Execute matches username exactly and case-sensitively. With duplicate
// usernames the earliest created profile wins.
func (uc *ResolveUseCase) Execute(ctx context.Context, username string) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	if strings.TrimSpace(username) == "" {
		return nil, apperror.NewInvalidInput("username is required", nil)
	}

	if p, ok := uc.fromCache(ctx, username); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return p, nil
	}

	matches, err := uc.profileRepo.FindByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperror.NewNotFound("user", username)
	}
	if len(matches) > 1 {
		uc.logger.Warn("Username matches several profiles, using the earliest",
			zap.String("username", username),
			zap.Int("matches", len(matches)),
			zap.String("owner_id", matches[0].OwnerID))
	}

	p := matches[0]
	if err := uc.cache.Set(ctx, CacheKey(username), []byte(p.OwnerID), uc.ttl); err != nil {
		uc.logger.Warn("Failed to memoize username", zap.String("username", username), zap.Error(err))
	}
	span.SetAttributes(attribute.String("owner_id", p.OwnerID))
	return p, nil
}

// fromCache re-reads the memoized owner and drops the entry when the owner
// no longer carries the username.
func (uc *ResolveUseCase) fromCache(ctx context.Context, username string) (*profile.Profile, bool) {
	raw, err := uc.cache.Get(ctx, CacheKey(username))
	if err != nil {
		if !errors.Is(err, service.ErrCacheMiss) {
			uc.logger.Warn("Identity cache read failed", zap.Error(err))
		}
		return nil, false
	}

	p, err := uc.profileRepo.Get(ctx, string(raw))
	if err == nil && p.Username == username {
		return p, true
	}
	uc.Forget(ctx, username)
	return nil, false
}

// Forget drops memoized lookups, typically after a username change.
func (uc *ResolveUseCase) Forget(ctx context.Context, usernames ...string) {
	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u != "" {
			keys = append(keys, CacheKey(u))
		}
	}
	if err := uc.cache.Delete(ctx, keys...); err != nil {
		uc.logger.Warn("Failed to drop identity cache entries", zap.Error(err))
	}
}
