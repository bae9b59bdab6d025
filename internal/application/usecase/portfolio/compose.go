package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

var tracer = otel.Tracer("portfolio_usecase")

type Resolver interface {
	Execute(ctx context.Context, username string) (*profile.Profile, error)
}

type Lister[T any] interface {
	ListByOwner(ctx context.Context, ownerID string) ([]T, error)
}

// Portfolio is everything a public page renders for one owner. Errors names
// the sources that failed; the others are still filled in.
type Portfolio struct {
	OwnerID    string                   `json:"ownerId"`
	Profile    *profile.Profile         `json:"profile"`
	PublicURL  string                   `json:"publicUrl,omitempty"`
	Projects   []*project.Project       `json:"projects"`
	Posts      []*post.Post             `json:"posts"`
	Experience []*experience.Experience `json:"experience"`
	Errors     map[string]string        `json:"errors,omitempty"`
}

func (p *Portfolio) Partial() bool { return len(p.Errors) > 0 }

type Sources struct {
	Profiles   profile.Repository
	Projects   Lister[*project.Project]
	Posts      Lister[*post.Post]
	Experience Lister[*experience.Experience]
}

type ComposeUseCase struct {
	resolver  Resolver
	sources   Sources
	cache     service.Cache
	ttl       time.Duration
	timeout   time.Duration
	publicURL string
	logger    logger.Logger
}

func NewComposeUseCase(resolver Resolver, sources Sources, cache service.Cache, ttl, timeout time.Duration, publicURL string, log logger.Logger) *ComposeUseCase {
	if cache == nil {
		cache = service.NewNopCache()
	}
	return &ComposeUseCase{
		resolver:  resolver,
		sources:   sources,
		cache:     cache,
		ttl:       ttl,
		timeout:   timeout,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log,
	}
}

func CacheKey(ownerID string) string {
	return "portfolio:" + ownerID
}

// ComposeInput targets an owner by username, or directly by id for the
// owner's own dashboard.
type ComposeInput struct {
	Username string
	OwnerID  string
}

func (uc *ComposeUseCase) Execute(ctx context.Context, input ComposeInput) (*Portfolio, error) {
	ctx, span := tracer.Start(ctx, "Compose")
	defer span.End()

	var resolved *profile.Profile
	ownerID := input.OwnerID
	if input.Username != "" {
		p, err := uc.resolver.Execute(ctx, input.Username)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		resolved, ownerID = p, p.OwnerID
	}
	if ownerID == "" {
		return nil, apperror.NewInvalidInput("username or owner id is required", nil)
	}
	span.SetAttributes(attribute.String("owner_id", ownerID))

	if cached, ok := uc.fromCache(ctx, ownerID); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	out := &Portfolio{OwnerID: ownerID, Profile: resolved}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	fail := func(source string, err error) {
		uc.logger.Warn("Portfolio source failed", zap.String("source", source), zap.String("owner_id", ownerID), zap.Error(err))
		mu.Lock()
		defer mu.Unlock()
		if out.Errors == nil {
			out.Errors = make(map[string]string)
		}
		out.Errors[source] = err.Error()
	}

	if resolved == nil {
		g.Go(func() error {
			sctx, cancel := uc.sourceContext(ctx)
			defer cancel()
			p, err := uc.sources.Profiles.Get(sctx, ownerID)
			if err != nil && !apperror.IsNotFound(err) {
				fail(docstore.CollectionUsers, err)
				return nil
			}
			out.Profile = p
			return nil
		})
	}
	g.Go(func() error {
		out.Projects = fetch(ctx, uc, docstore.CollectionProjects, ownerID, uc.sources.Projects, fail)
		return nil
	})
	g.Go(func() error {
		out.Posts = fetch(ctx, uc, docstore.CollectionPosts, ownerID, uc.sources.Posts, fail)
		return nil
	})
	g.Go(func() error {
		out.Experience = fetch(ctx, uc, docstore.CollectionExperience, ownerID, uc.sources.Experience, fail)
		return nil
	})
	_ = g.Wait()

	if out.Profile != nil && out.Profile.Username != "" {
		out.PublicURL = uc.publicURL + "/" + out.Profile.Username
	}
	span.SetAttributes(attribute.Bool("partial", out.Partial()))

	if !out.Partial() {
		uc.store(ctx, out)
	}
	return out, nil
}

// fetch runs one source under the per-source timeout. A failed source yields
// an empty list so the page still renders.
func fetch[T any](ctx context.Context, uc *ComposeUseCase, source, ownerID string, l Lister[T], fail func(string, error)) []T {
	sctx, cancel := uc.sourceContext(ctx)
	defer cancel()

	recs, err := l.ListByOwner(sctx, ownerID)
	if err != nil {
		if errors.Is(sctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s timed out after %s: %w", source, uc.timeout, err)
		}
		fail(source, err)
		return []T{}
	}
	return recs
}

func (uc *ComposeUseCase) sourceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

func (uc *ComposeUseCase) fromCache(ctx context.Context, ownerID string) (*Portfolio, bool) {
	raw, err := uc.cache.Get(ctx, CacheKey(ownerID))
	if err != nil {
		if !errors.Is(err, service.ErrCacheMiss) {
			uc.logger.Warn("Portfolio cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var p Portfolio
	if err := json.Unmarshal(raw, &p); err != nil {
		uc.logger.Warn("Dropping undecodable cached portfolio", zap.String("owner_id", ownerID), zap.Error(err))
		_ = uc.cache.Delete(ctx, CacheKey(ownerID))
		return nil, false
	}
	return &p, true
}

func (uc *ComposeUseCase) store(ctx context.Context, p *Portfolio) {
	raw, err := json.Marshal(p)
	if err != nil {
		uc.logger.Warn("Failed to encode portfolio for cache", zap.Error(err))
		return
	}
	if err := uc.cache.Set(ctx, CacheKey(p.OwnerID), raw, uc.ttl); err != nil {
		uc.logger.Warn("Failed to cache portfolio", zap.String("owner_id", p.OwnerID), zap.Error(err))
	}
}
