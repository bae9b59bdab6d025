// Package app assembles the use cases shared by the server, the worker and
// the seed script.
package app

import (
	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/application/usecase/backup"
	contentUC "github.com/khoahotran/folio/internal/application/usecase/content"
	experienceUC "github.com/khoahotran/folio/internal/application/usecase/experience"
	"github.com/khoahotran/folio/internal/application/usecase/identity"
	"github.com/khoahotran/folio/internal/application/usecase/portfolio"
	postUC "github.com/khoahotran/folio/internal/application/usecase/post"
	profileUC "github.com/khoahotran/folio/internal/application/usecase/profile"
	projectUC "github.com/khoahotran/folio/internal/application/usecase/project"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/state"
	"github.com/khoahotran/folio/pkg/logger"
)

type Deps struct {
	Store docstore.Store
	// Cache defaults to a no-op cache.
	Cache service.Cache
	// Publisher defaults to in-process delivery to the cache invalidator.
	Publisher service.EventPublisher
}

type Services struct {
	Profiles    profile.Repository
	Resolver    *identity.ResolveUseCase
	Profile     *profileUC.ProfileUseCase
	Projects    *projectUC.Service
	Posts       *postUC.Service
	Experience  *experienceUC.Service
	Feed        *postUC.FeedUseCase
	RSS         *postUC.RSSUseCase
	Portfolio   *portfolio.ComposeUseCase
	Invalidator *portfolio.CacheInvalidator
	Export      *backup.ExportUseCase
	Publisher   service.EventPublisher
}

func NewServices(cfg config.Config, deps Deps, log logger.Logger) *Services {
	cache := deps.Cache
	if cache == nil {
		cache = service.NewNopCache()
	}
	invalidator := portfolio.NewCacheInvalidator(cache, log)
	publisher := deps.Publisher
	if publisher == nil {
		publisher = event.NewLocalPublisher(invalidator)
	}

	profiles := persistence.NewProfileRepo(deps.Store, log)
	resolver := identity.NewResolveUseCase(profiles, cache, cfg.Redis.IdentityTTL, log)
	authors := contentUC.NewAuthorLookup(profiles, log)

	projects := projectUC.NewService(persistence.NewProjectRepo(deps.Store, log), publisher, log)
	posts := postUC.NewService(persistence.NewPostRepo(deps.Store, log), authors, publisher, log)
	experience := experienceUC.NewService(persistence.NewExperienceRepo(deps.Store, log), authors, publisher, log)

	return &Services{
		Profiles:   profiles,
		Resolver:   resolver,
		Profile:    profileUC.NewProfileUseCase(profiles, resolver, publisher, cfg.App.PublicURL, log),
		Projects:   projects,
		Posts:      posts,
		Experience: experience,
		Feed:       postUC.NewFeedUseCase(posts),
		RSS:        postUC.NewRSSUseCase(resolver, posts, cfg.App.PublicURL, log),
		Portfolio: portfolio.NewComposeUseCase(resolver, portfolio.Sources{
			Profiles:   profiles,
			Projects:   projects,
			Posts:      posts,
			Experience: experience,
		}, cache, cfg.Redis.PortfolioTTL, cfg.Timeouts.Store, cfg.App.PublicURL, log),
		Invalidator: invalidator,
		Export:      backup.NewExportUseCase(deps.Store, log),
		Publisher:   publisher,
	}
}

// Workspace binds a state workspace to these services.
func (s *Services) Workspace(session *state.Session, log logger.Logger) *state.Workspace {
	return state.NewWorkspace(session, s.Resolver, s.Profiles, state.Sources{
		Projects:   s.Projects,
		Posts:      s.Posts,
		Experience: s.Experience,
	}, log)
}
