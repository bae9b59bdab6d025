package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

const anonymousAuthor = "Anonymous"

// Author is denormalized onto posts and experience so lists render without
// a profile lookup.
type Author struct {
	Name     string
	Username string
}

type AuthorLookup struct {
	profiles profile.Repository
	logger   logger.Logger
}

func NewAuthorLookup(profiles profile.Repository, log logger.Logger) *AuthorLookup {
	return &AuthorLookup{profiles: profiles, logger: log}
}

// For prefers the actor's profile, then the principal's display name. A
// failed lookup degrades to the principal instead of failing the write.
func (a *AuthorLookup) For(ctx context.Context, actor user.Principal) Author {
	author := Author{Name: actor.DisplayName}

	p, err := a.profiles.Get(ctx, actor.ID)
	switch {
	case err == nil:
		if p.Name != "" {
			author.Name = p.Name
		}
		author.Username = p.Username
	case !apperror.IsNotFound(err):
		a.logger.Warn("Author profile lookup failed", zap.String("owner_id", actor.ID), zap.Error(err))
	}

	if author.Name == "" {
		author.Name = anonymousAuthor
	}
	return author
}
