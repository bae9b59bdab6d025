package experience

import (
	"context"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/application/usecase/content"
	"github.com/khoahotran/folio/internal/docstore"
	domain "github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type Service = content.Service[*experience.Experience]

func NewService(repo experience.Repository, authors *content.AuthorLookup, publisher service.EventPublisher, log logger.Logger) *Service {
	return content.NewService(repo, docstore.CollectionExperience, content.Hooks[*experience.Experience]{
		PrepareCreate: func(ctx context.Context, actor user.Principal, e *experience.Experience) error {
			if e.Type == "" {
				e.Type = experience.KindWork
			}
			if err := e.Validate(); err != nil {
				return apperror.NewInvalidInput("type", err)
			}
			if e.Title == "" {
				return apperror.NewInvalidInput("title is required", nil)
			}
			author := authors.For(ctx, actor)
			e.AuthorName, e.AuthorUsername = author.Name, author.Username
			return nil
		},
		PrepareUpdate: func(ctx context.Context, actor user.Principal, patch domain.Patch[*experience.Experience]) (domain.Patch[*experience.Experience], error) {
			p, ok := patch.(experience.Patch)
			if !ok {
				return patch, nil
			}
			if err := p.Validate(); err != nil {
				return nil, apperror.NewInvalidInput("type", err)
			}
			author := authors.For(ctx, actor)
			p.AuthorName, p.AuthorUsername = &author.Name, &author.Username
			return p, nil
		},
	}, publisher, log)
}
