package post

import (
	"context"
	"strings"
	"time"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/application/usecase/content"
	"github.com/khoahotran/folio/internal/docstore"
	domain "github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/media"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/internal/domain/tag"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type Service = content.Service[*post.Post]

func NewService(repo post.Repository, authors *content.AuthorLookup, publisher service.EventPublisher, log logger.Logger) *Service {
	h := hooks{authors: authors, now: time.Now}
	return content.NewService(repo, docstore.CollectionPosts, content.Hooks[*post.Post]{
		PrepareCreate: h.prepareCreate,
		PrepareUpdate: h.prepareUpdate,
	}, publisher, log)
}

type hooks struct {
	authors *content.AuthorLookup
	now     func() time.Time
}

func (h hooks) prepareCreate(ctx context.Context, actor user.Principal, p *post.Post) error {
	if strings.TrimSpace(p.Title) == "" {
		return apperror.NewInvalidInput("title is required", nil)
	}
	if err := media.Validate(p.Image); err != nil {
		return apperror.NewInvalidInput("image", err)
	}
	if p.Date.IsZero() {
		p.Date = h.now().UTC().Truncate(24 * time.Hour)
	}
	p.Tags = tag.Normalize(p.Tags)

	author := h.authors.For(ctx, actor)
	p.AuthorName, p.AuthorUsername = author.Name, author.Username
	return nil
}

func (h hooks) prepareUpdate(ctx context.Context, actor user.Principal, patch domain.Patch[*post.Post]) (domain.Patch[*post.Post], error) {
	p, ok := patch.(post.Patch)
	if !ok {
		return patch, nil
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, apperror.NewInvalidInput("title cannot be empty", nil)
	}
	if p.Image != nil {
		if err := media.Validate(*p.Image); err != nil {
			return nil, apperror.NewInvalidInput("image", err)
		}
	}
	if p.Tags != nil {
		tags := tag.Normalize(*p.Tags)
		p.Tags = &tags
	}

	author := h.authors.For(ctx, actor)
	p.AuthorName, p.AuthorUsername = &author.Name, &author.Username
	return p, nil
}
