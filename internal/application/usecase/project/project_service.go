package project

import (
	"context"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/application/usecase/content"
	"github.com/khoahotran/folio/internal/docstore"
	domain "github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/media"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/internal/domain/tag"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type Service = content.Service[*project.Project]

func NewService(repo project.Repository, publisher service.EventPublisher, log logger.Logger) *Service {
	return content.NewService(repo, docstore.CollectionProjects, content.Hooks[*project.Project]{
		PrepareCreate: prepareCreate,
		PrepareUpdate: prepareUpdate,
	}, publisher, log)
}

func prepareCreate(_ context.Context, _ user.Principal, p *project.Project) error {
	if p.Title == "" {
		return apperror.NewInvalidInput("title is required", nil)
	}
	p.Technologies = tag.Normalize(p.Technologies)
	p.KeyFeatures = tag.Normalize(p.KeyFeatures)
	p.CodeSnippets = project.CleanSnippets(p.CodeSnippets)
	if err := media.ValidateAll(p.Images()); err != nil {
		return apperror.NewInvalidInput("project image", err)
	}
	return nil
}

func prepareUpdate(_ context.Context, _ user.Principal, patch domain.Patch[*project.Project]) (domain.Patch[*project.Project], error) {
	p, ok := patch.(project.Patch)
	if !ok {
		return patch, nil
	}
	if p.Title != nil && *p.Title == "" {
		return nil, apperror.NewInvalidInput("title cannot be empty", nil)
	}
	if p.Technologies != nil {
		techs := tag.Normalize(*p.Technologies)
		p.Technologies = &techs
	}
	if p.KeyFeatures != nil {
		features := tag.Normalize(*p.KeyFeatures)
		p.KeyFeatures = &features
	}
	if p.CodeSnippets != nil {
		snippets := project.CleanSnippets(*p.CodeSnippets)
		p.CodeSnippets = &snippets
	}
	if err := media.ValidateAll(p.Images()); err != nil {
		return nil, apperror.NewInvalidInput("project image", err)
	}
	return p, nil
}
