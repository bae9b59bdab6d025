// Package content is the write path shared by projects, posts and
// experience: ownership checks, per-type preparation and change events.
package content

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// Hooks let a content type normalize and validate writes. Nil hooks are
// skipped.
type Hooks[T content.Record] struct {
	PrepareCreate func(ctx context.Context, actor user.Principal, rec T) error
	PrepareUpdate func(ctx context.Context, actor user.Principal, patch content.Patch[T]) (content.Patch[T], error)
}

type Service[T content.Record] struct {
	repo       content.Repository[T]
	collection string
	hooks      Hooks[T]
	publisher  service.EventPublisher
	logger     logger.Logger
}

func NewService[T content.Record](repo content.Repository[T], collection string, hooks Hooks[T], publisher service.EventPublisher, log logger.Logger) *Service[T] {
	return &Service[T]{
		repo:       repo,
		collection: collection,
		hooks:      hooks,
		publisher:  publisher,
		logger:     log.With(zap.String("collection", collection)),
	}
}

func (s *Service[T]) Collection() string { return s.collection }

func (s *Service[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	recs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list %s by owner failed: %w", s.collection, err)
	}
	return recs, nil
}

func (s *Service[T]) ListAll(ctx context.Context) ([]T, error) {
	recs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s failed: %w", s.collection, err)
	}
	return recs, nil
}

// Get reads any owner's record; all portfolio content is public.
func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores rec for actor and fills in its id and createdAt.
func (s *Service[T]) Create(ctx context.Context, actor user.Principal, rec T) (T, error) {
	var zero T
	if actor.IsZero() {
		return zero, apperror.NewUnauthorized("no authenticated principal", nil)
	}
	rec.Base().OwnerID = actor.ID

	if s.hooks.PrepareCreate != nil {
		if err := s.hooks.PrepareCreate(ctx, actor, rec); err != nil {
			return zero, err
		}
	}

	id, err := s.repo.Add(ctx, rec)
	if err != nil {
		return zero, fmt.Errorf("create %s failed: %w", s.collection, err)
	}
	s.notify(ctx, service.ActionCreated, actor.ID, id)
	return rec, nil
}

// Update merges patch into the record when actor owns it.
func (s *Service[T]) Update(ctx context.Context, actor user.Principal, id string, patch content.Patch[T]) (T, error) {
	var zero T
	if err := s.authorize(ctx, actor, id); err != nil {
		return zero, err
	}

	if s.hooks.PrepareUpdate != nil {
		var err error
		if patch, err = s.hooks.PrepareUpdate(ctx, actor, patch); err != nil {
			return zero, err
		}
	}

	if err := s.repo.Update(ctx, id, actor.ID, patch); err != nil {
		return zero, fmt.Errorf("update %s failed: %w", s.collection, err)
	}
	s.notify(ctx, service.ActionUpdated, actor.ID, id)

	return s.repo.GetByID(ctx, id)
}

func (s *Service[T]) Delete(ctx context.Context, actor user.Principal, id string) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("delete %s failed: %w", s.collection, err)
	}
	s.notify(ctx, service.ActionDeleted, actor.ID, id)
	return nil
}

// authorize separates "missing" from "someone else's". The store write is
// still guarded by owner, so a race cannot slip through.
func (s *Service[T]) authorize(ctx context.Context, actor user.Principal, id string) error {
	if actor.IsZero() {
		return apperror.NewUnauthorized("no authenticated principal", nil)
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if owner := rec.Base().OwnerID; owner != actor.ID {
		s.logger.Warn("Rejected write to foreign record",
			zap.String("id", id),
			zap.String("actor", actor.ID),
			zap.String("owner_id", owner))
		return apperror.NewPermissionDenied(fmt.Sprintf("%s %s belongs to another owner", s.collection, id))
	}
	return nil
}

func (s *Service[T]) notify(ctx context.Context, action service.ContentAction, ownerID, id string) {
	service.Notify(ctx, s.publisher, service.ContentEvent{
		Collection: s.collection,
		Action:     action,
		OwnerID:    ownerID,
		RecordID:   id,
	}, s.logger)
}
