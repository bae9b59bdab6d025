package post

import (
	"context"

	"github.com/khoahotran/folio/internal/domain/post"
)

type FeedUseCase struct {
	posts *Service
}

func NewFeedUseCase(posts *Service) *FeedUseCase {
	return &FeedUseCase{posts: posts}
}

type FeedInput struct {
	// OwnerID scopes the feed; empty means every owner.
	OwnerID string
	Query   string
}

func (uc *FeedUseCase) Execute(ctx context.Context, input FeedInput) ([]*post.Post, error) {
	var (
		posts []*post.Post
		err   error
	)
	if input.OwnerID == "" {
		posts, err = uc.posts.ListAll(ctx)
	} else {
		posts, err = uc.posts.ListByOwner(ctx, input.OwnerID)
	}
	if err != nil {
		return nil, err
	}
	return post.Filter(posts, input.Query), nil
}
