package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/logger"
)

const summaryLength = 280

type Resolver interface {
	Execute(ctx context.Context, username string) (*profile.Profile, error)
}

type RSSUseCase struct {
	resolver  Resolver
	posts     *Service
	publicURL string
	logger    logger.Logger
	now       func() time.Time
}

func NewRSSUseCase(resolver Resolver, posts *Service, publicURL string, log logger.Logger) *RSSUseCase {
	return &RSSUseCase{
		resolver:  resolver,
		posts:     posts,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log,
		now:       time.Now,
	}
}

// Execute builds the feed of one owner's posts, addressed by username.
func (uc *RSSUseCase) Execute(ctx context.Context, username string) (*feeds.Feed, error) {
	owner, err := uc.resolver.Execute(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := uc.posts.ListByOwner(ctx, owner.OwnerID)
	if err != nil {
		uc.logger.Error("Failed to list posts for RSS", err, zap.String("owner_id", owner.OwnerID))
		return nil, err
	}

	name := owner.Name
	if name == "" {
		name = owner.Username
	}
	feed := &feeds.Feed{
		Title:       name + " - Blog",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/%s", uc.publicURL, owner.Username)},
		Description: owner.Tagline,
		Author:      &feeds.Author{Name: name, Email: owner.Email},
		Created:     uc.now(),
	}

	for _, p := range posts {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          p.ID,
			Title:       p.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/blog/%s", uc.publicURL, p.ID)},
			Description: summarize(p.Content),
			Author:      &feeds.Author{Name: p.AuthorName},
			Created:     p.Date,
			Updated:     p.UpdatedAt,
		})
	}

	uc.logger.Debug("RSS feed generated", zap.String("username", username), zap.Int("item_count", len(feed.Items)))
	return feed, nil
}

func summarize(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= summaryLength {
		return string(r)
	}
	return string(r[:summaryLength]) + "…"
}
