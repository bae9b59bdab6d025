package post

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/usecase/content"
	"github.com/khoahotran/folio/internal/application/usecase/identity"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type fixture struct {
	profiles profile.Repository
	svc      *Service
}

func newFixture() fixture {
	store := persistence.NewMemoryStore()
	log := logger.NewNop()
	profiles := persistence.NewProfileRepo(store, log)
	svc := NewService(persistence.NewPostRepo(store, log), content.NewAuthorLookup(profiles, log), nil, log)
	return fixture{profiles: profiles, svc: svc}
}

func TestCreate_DenormalizesAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	name, username := "Dev One", "dev1"
	require.NoError(t, f.profiles.Save(ctx, "u1", profile.Update{Name: &name, Username: &username}))

	p, err := f.svc.Create(ctx, user.Principal{ID: "u1", DisplayName: "ignored"}, &post.Post{Title: "Hello", Tags: []string{"go", "Go"}})
	require.NoError(t, err)
	assert.Equal(t, "Dev One", p.AuthorName)
	assert.Equal(t, "dev1", p.AuthorUsername)
	assert.Equal(t, []string{"go"}, p.Tags)
	assert.False(t, p.Date.IsZero())

	anon, err := f.svc.Create(ctx, user.Principal{ID: "u2"}, &post.Post{Title: "Anon"})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", anon.AuthorName)
	assert.Empty(t, anon.AuthorUsername)
}

func TestCreate_Validates(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), user.Principal{ID: "u1"}, &post.Post{Title: "  "})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.svc.Create(context.Background(), user.Principal{}, &post.Post{Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUpdateAndDelete_RequireOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := user.Principal{ID: "u1", DisplayName: "Owner"}
	intruder := user.Principal{ID: "u2"}

	p, err := f.svc.Create(ctx, owner, &post.Post{Title: "mine"})
	require.NoError(t, err)

	title := "stolen"
	_, err = f.svc.Update(ctx, intruder, p.ID, post.Patch{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrPermission)
	assert.ErrorIs(t, f.svc.Delete(ctx, intruder, p.ID), apperror.ErrPermission)

	title = "renamed"
	updated, err := f.svc.Update(ctx, owner, p.ID, post.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "Owner", updated.AuthorName)

	require.NoError(t, f.svc.Delete(ctx, owner, p.ID))
	_, err = f.svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, owner, p.ID), apperror.ErrNotFound)
}

func TestFeed_CommunityAndSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for _, in := range []struct{ owner, title string }{{"u1", "Go tips"}, {"u1", "Cooking"}, {"u2", "More Go"}} {
		_, err := f.svc.Create(ctx, user.Principal{ID: in.owner}, &post.Post{Title: in.title})
		require.NoError(t, err)
	}
	feed := NewFeedUseCase(f.svc)

	all, err := feed.Execute(ctx, FeedInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	gophers, err := feed.Execute(ctx, FeedInput{Query: "go"})
	require.NoError(t, err)
	assert.Len(t, gophers, 2)

	mine, err := feed.Execute(ctx, FeedInput{OwnerID: "u1", Query: "GO"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Go tips", mine[0].Title)
}

func TestRSS(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	name, username := "Dev One", "dev1"
	require.NoError(t, f.profiles.Save(ctx, "u1", profile.Update{Name: &name, Username: &username}))
	_, err := f.svc.Create(ctx, user.Principal{ID: "u1"}, &post.Post{Title: "Hello", Content: "World", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	resolver := identity.NewResolveUseCase(f.profiles, nil, time.Minute, logger.NewNop())
	uc := NewRSSUseCase(resolver, f.svc, "https://folio.dev/", logger.NewNop())

	feed, err := uc.Execute(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "Dev One - Blog", feed.Title)
	assert.Equal(t, "https://folio.dev/dev1", feed.Link.Href)
	require.Len(t, feed.Items, 1)
	assert.Contains(t, feed.Items[0].Link.Href, "https://folio.dev/blog/")

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "<title>Hello</title>")

	_, err = uc.Execute(ctx, "nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
