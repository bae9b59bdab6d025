package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	contentuc "github.com/khoahotran/folio/internal/application/usecase/content"
	experienceuc "github.com/khoahotran/folio/internal/application/usecase/experience"
	"github.com/khoahotran/folio/internal/application/usecase/identity"
	postuc "github.com/khoahotran/folio/internal/application/usecase/post"
	projectuc "github.com/khoahotran/folio/internal/application/usecase/project"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// gatedResolver blocks lookups of usernames that have a gate until it closes.
type gatedResolver struct {
	Resolver
	gates   map[string]chan struct{}
	started chan string
}

func (r *gatedResolver) Execute(ctx context.Context, username string) (*profile.Profile, error) {
	if gate, ok := r.gates[username]; ok {
		r.started <- username
		<-gate
	}
	return r.Resolver.Execute(ctx, username)
}

func newWorkspace(t *testing.T) (*Workspace, *Session, profile.Repository, Sources) {
	t.Helper()
	return newWorkspaceWith(t, nil)
}

// newWorkspaceWith lets wrap replace the resolver built over the test store.
func newWorkspaceWith(t *testing.T, wrap func(Resolver) Resolver) (*Workspace, *Session, profile.Repository, Sources) {
	t.Helper()
	store := persistence.NewMemoryStore()
	log := logger.NewNop()
	profiles := persistence.NewProfileRepo(store, log)
	authors := contentuc.NewAuthorLookup(profiles, log)

	sources := Sources{
		Projects:   projectuc.NewService(persistence.NewProjectRepo(store, log), nopPublisher{}, log),
		Posts:      postuc.NewService(persistence.NewPostRepo(store, log), authors, nopPublisher{}, log),
		Experience: experienceuc.NewService(persistence.NewExperienceRepo(store, log), authors, nopPublisher{}, log),
	}
	session := NewSession()
	var resolver Resolver = identity.NewResolveUseCase(profiles, service.NewNopCache(), 0, log)
	if wrap != nil {
		resolver = wrap(resolver)
	}
	w := NewWorkspace(session, resolver, profiles, sources, log)
	t.Cleanup(w.Close)
	return w, session, profiles, sources
}

func TestWorkspace_FollowsSessionAndUsername(t *testing.T) {
	ctx := context.Background()
	w, session, profiles, sources := newWorkspace(t)

	bob := "bob"
	require.NoError(t, profiles.Save(ctx, "u2", profile.Update{Username: &bob}))
	_, err := sources.Projects.Create(ctx, user.Principal{ID: "u2"}, &project.Project{Title: "bob's"})
	require.NoError(t, err)
	_, err = sources.Posts.Create(ctx, user.Principal{ID: "u1"}, &post.Post{Title: "mine"})
	require.NoError(t, err)

	session.SignIn(user.Principal{ID: "u1", DisplayName: "Alice"})
	assert.Equal(t, "u1", w.OwnerID())
	assert.True(t, w.IsSelf())
	assert.Nil(t, w.Profile())
	assert.Len(t, w.Posts.Records(), 1)
	assert.Empty(t, w.Projects.Records())

	require.NoError(t, w.Follow(ctx, "bob"))
	assert.Equal(t, "u2", w.OwnerID())
	assert.False(t, w.IsSelf())
	require.NotNil(t, w.Profile())
	assert.Equal(t, "bob", w.Profile().Username)
	assert.Len(t, w.Projects.Records(), 1)
	assert.Empty(t, w.Posts.Records())

	// following a username ignores session changes
	session.SignIn(user.Principal{ID: "u3"})
	assert.Equal(t, "u2", w.OwnerID())

	require.NoError(t, w.Follow(ctx, ""))
	assert.Equal(t, "u3", w.OwnerID())
	assert.Empty(t, w.Posts.Records())
}

func TestWorkspace_UnknownUsername(t *testing.T) {
	w, session, _, _ := newWorkspace(t)
	session.SignIn(user.Principal{ID: "u1"})

	err := w.Follow(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "u1", w.OwnerID())
}

func TestWorkspace_SignOutResets(t *testing.T) {
	w, session, _, _ := newWorkspace(t)
	session.SignIn(user.Principal{ID: "u1"})
	assert.Equal(t, StatusReady, w.Experience.Status())

	session.SignOut()
	assert.Equal(t, "", w.OwnerID())
	assert.Equal(t, StatusUninitialized, w.Experience.Status())
}

func TestWorkspace_LaterFollowWins(t *testing.T) {
	ctx := context.Background()
	gated := &gatedResolver{
		gates:   map[string]chan struct{}{"alice": make(chan struct{})},
		started: make(chan string, 1),
	}
	w, _, profiles, sources := newWorkspaceWith(t, func(r Resolver) Resolver {
		gated.Resolver = r
		return gated
	})

	for owner, name := range map[string]string{"ua": "alice", "ub": "bob"} {
		username := name
		require.NoError(t, profiles.Save(ctx, owner, profile.Update{Username: &username}))
		_, err := sources.Projects.Create(ctx, user.Principal{ID: owner}, &project.Project{Title: name + "-proj"})
		require.NoError(t, err)
	}

	aliceDone := make(chan error, 1)
	go func() { aliceDone <- w.Follow(ctx, "alice") }()

	select {
	case <-gated.started:
	case <-time.After(time.Second):
		t.Fatal("alice lookup never started")
	}

	require.NoError(t, w.Follow(ctx, "bob"))
	close(gated.gates["alice"])

	select {
	case err := <-aliceDone:
		assert.ErrorIs(t, err, ErrStale)
	case <-time.After(time.Second):
		t.Fatal("alice follow never returned")
	}

	assert.Equal(t, "ub", w.OwnerID())
	require.NotNil(t, w.Profile())
	assert.Equal(t, "bob", w.Profile().Username)
	recs := w.Projects.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "bob-proj", recs[0].Title)
	assert.Equal(t, "ub", w.Projects.Owner())
}

func TestWorkspace_RefreshKeepsOwner(t *testing.T) {
	ctx := context.Background()
	w, session, _, sources := newWorkspace(t)
	session.SignIn(user.Principal{ID: "u1"})
	assert.Empty(t, w.Projects.Records())

	_, err := sources.Projects.Create(ctx, user.Principal{ID: "u1"}, &project.Project{Title: "later"})
	require.NoError(t, err)

	require.NoError(t, w.Refresh(ctx))
	assert.Equal(t, "u1", w.OwnerID())
	assert.Len(t, w.Projects.Records(), 1)
	assert.True(t, w.IsSelf())
}
