package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

func ptr[T any](v T) *T { return &v }

func TestResolve_FoundAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewProfileRepo(persistence.NewMemoryStore(), logger.NewNop())
	require.NoError(t, repo.Save(ctx, "u1", profile.Update{Username: ptr("dev1"), Name: ptr("Dev One")}))

	uc := NewResolveUseCase(repo, service.NewMemoryCache(), time.Minute, logger.NewNop())

	p, err := uc.Execute(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.OwnerID)
	assert.Equal(t, "Dev One", p.Name)

	_, err = uc.Execute(ctx, "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.Execute(ctx, "DEV1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.Execute(ctx, " ")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestResolve_CacheRevalidatesAfterRename(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewProfileRepo(persistence.NewMemoryStore(), logger.NewNop())
	cache := service.NewMemoryCache()
	uc := NewResolveUseCase(repo, cache, time.Minute, logger.NewNop())

	require.NoError(t, repo.Save(ctx, "u1", profile.Update{Username: ptr("dev1")}))
	_, err := uc.Execute(ctx, "dev1")
	require.NoError(t, err)

	cached, err := cache.Get(ctx, CacheKey("dev1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", string(cached))

	// the owner renames without the cache being told
	require.NoError(t, repo.Save(ctx, "u1", profile.Update{Username: ptr("dev-one")}))

	_, err = uc.Execute(ctx, "dev1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = cache.Get(ctx, CacheKey("dev1"))
	assert.ErrorIs(t, err, service.ErrCacheMiss)
}

// duplicateRepo returns several matches, which the unique index otherwise
// prevents.
type duplicateRepo struct {
	profile.Repository
	matches []*profile.Profile
}

func (r duplicateRepo) FindByUsername(context.Context, string) ([]*profile.Profile, error) {
	return r.matches, nil
}

func TestResolve_DuplicatesTakeFirst(t *testing.T) {
	repo := duplicateRepo{matches: []*profile.Profile{
		{OwnerID: "first", Username: "dup"},
		{OwnerID: "second", Username: "dup"},
	}}
	uc := NewResolveUseCase(repo, nil, time.Minute, logger.NewNop())

	for i := 0; i < 3; i++ {
		p, err := uc.Execute(context.Background(), "dup")
		require.NoError(t, err)
		assert.Equal(t, "first", p.OwnerID)
	}
}

func TestResolve_TransportFailurePropagates(t *testing.T) {
	store := failingStore{persistence.NewMemoryStore()}
	uc := NewResolveUseCase(persistence.NewProfileRepo(store, logger.NewNop()), nil, time.Minute, logger.NewNop())

	_, err := uc.Execute(context.Background(), "dev1")
	assert.ErrorIs(t, err, apperror.ErrInternal)
}

type failingStore struct{ docstore.Store }

func (s failingStore) Collection(name string) docstore.Collection {
	return failingCollection{s.Store.Collection(name)}
}

type failingCollection struct{ docstore.Collection }

func (failingCollection) Find(context.Context, docstore.Filter) ([]docstore.Document, error) {
	return nil, assert.AnError
}
