// Package docstoretest holds the behavioural checks every docstore backend
// must pass.
package docstoretest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/internal/docstore"
)

// Run exercises store against the collection contract. Every check uses its
// own collection name so a shared database is fine.
func Run(t *testing.T, store docstore.Store) {
	t.Helper()
	ctx := context.Background()

	fresh := func() docstore.Collection {
		return store.Collection("conformance_" + uuid.NewString()[:8])
	}

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("InsertThenGet", func(t *testing.T) {
		c := fresh()
		stored, err := c.Insert(ctx, docstore.Document{"uid": "u1", "title": "X", "technologies": []any{"Go"}})
		require.NoError(t, err)

		id := stored.String(docstore.FieldID)
		require.NotEmpty(t, id)
		require.NotEmpty(t, stored.String(docstore.FieldCreatedAt))

		got, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.String(docstore.FieldID))
		assert.Equal(t, "X", got["title"])
		assert.Equal(t, []any{"Go"}, got["technologies"])
		assert.Equal(t, stored.String(docstore.FieldCreatedAt), got.String(docstore.FieldCreatedAt))
	})

	t.Run("InsertIgnoresCallerID", func(t *testing.T) {
		c := fresh()
		stored, err := c.Insert(ctx, docstore.Document{docstore.FieldID: "mine", "title": "X"})
		require.NoError(t, err)
		assert.NotEqual(t, "mine", stored.String(docstore.FieldID))
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := fresh().Get(ctx, "nope")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("FindByOwner", func(t *testing.T) {
		c := fresh()
		for _, uid := range []string{"u1", "u1", "u2"} {
			_, err := c.Insert(ctx, docstore.Document{"uid": uid})
			require.NoError(t, err)
		}

		u1, err := c.Find(ctx, docstore.Filter{"uid": "u1"})
		require.NoError(t, err)
		assert.Len(t, u1, 2)

		none, err := c.Find(ctx, docstore.Filter{"uid": "u3"})
		require.NoError(t, err)
		assert.Empty(t, none)

		all, err := c.Find(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("FindOrder", func(t *testing.T) {
		c := fresh()
		var ids []string
		for i := 0; i < 4; i++ {
			d, err := c.Insert(ctx, docstore.Document{"n": float64(i)})
			require.NoError(t, err)
			ids = append(ids, d.String(docstore.FieldID))
		}
		docs, err := c.Find(ctx, docstore.Filter{})
		require.NoError(t, err)
		got := make([]string, 0, len(docs))
		for _, d := range docs {
			got = append(got, d.String(docstore.FieldID))
		}
		assert.Equal(t, ids, got)
	})

	t.Run("UpdateMerges", func(t *testing.T) {
		c := fresh()
		d, err := c.Insert(ctx, docstore.Document{"uid": "u1", "type": "work", "title": "Engineer"})
		require.NoError(t, err)
		id := d.String(docstore.FieldID)

		require.NoError(t, c.Update(ctx, id, docstore.Document{"title": "Senior Engineer"}, docstore.Filter{"uid": "u1"}))
		first, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Senior Engineer", first["title"])
		assert.Equal(t, "work", first["type"])
		assert.Equal(t, d.String(docstore.FieldCreatedAt), first.String(docstore.FieldCreatedAt))

		require.NoError(t, c.Update(ctx, id, docstore.Document{"title": "Staff Engineer"}, nil))
		second, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Less(t, first.String(docstore.FieldUpdatedAt), second.String(docstore.FieldUpdatedAt))
	})

	t.Run("UpdateGuardMismatch", func(t *testing.T) {
		c := fresh()
		d, err := c.Insert(ctx, docstore.Document{"uid": "u1", "title": "mine"})
		require.NoError(t, err)
		id := d.String(docstore.FieldID)

		err = c.Update(ctx, id, docstore.Document{"title": "stolen"}, docstore.Filter{"uid": "u2"})
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		err = c.Update(ctx, "missing", docstore.Document{"title": "x"}, nil)
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		got, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "mine", got["title"])
	})

	t.Run("Delete", func(t *testing.T) {
		c := fresh()
		d, err := c.Insert(ctx, docstore.Document{"uid": "u1"})
		require.NoError(t, err)
		id := d.String(docstore.FieldID)

		assert.ErrorIs(t, c.Delete(ctx, id, docstore.Filter{"uid": "u2"}), docstore.ErrNotFound)
		require.NoError(t, c.Delete(ctx, id, docstore.Filter{"uid": "u1"}))

		_, err = c.Get(ctx, id)
		assert.ErrorIs(t, err, docstore.ErrNotFound)
		assert.ErrorIs(t, c.Delete(ctx, id, nil), docstore.ErrNotFound)
	})

	t.Run("MergeUpserts", func(t *testing.T) {
		c := fresh()
		require.NoError(t, c.Merge(ctx, "owner-1", docstore.Document{"name": "Dev One", "bio": "hi"}))
		first, err := c.Get(ctx, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, "owner-1", first.String(docstore.FieldID))
		assert.NotEmpty(t, first.String(docstore.FieldUpdatedAt))

		require.NoError(t, c.Merge(ctx, "owner-1", docstore.Document{"bio": "hello"}))
		second, err := c.Get(ctx, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, "Dev One", second["name"])
		assert.Equal(t, "hello", second["bio"])
		assert.Equal(t, first.String(docstore.FieldCreatedAt), second.String(docstore.FieldCreatedAt))
		assert.Less(t, first.String(docstore.FieldUpdatedAt), second.String(docstore.FieldUpdatedAt))
	})

	t.Run("UniqueUsername", func(t *testing.T) {
		users := store.Collection(docstore.CollectionUsers)
		name := "dup-" + uuid.NewString()[:8]
		a, b := uuid.NewString(), uuid.NewString()

		require.NoError(t, users.Merge(ctx, a, docstore.Document{"username": name}))
		assert.ErrorIs(t, users.Merge(ctx, b, docstore.Document{"username": name}), docstore.ErrConflict)
		// re-saving the same owner is not a conflict
		require.NoError(t, users.Merge(ctx, a, docstore.Document{"username": name}))

		found, err := users.Find(ctx, docstore.Filter{"username": name})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, a, found[0].String(docstore.FieldID))
	})
}
