package backup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

func TestExport_OwnerDocumentsOnly(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()

	require.NoError(t, store.Collection(docstore.CollectionUsers).Merge(ctx, "u1", docstore.Document{"username": "alice"}))
	for _, owner := range []string{"u1", "u1", "u2"} {
		_, err := store.Collection(docstore.CollectionProjects).Insert(ctx, docstore.Document{docstore.FieldOwner: owner, "title": "p"})
		require.NoError(t, err)
	}

	uc := NewExportUseCase(store, logger.NewNop())
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	archive, err := uc.Execute(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, archive.Collections[docstore.CollectionUsers], 1)
	assert.Len(t, archive.Collections[docstore.CollectionProjects], 2)
	assert.Empty(t, archive.Collections[docstore.CollectionPosts])
	assert.Equal(t, "folio-export-2024-05-01_12-00-00.json", archive.Filename())
}

func TestExport_NoProfile(t *testing.T) {
	archive, err := NewExportUseCase(persistence.NewMemoryStore(), logger.NewNop()).Execute(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, archive.Collections[docstore.CollectionUsers])

	_, err = NewExportUseCase(persistence.NewMemoryStore(), logger.NewNop()).Execute(context.Background(), "")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
