package experience

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/usecase/content"
	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

func newService() *Service {
	store := persistence.NewMemoryStore()
	log := logger.NewNop()
	authors := content.NewAuthorLookup(persistence.NewProfileRepo(store, log), log)
	return NewService(persistence.NewExperienceRepo(store, log), authors, nil, log)
}

func TestExperience_UpdateKeepsType(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := user.Principal{ID: "u1", DisplayName: "Dev One"}

	e, err := svc.Create(ctx, owner, &experience.Experience{Type: experience.KindWork, Title: "Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Dev One", e.AuthorName)

	title := "Senior Engineer"
	_, err = svc.Update(ctx, owner, e.ID, experience.Patch{Title: &title})
	require.NoError(t, err)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", got.Title)
	assert.Equal(t, experience.KindWork, got.Type)
	assert.Equal(t, "Acme", got.Org())
}

func TestExperience_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	owner := user.Principal{ID: "u1"}

	_, err := svc.Create(ctx, owner, &experience.Experience{Type: "hobby", Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	e, err := svc.Create(ctx, owner, &experience.Experience{Title: "BSc", Institution: "MIT"})
	require.NoError(t, err)
	assert.Equal(t, experience.KindWork, e.Type)

	bad := experience.Kind("job")
	_, err = svc.Update(ctx, owner, e.ID, experience.Patch{Type: &bad})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
