package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

var tracer = otel.Tracer("backup_usecase")

// ownedCollections are exported by owner; the profile is read by id.
var ownedCollections = []string{
	docstore.CollectionProjects,
	docstore.CollectionPosts,
	docstore.CollectionExperience,
}

// Archive is a raw copy of one owner's documents, keyed by collection.
type Archive struct {
	OwnerID     string                         `json:"ownerId"`
	ExportedAt  time.Time                      `json:"exportedAt"`
	Collections map[string][]docstore.Document `json:"collections"`
}

type ExportUseCase struct {
	store  docstore.Store
	logger logger.Logger
	now    func() time.Time
}

func NewExportUseCase(store docstore.Store, log logger.Logger) *ExportUseCase {
	return &ExportUseCase{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// Execute exports every document the owner holds, as stored.
func (uc *ExportUseCase) Execute(ctx context.Context, ownerID string) (*Archive, error) {
	ctx, span := tracer.Start(ctx, "Export")
	defer span.End()

	if ownerID == "" {
		return nil, apperror.NewInvalidInput("owner id is required", nil)
	}
	uc.logger.Info("Starting portfolio export...", zap.String("owner_id", ownerID))

	archive := &Archive{
		OwnerID:     ownerID,
		ExportedAt:  uc.now().UTC(),
		Collections: make(map[string][]docstore.Document, len(ownedCollections)+1),
	}

	users := []docstore.Document{}
	doc, err := uc.store.Collection(docstore.CollectionUsers).Get(ctx, ownerID)
	switch {
	case err == nil:
		users = append(users, doc)
	case errors.Is(err, docstore.ErrNotFound):
	default:
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to export profile", err)
	}
	archive.Collections[docstore.CollectionUsers] = users

	for _, name := range ownedCollections {
		docs, err := uc.store.Collection(name).Find(ctx, docstore.Filter{docstore.FieldOwner: ownerID})
		if err != nil {
			span.RecordError(err)
			return nil, apperror.NewInternal(fmt.Sprintf("failed to export %s", name), err)
		}
		archive.Collections[name] = docs
	}

	uc.logger.Info("Portfolio export completed",
		zap.String("owner_id", ownerID),
		zap.Int("projects", len(archive.Collections[docstore.CollectionProjects])),
		zap.Int("posts", len(archive.Collections[docstore.CollectionPosts])),
		zap.Int("experience", len(archive.Collections[docstore.CollectionExperience])),
	)
	return archive, nil
}

// Filename is the suggested attachment name.
func (a *Archive) Filename() string {
	return fmt.Sprintf("folio-export-%s.json", a.ExportedAt.Format("2006-01-02_15-04-05"))
}
