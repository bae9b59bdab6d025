package persistence

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type profileRepo struct {
	coll   docstore.Collection
	logger logger.Logger
}

// NewProfileRepo stores one profile per owner in the users collection, with
// the owner id as document id.
func NewProfileRepo(store docstore.Store, logger logger.Logger) profile.Repository {
	return &profileRepo{coll: store.Collection(docstore.CollectionUsers), logger: logger}
}

type profileDoc struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Tagline  string   `json:"tagline"`
	Username string   `json:"username"`
	Skills   flexList `json:"skills"`
	PhotoURL string   `json:"photoURL"`
	LinkedIn string   `json:"linkedin"`
	GitHub   string   `json:"github"`
	Facebook string   `json:"facebook"`
	Email    string   `json:"email"`
}

func decodeProfile(doc docstore.Document) (*profile.Profile, error) {
	var raw profileDoc
	if err := decodeBody(doc, &raw); err != nil {
		return nil, err
	}
	return &profile.Profile{
		OwnerID:   doc.String(docstore.FieldID),
		Name:      raw.Name,
		Bio:       raw.Bio,
		Tagline:   raw.Tagline,
		Username:  raw.Username,
		Skills:    raw.Skills.values(),
		PhotoURL:  raw.PhotoURL,
		LinkedIn:  raw.LinkedIn,
		GitHub:    raw.GitHub,
		Facebook:  raw.Facebook,
		Email:     raw.Email,
		UpdatedAt: parseStamp(doc.String(docstore.FieldUpdatedAt)),
	}, nil
}

func (r *profileRepo) Get(ctx context.Context, ownerID string) (*profile.Profile, error) {
	if ownerID == "" {
		return nil, apperror.NewNotFound("profile", ownerID)
	}
	doc, err := r.coll.Get(ctx, ownerID)
	if err != nil {
		return nil, mapStoreErr("profile", ownerID, err)
	}
	p, err := decodeProfile(doc)
	if err != nil {
		return nil, apperror.NewInternal("failed to decode profile", err)
	}
	return p, nil
}

func (r *profileRepo) FindByUsername(ctx context.Context, username string) ([]*profile.Profile, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{"username": username})
	if err != nil {
		return nil, apperror.NewInternal("failed to query profiles by username", err)
	}
	out := make([]*profile.Profile, 0, len(docs))
	for _, doc := range docs {
		p, err := decodeProfile(doc)
		if err != nil {
			r.logger.Warn("Skipping undecodable profile", zap.String("id", doc.String(docstore.FieldID)), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *profileRepo) Save(ctx context.Context, ownerID string, u profile.Update) error {
	if ownerID == "" {
		return apperror.NewInvalidInput("owner id is required", nil)
	}
	fields, err := toDocument(u.Fields())
	if err != nil {
		return apperror.NewInternal("failed to encode profile", err)
	}
	if err := r.coll.Merge(ctx, ownerID, fields); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			username := ""
			if u.Username != nil {
				username = *u.Username
			}
			return apperror.NewConflict("profile", "username", username)
		}
		return apperror.NewInternal("failed to save profile", err)
	}
	return nil
}
