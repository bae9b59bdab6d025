package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/tag"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// codec converts one content type to and from documents. The decoder is the
// only place legacy document shapes are understood.
type codec[T content.Record] struct {
	resource string
	encode   func(rec T) (docstore.Document, error)
	decode   func(doc docstore.Document, meta content.Meta) (T, error)
}

type contentRepo[T content.Record] struct {
	coll   docstore.Collection
	codec  codec[T]
	logger logger.Logger
}

func newContentRepo[T content.Record](store docstore.Store, collection string, c codec[T], logger logger.Logger) content.Repository[T] {
	return &contentRepo[T]{coll: store.Collection(collection), codec: c, logger: logger}
}

func (r *contentRepo[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{docstore.FieldOwner: ownerID})
	if err != nil {
		return nil, apperror.NewInternal("failed to query "+r.codec.resource+"s by owner", err)
	}
	return r.decodeAll(docs), nil
}

func (r *contentRepo[T]) ListAll(ctx context.Context) ([]T, error) {
	docs, err := r.coll.Find(ctx, nil)
	if err != nil {
		return nil, apperror.NewInternal("failed to query "+r.codec.resource+"s", err)
	}
	return r.decodeAll(docs), nil
}

func (r *contentRepo[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, apperror.NewNotFound(r.codec.resource, id)
	}
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return zero, mapStoreErr(r.codec.resource, id, err)
	}
	rec, err := r.codec.decode(doc, decodeMeta(doc))
	if err != nil {
		return zero, apperror.NewInternal("failed to decode "+r.codec.resource, err)
	}
	return rec, nil
}

func (r *contentRepo[T]) Add(ctx context.Context, rec T) (string, error) {
	doc, err := r.codec.encode(rec)
	if err != nil {
		return "", apperror.NewInternal("failed to encode "+r.codec.resource, err)
	}
	stored, err := r.coll.Insert(ctx, doc)
	if err != nil {
		return "", mapStoreErr(r.codec.resource, "", err)
	}

	meta := rec.Base()
	meta.ID = stored.String(docstore.FieldID)
	meta.CreatedAt = parseStamp(stored.String(docstore.FieldCreatedAt))
	return meta.ID, nil
}

func (r *contentRepo[T]) Update(ctx context.Context, id, ownerID string, patch content.Patch[T]) error {
	fields, err := toDocument(patch.Fields())
	if err != nil {
		return apperror.NewInternal("failed to encode "+r.codec.resource+" patch", err)
	}
	err = r.coll.Update(ctx, strings.TrimSpace(id), fields, docstore.Filter{docstore.FieldOwner: ownerID})
	if err != nil {
		return mapStoreErr(r.codec.resource, id, err)
	}
	return nil
}

func (r *contentRepo[T]) Remove(ctx context.Context, id, ownerID string) error {
	err := r.coll.Delete(ctx, strings.TrimSpace(id), docstore.Filter{docstore.FieldOwner: ownerID})
	if err != nil {
		return mapStoreErr(r.codec.resource, id, err)
	}
	return nil
}

func (r *contentRepo[T]) decodeAll(docs []docstore.Document) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := r.codec.decode(doc, decodeMeta(doc))
		if err != nil {
			r.logger.Warn("Skipping undecodable document",
				zap.String("resource", r.codec.resource),
				zap.String("id", doc.String(docstore.FieldID)),
				zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}

func mapStoreErr(resource, id string, err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return apperror.NewNotFound(resource, id)
	case errors.Is(err, docstore.ErrConflict):
		return apperror.NewConflict(resource, "id", id)
	default:
		return apperror.NewInternal("failed to access "+resource, err)
	}
}

// toDocument gives v the plain JSON shape every backend can store.
func toDocument(v any) (docstore.Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := docstore.Document{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

var metaKeys = []string{docstore.FieldID, docstore.FieldOwner, docstore.FieldCreatedAt, docstore.FieldUpdatedAt}

func decodeMeta(doc docstore.Document) content.Meta {
	return content.Meta{
		ID:        doc.String(docstore.FieldID),
		OwnerID:   doc.String(docstore.FieldOwner),
		CreatedAt: parseStamp(doc.String(docstore.FieldCreatedAt)),
		UpdatedAt: parseStamp(doc.String(docstore.FieldUpdatedAt)),
	}
}

// decodeBody unmarshals the non-meta fields of doc into dst.
func decodeBody(doc docstore.Document, dst any) error {
	body := make(docstore.Document, len(doc))
	for k, v := range doc {
		body[k] = v
	}
	for _, k := range metaKeys {
		delete(body, k)
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// encodeBody is toDocument without the store-managed meta keys; uid stays.
func encodeBody(rec any) (docstore.Document, error) {
	doc, err := toDocument(rec)
	if err != nil {
		return nil, err
	}
	return docstore.WritableFields(doc), nil
}

func parseStamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := docstore.ParseStamp(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// flexList reads a list stored either as an array or as one joined string.
type flexList []string

func (l *flexList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var joined string
		if err := json.Unmarshal(b, &joined); err != nil {
			return err
		}
		sep := ","
		if strings.Contains(joined, "\n") {
			sep = "\n"
		}
		*l = tag.Split(joined, sep)
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

func (l flexList) values() []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}
