// Package docstore is the access contract the portfolio layer builds on: a
// small set of operations over named collections of JSON-like documents.
// Backends live in adapters/persistence.
package docstore

import (
	"context"
	"errors"
)

const (
	FieldID        = "id"
	FieldOwner     = "uid"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

const (
	CollectionUsers      = "users"
	CollectionProjects   = "projects"
	CollectionPosts      = "posts"
	CollectionExperience = "experience"
)

var (
	ErrNotFound = errors.New("docstore: document not found")
	ErrConflict = errors.New("docstore: unique constraint violated")
)

// Document is a decoded record. Returned documents always carry FieldID.
type Document map[string]any

// Filter is a conjunction of top-level equality matches. An empty filter
// matches every document in the collection.
type Filter map[string]any

type Collection interface {
	// Get returns ErrNotFound when no document has the id.
	Get(ctx context.Context, id string) (Document, error)
	// Find returns matches ordered by createdAt, then id.
	Find(ctx context.Context, filter Filter) ([]Document, error)
	// Insert assigns a fresh id and createdAt and returns the stored document.
	Insert(ctx context.Context, doc Document) (Document, error)
	// Merge upserts: fields are merged into the document with the id, which is
	// created when missing. updatedAt is always stamped.
	Merge(ctx context.Context, id string, fields Document) error
	// Update merges fields into an existing document matching id and guard and
	// stamps updatedAt. ErrNotFound when nothing matched.
	Update(ctx context.Context, id string, fields Document, guard Filter) error
	// Delete removes the document matching id and guard. ErrNotFound when
	// nothing matched.
	Delete(ctx context.Context, id string, guard Filter) error
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
