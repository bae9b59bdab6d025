// Package content holds the contract shared by the owner-scoped collections
// (projects, posts, experience).
package content

import (
	"context"
	"time"
)

// Meta is embedded by every content record.
type Meta struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"uid"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (m *Meta) Base() *Meta { return m }

// Record is implemented by pointers to content structs.
type Record interface {
	Base() *Meta
}

// Patch is a partial update. Fields returns the document fields to merge and
// Apply mirrors the same change onto an in-memory record.
type Patch[T Record] interface {
	Fields() map[string]any
	Apply(rec T)
}

type Repository[T Record] interface {
	// ListByOwner returns an empty slice, never an error, for owners without records.
	ListByOwner(ctx context.Context, ownerID string) ([]T, error)
	// ListAll is the unscoped community feed.
	ListAll(ctx context.Context) ([]T, error)
	// GetByID is not owner scoped.
	GetByID(ctx context.Context, id string) (T, error)
	// Add assigns ID and CreatedAt on rec and returns the new id.
	Add(ctx context.Context, rec T) (string, error)
	Update(ctx context.Context, id, ownerID string, patch Patch[T]) error
	Remove(ctx context.Context, id, ownerID string) error
}

// FindByID returns the record with id from recs, or false.
func FindByID[T Record](recs []T, id string) (T, int, bool) {
	for i, r := range recs {
		if r.Base().ID == id {
			return r, i, true
		}
	}
	var zero T
	return zero, -1, false
}
