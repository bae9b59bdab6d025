// Package state holds owner-scoped, in-memory mirrors of the content
// collections and the session they follow.
package state

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// ErrStale is returned by a load whose owner was replaced before it finished.
var ErrStale = errors.New("owner changed while loading")

// Source is the store a container reads from and writes through.
type Source[T content.Record] interface {
	ListByOwner(ctx context.Context, ownerID string) ([]T, error)
	Create(ctx context.Context, actor user.Principal, rec T) (T, error)
	Update(ctx context.Context, actor user.Principal, id string, patch content.Patch[T]) (T, error)
	Delete(ctx context.Context, actor user.Principal, id string) error
}

type Container[T content.Record] struct {
	name   string
	source Source[T]
	logger logger.Logger

	mu      sync.RWMutex
	gen     uint64
	owner   string
	status  Status
	records []T
	err     error
}

func NewContainer[T content.Record](name string, source Source[T], log logger.Logger) *Container[T] {
	return &Container[T]{
		name:   name,
		source: source,
		logger: log.With(zap.String("container", name)),
	}
}

// SwitchOwner discards the cached records and loads ownerID's. An empty
// ownerID resets the container.
func (c *Container[T]) SwitchOwner(ctx context.Context, ownerID string) error {
	gen := c.begin(ownerID)
	return c.fill(ctx, gen, ownerID)
}

// begin clears the container for ownerID and returns the load generation.
func (c *Container[T]) begin(ownerID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.owner = ownerID
	c.records = nil
	c.err = nil
	c.status = StatusLoading
	if ownerID == "" {
		c.status = StatusUninitialized
	}
	return c.gen
}

func (c *Container[T]) fill(ctx context.Context, gen uint64, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	recs, err := c.source.ListByOwner(ctx, ownerID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		c.logger.Debug("Discarding stale load", zap.String("owner_id", ownerID))
		return ErrStale
	}
	if err != nil {
		c.status = StatusFailed
		c.err = err
		c.logger.Error("Failed to load records", err, zap.String("owner_id", ownerID))
		return err
	}
	c.status = StatusReady
	c.records = recs
	return nil
}

// Reload refetches the current owner.
func (c *Container[T]) Reload(ctx context.Context) error {
	return c.SwitchOwner(ctx, c.Owner())
}

func (c *Container[T]) Owner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// Records returns a copy of the cached slice. It is empty unless Ready.
func (c *Container[T]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

func (c *Container[T]) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Container[T]) Loading() bool {
	return c.Status() == StatusLoading
}

// Err is the error of the last failed load.
func (c *Container[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Add creates rec through the source and appends the stored record without
// refetching. Records for another owner are not spliced in.
func (c *Container[T]) Add(ctx context.Context, actor user.Principal, rec T) (T, error) {
	gen := c.generation()
	created, err := c.source.Create(ctx, actor, rec)
	if err != nil {
		return created, err
	}
	c.mutate(gen, func() {
		if created.Base().OwnerID == c.owner {
			c.records = append(c.records, created)
		}
	})
	return created, nil
}

func (c *Container[T]) Update(ctx context.Context, actor user.Principal, id string, patch content.Patch[T]) (T, error) {
	gen := c.generation()
	updated, err := c.source.Update(ctx, actor, id, patch)
	if err != nil {
		return updated, err
	}
	c.mutate(gen, func() {
		if _, i, ok := content.FindByID(c.records, id); ok {
			c.records[i] = updated
		}
	})
	return updated, nil
}

// Remove deletes id. A record already gone from the store is still dropped
// from the cache.
func (c *Container[T]) Remove(ctx context.Context, actor user.Principal, id string) error {
	gen := c.generation()
	if err := c.source.Delete(ctx, actor, id); err != nil {
		if !apperror.IsNotFound(err) {
			return err
		}
		c.logger.Debug("Record already removed", zap.String("id", id))
	}
	c.mutate(gen, func() {
		if _, i, ok := content.FindByID(c.records, id); ok {
			c.records = slices.Delete(c.records, i, i+1)
		}
	})
	return nil
}

func (c *Container[T]) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// mutate applies fn only if the owner did not change since gen and the
// records are loaded.
func (c *Container[T]) mutate(gen uint64, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.status != StatusReady {
		return
	}
	fn()
}
