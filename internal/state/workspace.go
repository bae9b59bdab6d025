package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type Resolver interface {
	Execute(ctx context.Context, username string) (*profile.Profile, error)
}

type ProfileReader interface {
	Get(ctx context.Context, ownerID string) (*profile.Profile, error)
}

type Sources struct {
	Projects   Source[*project.Project]
	Posts      Source[*post.Post]
	Experience Source[*experience.Experience]
}

// Workspace keeps the three content containers and the profile on one owner:
// the signed-in principal, or the owner of a followed username.
type Workspace struct {
	Projects   *Container[*project.Project]
	Posts      *Container[*post.Post]
	Experience *Container[*experience.Experience]

	session     *Session
	resolver    Resolver
	profiles    ProfileReader
	logger      logger.Logger
	unsubscribe func()

	mu       sync.RWMutex
	seq      uint64 // bumped by every Follow
	gen      uint64 // bumped when an owner is committed
	username string
	ownerID  string
	profile  *profile.Profile
}

// loader is the non-generic face of a Container used to start every
// container on the new owner while the workspace lock is held.
type loader interface {
	begin(ownerID string) uint64
	fill(ctx context.Context, gen uint64, ownerID string) error
}

const sessionReloadTimeout = 10 * time.Second

func NewWorkspace(session *Session, resolver Resolver, profiles ProfileReader, sources Sources, log logger.Logger) *Workspace {
	w := &Workspace{
		Projects:   NewContainer("projects", sources.Projects, log),
		Posts:      NewContainer("posts", sources.Posts, log),
		Experience: NewContainer("experience", sources.Experience, log),
		session:    session,
		resolver:   resolver,
		profiles:   profiles,
		logger:     log,
	}
	w.unsubscribe = session.Subscribe(w.onPrincipal)
	return w
}

// Follow points the workspace at username, or at the session principal when
// username is empty. A Follow overtaken by a later one returns ErrStale and
// leaves the workspace alone.
func (w *Workspace) Follow(ctx context.Context, username string) error {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	ownerID := w.session.Current().ID
	if username != "" {
		p, err := w.resolver.Execute(ctx, username)
		if err != nil {
			if w.overtaken(seq) {
				return ErrStale
			}
			return err
		}
		ownerID = p.OwnerID
	}

	w.mu.Lock()
	if w.seq != seq {
		w.mu.Unlock()
		w.logger.Debug("Discarding stale follow", zap.String("username", username))
		return ErrStale
	}
	fills := w.switchTo(username, ownerID)
	w.mu.Unlock()

	return runFills(ctx, fills)
}

// Refresh reloads everything for the current owner.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.mu.Lock()
	fills := w.switchTo(w.username, w.ownerID)
	w.mu.Unlock()
	return runFills(ctx, fills)
}

func (w *Workspace) OwnerID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ownerID
}

// Profile is nil until loaded, and for owners who never saved one.
func (w *Workspace) Profile() *profile.Profile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.profile
}

// IsSelf reports whether the workspace shows the signed-in owner.
func (w *Workspace) IsSelf() bool {
	id := w.session.Current().ID
	return id != "" && id == w.OwnerID()
}

func (w *Workspace) Actor() user.Principal {
	return w.session.Current()
}

func (w *Workspace) Close() {
	w.unsubscribe()
}

func (w *Workspace) overtaken(seq uint64) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.seq != seq
}

// switchTo commits ownerID and clears every container for it. Callers hold
// w.mu so containers switch in the same order as the workspace.
func (w *Workspace) switchTo(username, ownerID string) []func(context.Context) error {
	w.gen++
	gen := w.gen
	w.username = username
	w.ownerID = ownerID
	w.profile = nil

	fills := make([]func(context.Context) error, 0, 4)
	for _, l := range []loader{w.Projects, w.Posts, w.Experience} {
		lgen := l.begin(ownerID)
		fills = append(fills, func(ctx context.Context) error { return l.fill(ctx, lgen, ownerID) })
	}
	return append(fills, func(ctx context.Context) error { return w.loadProfile(ctx, gen, ownerID) })
}

func runFills(ctx context.Context, fills []func(context.Context) error) error {
	var g errgroup.Group
	for _, fill := range fills {
		g.Go(func() error { return fill(ctx) })
	}
	return g.Wait()
}

func (w *Workspace) loadProfile(ctx context.Context, gen uint64, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	p, err := w.profiles.Get(ctx, ownerID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		return ErrStale
	}
	if err != nil && !apperror.IsNotFound(err) {
		w.logger.Error("Failed to load profile", err, zap.String("owner_id", ownerID))
		return err
	}
	w.profile = p
	return nil
}

// onPrincipal follows the new principal when the workspace tracks self.
func (w *Workspace) onPrincipal(p user.Principal) {
	w.mu.RLock()
	self := w.username == ""
	w.mu.RUnlock()
	if !self {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sessionReloadTimeout)
	defer cancel()
	if err := w.Follow(ctx, ""); err != nil && !errors.Is(err, ErrStale) {
		w.logger.Warn("Failed to follow new principal", zap.String("user_id", p.ID), zap.Error(err))
	}
}
