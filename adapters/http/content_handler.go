package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contentUC "github.com/khoahotran/folio/internal/application/usecase/content"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type Resolver interface {
	Execute(ctx context.Context, username string) (*profile.Profile, error)
}

// binder turns a request body into a new record or a patch.
type binder[T content.Record] struct {
	create func(c *gin.Context) (T, error)
	patch  func(c *gin.Context) (content.Patch[T], error)
}

// ContentHandler serves the owner CRUD and public reads of one collection.
type ContentHandler[T content.Record] struct {
	svc      *contentUC.Service[T]
	resolver Resolver
	bind     binder[T]
	logger   logger.Logger
}

func newContentHandler[T content.Record](svc *contentUC.Service[T], resolver Resolver, bind binder[T], log logger.Logger) *ContentHandler[T] {
	return &ContentHandler[T]{
		svc:      svc,
		resolver: resolver,
		bind:     bind,
		logger:   log.With(zap.String("collection", svc.Collection())),
	}
}

func (h *ContentHandler[T]) Create(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	rec, err := h.bind.create(c)
	if err != nil {
		c.Error(err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), p, rec)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler[T]) ListMine(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	recs, err := h.svc.ListByOwner(c.Request.Context(), p.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *ContentHandler[T]) Update(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	patch, err := h.bind.patch(c)
	if err != nil {
		c.Error(err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler[T]) Delete(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get is the public deep link; records of any owner are readable by id.
func (h *ContentHandler[T]) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ContentHandler[T]) ListByUsername(c *gin.Context) {
	owner, err := h.resolver.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	recs, err := h.svc.ListByOwner(c.Request.Context(), owner.OwnerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func bindJSON[R any](c *gin.Context) (*R, error) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperror.NewInvalidInput("invalid request data", err)
	}
	return &req, nil
}
