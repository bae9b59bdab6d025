package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	postUC "github.com/khoahotran/folio/internal/application/usecase/post"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/pkg/logger"
)

type PostHandler struct {
	*ContentHandler[*post.Post]
	feed *postUC.FeedUseCase
	rss  *postUC.RSSUseCase
}

func NewPostHandler(svc *postUC.Service, feed *postUC.FeedUseCase, rss *postUC.RSSUseCase, resolver Resolver, log logger.Logger) *PostHandler {
	return &PostHandler{
		ContentHandler: newContentHandler(svc, resolver, binder[*post.Post]{
			create: func(c *gin.Context) (*post.Post, error) {
				req, err := bindJSON[PostRequest](c)
				if err != nil {
					return nil, err
				}
				return req.ToPost()
			},
			patch: func(c *gin.Context) (content.Patch[*post.Post], error) {
				req, err := bindJSON[PostRequest](c)
				if err != nil {
					return nil, err
				}
				return req.ToPatch()
			},
		}, log),
		feed: feed,
		rss:  rss,
	}
}

// Feed lists every owner's posts, optionally filtered by ?q=.
func (h *PostHandler) Feed(c *gin.Context) {
	posts, err := h.feed.Execute(c.Request.Context(), postUC.FeedInput{Query: c.Query("q")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) ListByUsername(c *gin.Context) {
	owner, err := h.resolver.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	posts, err := h.feed.Execute(c.Request.Context(), postUC.FeedInput{OwnerID: owner.OwnerID, Query: c.Query("q")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// RSS serves an owner's posts as an RSS 2.0 document.
func (h *PostHandler) RSS(c *gin.Context) {
	feed, err := h.rss.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	body, err := feed.ToRss()
	if err != nil {
		h.logger.Error("Failed to render RSS feed", err)
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(body))
}
