package persistence

import (
	"time"

	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/pkg/logger"
)

type postDoc struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Date           string   `json:"date"`
	Image          string   `json:"image"`
	ImageURL       string   `json:"imageUrl"`
	Tags           flexList `json:"tags"`
	AuthorName     string   `json:"authorName"`
	AuthorUsername string   `json:"authorUsername"`
}

var postCodec = codec[*post.Post]{
	resource: "post",
	encode: func(p *post.Post) (docstore.Document, error) {
		doc, err := encodeBody(p)
		if err != nil {
			return nil, err
		}
		if p.Date.IsZero() {
			delete(doc, "date")
		} else {
			doc["date"] = p.Date.UTC().Format(post.DateLayout)
		}
		return doc, nil
	},
	decode: func(doc docstore.Document, meta content.Meta) (*post.Post, error) {
		var raw postDoc
		if err := decodeBody(doc, &raw); err != nil {
			return nil, err
		}
		image := raw.Image
		if image == "" {
			image = raw.ImageURL
		}
		return &post.Post{
			Meta:           meta,
			Title:          raw.Title,
			Content:        raw.Content,
			Date:           postDate(raw.Date, meta.CreatedAt),
			Image:          image,
			Tags:           raw.Tags.values(),
			AuthorName:     raw.AuthorName,
			AuthorUsername: raw.AuthorUsername,
		}, nil
	},
}

// postDate accepts a plain date or a full timestamp and falls back to the
// creation time.
func postDate(raw string, createdAt time.Time) time.Time {
	if raw != "" {
		if d, err := time.Parse(post.DateLayout, raw); err == nil {
			return d
		}
		if t, err := docstore.ParseStamp(raw); err == nil {
			return t.UTC()
		}
	}
	return createdAt
}

func NewPostRepo(store docstore.Store, logger logger.Logger) post.Repository {
	return newContentRepo(store, docstore.CollectionPosts, postCodec, logger)
}
