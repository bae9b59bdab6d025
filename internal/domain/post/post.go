package post

import (
	"strings"
	"time"

	"github.com/khoahotran/folio/internal/domain/content"
)

// DateLayout is how the publication date is written to documents.
const DateLayout = "2006-01-02"

// LegacyImageField is the older name of the image field.
const LegacyImageField = "imageUrl"

type Post struct {
	content.Meta
	Title   string `json:"title"`
	Content string `json:"content"`
	// Date is the publication date, falling back to CreatedAt for records
	// written without one.
	Date           time.Time `json:"date,omitzero"`
	Image          string    `json:"image,omitempty"`
	Tags           []string  `json:"tags"`
	AuthorName     string    `json:"authorName"`
	AuthorUsername string    `json:"authorUsername"`
}

type Repository = content.Repository[*Post]

// Matches reports whether q appears in the title or content, ignoring case.
func (p *Post) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q)
}

func Filter(posts []*Post, q string) []*Post {
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if p.Matches(q) {
			out = append(out, p)
		}
	}
	return out
}

type Patch struct {
	Title          *string    `json:"title,omitempty"`
	Content        *string    `json:"content,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	Image          *string    `json:"image,omitempty"`
	Tags           *[]string  `json:"tags,omitempty"`
	AuthorName     *string    `json:"authorName,omitempty"`
	AuthorUsername *string    `json:"authorUsername,omitempty"`
}

func (p Patch) Fields() map[string]any {
	f := make(map[string]any)
	if p.Title != nil {
		f["title"] = *p.Title
	}
	if p.Content != nil {
		f["content"] = *p.Content
	}
	if p.Date != nil {
		f["date"] = p.Date.UTC().Format(DateLayout)
	}
	if p.Image != nil {
		f["image"] = *p.Image
		f[LegacyImageField] = nil
	}
	if p.Tags != nil {
		f["tags"] = *p.Tags
	}
	if p.AuthorName != nil {
		f["authorName"] = *p.AuthorName
	}
	if p.AuthorUsername != nil {
		f["authorUsername"] = *p.AuthorUsername
	}
	return f
}

func (p Patch) Apply(rec *Post) {
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Content != nil {
		rec.Content = *p.Content
	}
	if p.Date != nil {
		rec.Date = p.Date.UTC().Truncate(24 * time.Hour)
	}
	if p.Image != nil {
		rec.Image = *p.Image
	}
	if p.Tags != nil {
		rec.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.AuthorName != nil {
		rec.AuthorName = *p.AuthorName
	}
	if p.AuthorUsername != nil {
		rec.AuthorUsername = *p.AuthorUsername
	}
}
