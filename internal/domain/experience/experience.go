package experience

import (
	"errors"

	"github.com/khoahotran/folio/internal/domain/content"
)

type Kind string

const (
	KindWork      Kind = "work"
	KindEducation Kind = "education"
)

var ErrInvalidKind = errors.New("type must be 'work' or 'education'")

func (k Kind) Valid() bool {
	return k == KindWork || k == KindEducation
}

type Experience struct {
	content.Meta
	Type           Kind   `json:"type"`
	Title          string `json:"title"`
	Company        string `json:"company,omitempty"`
	Institution    string `json:"institution,omitempty"`
	Date           string `json:"date"`
	Description    string `json:"description"`
	AuthorName     string `json:"authorName"`
	AuthorUsername string `json:"authorUsername"`
}

type Repository = content.Repository[*Experience]

// Org is the company for work entries and the institution for education.
func (e *Experience) Org() string {
	if e.Type == KindEducation {
		return e.Institution
	}
	return e.Company
}

func (e *Experience) Validate() error {
	if !e.Type.Valid() {
		return ErrInvalidKind
	}
	return nil
}

type Patch struct {
	Type           *Kind   `json:"type,omitempty"`
	Title          *string `json:"title,omitempty"`
	Company        *string `json:"company,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	Date           *string `json:"date,omitempty"`
	Description    *string `json:"description,omitempty"`
	AuthorName     *string `json:"authorName,omitempty"`
	AuthorUsername *string `json:"authorUsername,omitempty"`
}

func (p Patch) Validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (p Patch) Fields() map[string]any {
	f := make(map[string]any)
	if p.Type != nil {
		f["type"] = string(*p.Type)
	}
	strs := map[string]*string{
		"title":          p.Title,
		"company":        p.Company,
		"institution":    p.Institution,
		"date":           p.Date,
		"description":    p.Description,
		"authorName":     p.AuthorName,
		"authorUsername": p.AuthorUsername,
	}
	for k, v := range strs {
		if v != nil {
			f[k] = *v
		}
	}
	return f
}

func (p Patch) Apply(rec *Experience) {
	if p.Type != nil {
		rec.Type = *p.Type
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&rec.Title, p.Title)
	set(&rec.Company, p.Company)
	set(&rec.Institution, p.Institution)
	set(&rec.Date, p.Date)
	set(&rec.Description, p.Description)
	set(&rec.AuthorName, p.AuthorName)
	set(&rec.AuthorUsername, p.AuthorUsername)
}
