package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/internal/domain/tag"
	"github.com/khoahotran/folio/pkg/apperror"
)

// CommaList accepts a JSON array or a comma separated string ("Go, SQL").
type CommaList []string

func (l *CommaList) UnmarshalJSON(b []byte) error {
	return unmarshalList(b, ",", (*[]string)(l))
}

// LineList accepts a JSON array or one entry per line.
type LineList []string

func (l *LineList) UnmarshalJSON(b []byte) error {
	return unmarshalList(b, "\n", (*[]string)(l))
}

func unmarshalList(b []byte, sep string, dst *[]string) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*dst = arr
		return nil
	}
	var joined string
	if err := json.Unmarshal(b, &joined); err != nil {
		return err
	}
	*dst = tag.Split(joined, sep)
	return nil
}

// Profile DTOs

type ProfileRequest struct {
	Name     *string    `json:"name"`
	Bio      *string    `json:"bio"`
	Tagline  *string    `json:"tagline"`
	Username *string    `json:"username"`
	Skills   *CommaList `json:"skills"`
	PhotoURL *string    `json:"photoURL"`
	LinkedIn *string    `json:"linkedin" binding:"omitempty,url"`
	GitHub   *string    `json:"github" binding:"omitempty,url"`
	Facebook *string    `json:"facebook" binding:"omitempty,url"`
	Email    *string    `json:"email" binding:"omitempty,email"`
}

func (r *ProfileRequest) ToUpdate() profile.Update {
	return profile.Update{
		Name:     r.Name,
		Bio:      r.Bio,
		Tagline:  r.Tagline,
		Username: r.Username,
		Skills:   (*[]string)(r.Skills),
		PhotoURL: r.PhotoURL,
		LinkedIn: r.LinkedIn,
		GitHub:   r.GitHub,
		Facebook: r.Facebook,
		Email:    r.Email,
	}
}

type ProfileResponse struct {
	Profile   *profile.Profile `json:"profile"`
	PublicURL string           `json:"publicUrl,omitempty"`
}

// Project DTOs

type ProjectRequest struct {
	Title        *string                `json:"title"`
	Description  *string                `json:"description"`
	Technologies *CommaList             `json:"technologies"`
	GithubURL    *string                `json:"githubUrl" binding:"omitempty,url"`
	LiveURL      *string                `json:"liveUrl" binding:"omitempty,url"`
	Image        *string                `json:"image"`
	KeyFeatures  *LineList              `json:"keyFeatures"`
	CodeSnippets *[]project.CodeSnippet `json:"codeSnippets"`
}

func (r *ProjectRequest) ToPatch() project.Patch {
	return project.Patch{
		Title:        r.Title,
		Description:  r.Description,
		Technologies: (*[]string)(r.Technologies),
		GithubURL:    r.GithubURL,
		LiveURL:      r.LiveURL,
		Image:        r.Image,
		KeyFeatures:  (*[]string)(r.KeyFeatures),
		CodeSnippets: r.CodeSnippets,
	}
}

func (r *ProjectRequest) ToProject() *project.Project {
	p := &project.Project{}
	r.ToPatch().Apply(p)
	return p
}

// Post DTOs

type PostRequest struct {
	Title   *string    `json:"title"`
	Content *string    `json:"content"`
	Date    *string    `json:"date"`
	Image   *string    `json:"image"`
	Tags    *CommaList `json:"tags"`
}

func (r *PostRequest) ToPatch() (post.Patch, error) {
	patch := post.Patch{
		Title:   r.Title,
		Content: r.Content,
		Image:   r.Image,
		Tags:    (*[]string)(r.Tags),
	}
	if r.Date != nil && strings.TrimSpace(*r.Date) != "" {
		d, err := time.Parse(post.DateLayout, strings.TrimSpace(*r.Date))
		if err != nil {
			return post.Patch{}, apperror.NewInvalidInput("date must be YYYY-MM-DD", err)
		}
		patch.Date = &d
	}
	return patch, nil
}

func (r *PostRequest) ToPost() (*post.Post, error) {
	patch, err := r.ToPatch()
	if err != nil {
		return nil, err
	}
	p := &post.Post{}
	patch.Apply(p)
	return p, nil
}

// Experience DTOs

type ExperienceRequest struct {
	Type        *experience.Kind `json:"type"`
	Title       *string          `json:"title"`
	Company     *string          `json:"company"`
	Institution *string          `json:"institution"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
}

func (r *ExperienceRequest) ToPatch() experience.Patch {
	return experience.Patch{
		Type:        r.Type,
		Title:       r.Title,
		Company:     r.Company,
		Institution: r.Institution,
		Date:        r.Date,
		Description: r.Description,
	}
}

func (r *ExperienceRequest) ToExperience() *experience.Experience {
	e := &experience.Experience{}
	r.ToPatch().Apply(e)
	return e
}
