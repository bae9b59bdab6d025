package project

import (
	"fmt"
	"strings"

	"github.com/khoahotran/folio/internal/domain/content"
)

type CodeSnippet struct {
	FileName    string `json:"fileName"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

type Project struct {
	content.Meta
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Technologies []string      `json:"technologies"`
	GithubURL    string        `json:"githubUrl"`
	LiveURL      string        `json:"liveUrl"`
	Image        string        `json:"image,omitempty"`
	KeyFeatures  []string      `json:"keyFeatures"`
	CodeSnippets []CodeSnippet `json:"codeSnippets"`
}

type Repository = content.Repository[*Project]

// LegacySnippetField held a single snippet before codeSnippets existed.
const LegacySnippetField = "codeSnippet"

// CleanSnippets drops snippets whose code is blank.
func CleanSnippets(in []CodeSnippet) []CodeSnippet {
	out := make([]CodeSnippet, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s.Code) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Images lists every inline image on the project keyed by field path.
func (p *Project) Images() map[string]string {
	imgs := map[string]string{"image": p.Image}
	for i, s := range p.CodeSnippets {
		imgs[fmt.Sprintf("codeSnippets[%d].image", i)] = s.Image
	}
	return imgs
}

type Patch struct {
	Title        *string        `json:"title,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Technologies *[]string      `json:"technologies,omitempty"`
	GithubURL    *string        `json:"githubUrl,omitempty"`
	LiveURL      *string        `json:"liveUrl,omitempty"`
	Image        *string        `json:"image,omitempty"`
	KeyFeatures  *[]string      `json:"keyFeatures,omitempty"`
	CodeSnippets *[]CodeSnippet `json:"codeSnippets,omitempty"`
}

func (p Patch) Fields() map[string]any {
	f := make(map[string]any)
	if p.Title != nil {
		f["title"] = *p.Title
	}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.Technologies != nil {
		f["technologies"] = *p.Technologies
	}
	if p.GithubURL != nil {
		f["githubUrl"] = *p.GithubURL
	}
	if p.LiveURL != nil {
		f["liveUrl"] = *p.LiveURL
	}
	if p.Image != nil {
		f["image"] = *p.Image
	}
	if p.KeyFeatures != nil {
		f["keyFeatures"] = *p.KeyFeatures
	}
	if p.CodeSnippets != nil {
		f["codeSnippets"] = *p.CodeSnippets
		f[LegacySnippetField] = nil
	}
	return f
}

// Images lists the inline images the patch would write.
func (p Patch) Images() map[string]string {
	imgs := map[string]string{}
	if p.Image != nil {
		imgs["image"] = *p.Image
	}
	if p.CodeSnippets != nil {
		for i, s := range *p.CodeSnippets {
			imgs[fmt.Sprintf("codeSnippets[%d].image", i)] = s.Image
		}
	}
	return imgs
}

func (p Patch) Apply(rec *Project) {
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Technologies != nil {
		rec.Technologies = append([]string{}, (*p.Technologies)...)
	}
	if p.GithubURL != nil {
		rec.GithubURL = *p.GithubURL
	}
	if p.LiveURL != nil {
		rec.LiveURL = *p.LiveURL
	}
	if p.Image != nil {
		rec.Image = *p.Image
	}
	if p.KeyFeatures != nil {
		rec.KeyFeatures = append([]string{}, (*p.KeyFeatures)...)
	}
	if p.CodeSnippets != nil {
		rec.CodeSnippets = append([]CodeSnippet{}, (*p.CodeSnippets)...)
	}
}
