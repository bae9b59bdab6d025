package persistence

import (
	"strings"

	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/pkg/logger"
)

// projectDoc is the stored shape, including the single-snippet field older
// records carry instead of codeSnippets.
type projectDoc struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Technologies  flexList              `json:"technologies"`
	GithubURL     string                `json:"githubUrl"`
	LiveURL       string                `json:"liveUrl"`
	Image         string                `json:"image"`
	KeyFeatures   flexList              `json:"keyFeatures"`
	CodeSnippets  []project.CodeSnippet `json:"codeSnippets"`
	LegacySnippet *project.CodeSnippet  `json:"codeSnippet"`
}

var projectCodec = codec[*project.Project]{
	resource: "project",
	encode: func(p *project.Project) (docstore.Document, error) {
		return encodeBody(p)
	},
	decode: func(doc docstore.Document, meta content.Meta) (*project.Project, error) {
		var raw projectDoc
		if err := decodeBody(doc, &raw); err != nil {
			return nil, err
		}
		snippets := raw.CodeSnippets
		if len(snippets) == 0 && raw.LegacySnippet != nil && strings.TrimSpace(raw.LegacySnippet.Code) != "" {
			snippets = []project.CodeSnippet{*raw.LegacySnippet}
		}
		if snippets == nil {
			snippets = []project.CodeSnippet{}
		}
		return &project.Project{
			Meta:         meta,
			Title:        raw.Title,
			Description:  raw.Description,
			Technologies: raw.Technologies.values(),
			GithubURL:    raw.GithubURL,
			LiveURL:      raw.LiveURL,
			Image:        raw.Image,
			KeyFeatures:  raw.KeyFeatures.values(),
			CodeSnippets: snippets,
		}, nil
	},
}

func NewProjectRepo(store docstore.Store, logger logger.Logger) project.Repository {
	return newContentRepo(store, docstore.CollectionProjects, projectCodec, logger)
}
