package persistence

import (
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/pkg/logger"
)

var experienceCodec = codec[*experience.Experience]{
	resource: "experience",
	encode: func(e *experience.Experience) (docstore.Document, error) {
		return encodeBody(e)
	},
	decode: func(doc docstore.Document, meta content.Meta) (*experience.Experience, error) {
		e := &experience.Experience{}
		if err := decodeBody(doc, e); err != nil {
			return nil, err
		}
		if e.Type == "" {
			e.Type = experience.KindWork
		}
		e.Meta = meta
		return e, nil
	},
}

func NewExperienceRepo(store docstore.Store, logger logger.Logger) experience.Repository {
	return newContentRepo(store, docstore.CollectionExperience, experienceCodec, logger)
}
