package http

import (
	"github.com/gin-gonic/gin"

	experienceUC "github.com/khoahotran/folio/internal/application/usecase/experience"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/pkg/logger"
)

type ExperienceHandler = ContentHandler[*experience.Experience]

func NewExperienceHandler(svc *experienceUC.Service, resolver Resolver, log logger.Logger) *ExperienceHandler {
	return newContentHandler(svc, resolver, binder[*experience.Experience]{
		create: func(c *gin.Context) (*experience.Experience, error) {
			req, err := bindJSON[ExperienceRequest](c)
			if err != nil {
				return nil, err
			}
			return req.ToExperience(), nil
		},
		patch: func(c *gin.Context) (content.Patch[*experience.Experience], error) {
			req, err := bindJSON[ExperienceRequest](c)
			if err != nil {
				return nil, err
			}
			return req.ToPatch(), nil
		},
	}, log)
}
