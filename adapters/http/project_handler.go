package http

import (
	"github.com/gin-gonic/gin"

	projectUC "github.com/khoahotran/folio/internal/application/usecase/project"
	"github.com/khoahotran/folio/internal/domain/content"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/pkg/logger"
)

type ProjectHandler = ContentHandler[*project.Project]

func NewProjectHandler(svc *projectUC.Service, resolver Resolver, log logger.Logger) *ProjectHandler {
	return newContentHandler(svc, resolver, binder[*project.Project]{
		create: func(c *gin.Context) (*project.Project, error) {
			req, err := bindJSON[ProjectRequest](c)
			if err != nil {
				return nil, err
			}
			return req.ToProject(), nil
		},
		patch: func(c *gin.Context) (content.Patch[*project.Project], error) {
			req, err := bindJSON[ProjectRequest](c)
			if err != nil {
				return nil, err
			}
			return req.ToPatch(), nil
		},
	}, log)
}
