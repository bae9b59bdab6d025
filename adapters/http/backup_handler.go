package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/application/usecase/backup"
)

type BackupHandler struct {
	exportUseCase *backup.ExportUseCase
}

func NewBackupHandler(uc *backup.ExportUseCase) *BackupHandler {
	return &BackupHandler{exportUseCase: uc}
}

// Export downloads every document the caller owns as one JSON file.
func (h *BackupHandler) Export(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	archive, err := h.exportUseCase.Execute(c.Request.Context(), p.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+archive.Filename()+`"`)
	c.JSON(http.StatusOK, archive)
}
