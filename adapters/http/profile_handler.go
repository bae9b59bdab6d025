package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/folio/internal/application/usecase/profile"
	"github.com/khoahotran/folio/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), profileUC.GetProfileInput{OwnerID: p.ID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: output.Profile, PublicURL: output.PublicURL})
}

// SaveProfile merges the body into the caller's profile, creating it on first save.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	req, err := bindJSON[ProfileRequest](c)
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteSaveProfile(c.Request.Context(), profileUC.SaveProfileInput{
		Principal: p,
		Update:    req.ToUpdate(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: output.Profile, PublicURL: output.PublicURL})
}
