package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/application/usecase/portfolio"
)

type PortfolioHandler struct {
	composeUseCase *portfolio.ComposeUseCase
}

func NewPortfolioHandler(uc *portfolio.ComposeUseCase) *PortfolioHandler {
	return &PortfolioHandler{composeUseCase: uc}
}

// ByUsername is the public portfolio page. Sources that failed are listed in
// the errors field and the rest is still returned.
func (h *PortfolioHandler) ByUsername(c *gin.Context) {
	h.render(c, portfolio.ComposeInput{Username: c.Param("username")})
}

// Mine composes the caller's own portfolio, even before a username is set.
func (h *PortfolioHandler) Mine(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	h.render(c, portfolio.ComposeInput{OwnerID: p.ID})
}

func (h *PortfolioHandler) render(c *gin.Context, input portfolio.ComposeInput) {
	out, err := h.composeUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}
