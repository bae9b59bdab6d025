package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/application/usecase/auth"
)

const (
	stateCookie     = "folio_oauth_state"
	stateCookiePath = "/api/auth"
	stateCookieAge  = 600
)

type AuthHandler struct {
	loginUseCase *auth.LoginUseCase
	secureCookie bool
}

func NewAuthHandler(loginUC *auth.LoginUseCase, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		loginUseCase: loginUC,
		secureCookie: secureCookie,
	}
}

// GitHubLogin redirects to GitHub with a fresh state kept in a cookie.
func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	begin := h.loginUseCase.Begin()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, begin.State, stateCookieAge, stateCookiePath, "", h.secureCookie, true)
	c.Redirect(http.StatusFound, begin.RedirectURL)
}

func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	expected, _ := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, stateCookiePath, "", h.secureCookie, true)

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Code:          c.Query("code"),
		State:         c.Query("state"),
		ExpectedState: expected,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
		"user":         output.Principal,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}
