package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

type Handlers struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Projects   *ProjectHandler
	Posts      *PostHandler
	Experience *ExperienceHandler
	Portfolio  *PortfolioHandler
	Backup     *BackupHandler
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(jwtSvc, log)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		authGroup := api.Group("/auth/github")
		authGroup.GET("/login", h.Auth.GitHubLogin)
		authGroup.GET("/callback", h.Auth.GitHubCallback)

		api.GET("/me", authMiddleware, h.Auth.Me)

		admin := api.Group("/admin")
		admin.Use(authMiddleware)
		{
			admin.GET("/profile", h.Profile.GetProfile)
			admin.PUT("/profile", h.Profile.SaveProfile)
			admin.GET("/portfolio", h.Portfolio.Mine)
			admin.GET("/export", h.Backup.Export)

			projects := admin.Group("/projects")
			projects.POST("", h.Projects.Create)
			projects.GET("", h.Projects.ListMine)
			projects.PATCH("/:id", h.Projects.Update)
			projects.DELETE("/:id", h.Projects.Delete)

			posts := admin.Group("/posts")
			posts.POST("", h.Posts.Create)
			posts.GET("", h.Posts.ListMine)
			posts.PATCH("/:id", h.Posts.Update)
			posts.DELETE("/:id", h.Posts.Delete)

			experience := admin.Group("/experience")
			experience.POST("", h.Experience.Create)
			experience.GET("", h.Experience.ListMine)
			experience.PATCH("/:id", h.Experience.Update)
			experience.DELETE("/:id", h.Experience.Delete)
		}

		api.GET("/posts", h.Posts.Feed)
		api.GET("/posts/:id", h.Posts.Get)
		api.GET("/projects/:id", h.Projects.Get)
		api.GET("/experience/:id", h.Experience.Get)

		owner := api.Group("/u/:username")
		{
			owner.GET("", h.Portfolio.ByUsername)
			owner.GET("/projects", h.Projects.ListByUsername)
			owner.GET("/posts", h.Posts.ListByUsername)
			owner.GET("/experience", h.Experience.ListByUsername)
			owner.GET("/rss", h.Posts.RSS)
		}
	}

	return router
}
