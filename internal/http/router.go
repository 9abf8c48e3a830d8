package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/eunsilJANG/EasyGo/internal/config"
	"github.com/eunsilJANG/EasyGo/internal/http/handler"
	"github.com/eunsilJANG/EasyGo/internal/http/middleware"
)

// NewRouter wires Gin routes and middleware. Authentication is split in
// two: Authenticate identifies the caller on every request, and Enforce
// applies the route policy table on top of it.
func NewRouter(
	cfg config.Config,
	authHandler *handler.AuthHandler,
	oauthHandler *handler.OAuthHandler,
	blogHandler *handler.BlogHandler,
	courseHandler *handler.CourseHandler,
	uploadHandler *handler.UploadHandler,
	authMiddleware *middleware.Auth,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(authMiddleware.Authenticate)
	r.Use(middleware.Enforce(middleware.DefaultPolicies))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)
		api.POST("/token", authHandler.Renew)
		api.POST("/upload", uploadHandler.Upload)

		user := api.Group("/user")
		{
			user.GET("/me", authHandler.Me)
			user.POST("/nickname", authHandler.UpdateNickname)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", blogHandler.ListArticles)
			articles.POST("", blogHandler.CreateArticle)
			articles.GET("/:id", blogHandler.GetArticle)
			articles.PUT("/:id", blogHandler.UpdateArticle)
			articles.DELETE("/:id", blogHandler.DeleteArticle)
			articles.POST("/:id/like", blogHandler.ToggleLike)
			articles.GET("/:id/comments", blogHandler.ListComments)
			articles.POST("/:id/comments", blogHandler.AddComment)
		}

		comments := api.Group("/comments")
		{
			comments.PUT("/:id", blogHandler.UpdateComment)
			comments.DELETE("/:id", blogHandler.DeleteComment)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.ListCourses)
			courses.POST("", courseHandler.SaveCourse)
			courses.GET("/:id", courseHandler.GetCourse)
		}
	}

	r.GET("/oauth2/authorization/:provider", oauthHandler.Authorize)
	r.GET("/login/oauth2/code/:provider", oauthHandler.Callback)

	r.Static("/uploads", cfg.UploadDir)

	return r
}
