// Package routers 组装 HTTP 路由与中间件
package routers

import (
	"time"

	"github.com/haierkeys/versioned-notes-service/internal/app"
	"github.com/haierkeys/versioned-notes-service/internal/middleware"
	"github.com/haierkeys/versioned-notes-service/internal/routers/api_router"
	"github.com/haierkeys/versioned-notes-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/user/",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

// NewRouter 创建 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header))
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		userHandler := api_router.NewUserHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)
		attachmentHandler := api_router.NewAttachmentHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)

		// 公开接口
		api.GET("/health", healthHandler.Check)
		api.GET("/version", healthHandler.ServerVersion)
		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.POST("/user/refresh", userHandler.Refresh)

		// 认证接口
		auth := api.Group("", middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey))
		{
			auth.POST("/user/logout", userHandler.Logout)
			auth.GET("/user/info", userHandler.Info)

			auth.POST("/notes", noteHandler.Create)
			auth.GET("/notes", noteHandler.List)
			auth.GET("/notes/search", noteHandler.Search)
			auth.GET("/notes/:id", noteHandler.Get)
			auth.PUT("/notes/:id", noteHandler.Update)
			auth.DELETE("/notes/:id", noteHandler.Delete)
			auth.POST("/notes/:id/revert", noteHandler.Revert)

			auth.GET("/notes/:id/versions", versionHandler.List)
			auth.GET("/notes/:id/versions/diff", versionHandler.Diff)
			auth.GET("/notes/:id/versions/:version", versionHandler.Get)

			auth.POST("/notes/:id/attachments", attachmentHandler.Upload)
			auth.GET("/notes/:id/attachments", attachmentHandler.List)
			auth.GET("/notes/:id/attachments/:attachment_id", attachmentHandler.Download)
			auth.DELETE("/notes/:id/attachments/:attachment_id", attachmentHandler.Delete)
		}
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
