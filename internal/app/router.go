package app

import (
	"coder_edu_catalog/docs"
	"coder_edu_catalog/internal/config"
	"coder_edu_catalog/internal/middleware"
	"coder_edu_catalog/internal/util"
	"coder_edu_catalog/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		courses := public.Group("/courses")
		courses.GET("", c.catalog.ListCourses)
		courses.GET("/:courseId", c.catalog.GetCourse)
		courses.GET("/:courseId/modules/:moduleId", c.catalog.GetModule)
		courses.GET("/:courseId/modules/:moduleId/lessons/:lessonId", c.catalog.GetLesson)
		courses.GET("/:courseId/modules/:moduleId/lessons/:lessonId/navigation", c.catalog.Navigation)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(util.RoleAdmin))
	{
		admin.POST("/catalog/reload", c.adminCatalog.Reload)
		admin.GET("/catalog/report", c.adminCatalog.Report)
		admin.POST("/catalog/publish", c.adminCatalog.Publish)
		admin.GET("/catalog/revisions", c.adminCatalog.Revisions)
		admin.GET("/catalog/published", c.adminCatalog.Published)
		admin.GET("/catalog/published/courses/:courseId/modules/:moduleId/lessons/:lessonId", c.adminCatalog.PublishedLesson)
	}
}
