package controller

import (
	"coder_edu_catalog/internal/service"
	"coder_edu_catalog/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB      *gorm.DB
	Catalog *service.CatalogService
}

// NewHealthController db 为 nil 时不检查数据库
func NewHealthController(db *gorm.DB, catalog *service.CatalogService) *HealthController {
	return &HealthController{DB: db, Catalog: catalog}
}

// @Summary 健康检查
// @Description 检查目录是否已加载以及数据库连接
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{}

	status := c.Catalog.Status()
	if !status.Loaded {
		util.Error(ctx, http.StatusServiceUnavailable, "Catalog not loaded")
		return
	}
	components["catalog"] = status

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		components["database"] = "up"
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
