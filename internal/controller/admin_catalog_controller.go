package controller

import (
	"coder_edu_catalog/internal/service"
	"coder_edu_catalog/internal/util"
	"coder_edu_catalog/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminCatalogController 内容维护接口（需要管理员权限）
type AdminCatalogController struct {
	Service *service.CatalogService
}

func NewAdminCatalogController(service *service.CatalogService) *AdminCatalogController {
	return &AdminCatalogController{Service: service}
}

// @Summary 重新加载目录
// @Description 从内容源重新加载；失败时继续使用当前目录，并返回检查报告
// @Tags 目录管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ReloadResult}
// @Failure 422 {object} util.Response{data=service.ReportView}
// @Router /api/admin/catalog/reload [post]
func (c *AdminCatalogController) Reload(ctx *gin.Context) {
	result, err := c.Service.Reload(ctx.Request.Context())
	if err != nil {
		user := util.GetUserFromContext(ctx)
		if user != nil {
			logger.Log.Warn("reload requested by admin failed", zap.String("admin", user.Subject), zap.Error(err))
		}
		util.Unprocessable(ctx, err.Error(), c.Service.LastReport())
		return
	}
	util.Success(ctx, result)
}

// @Summary 检查报告
// @Description 最近一次加载的错误和警告
// @Tags 目录管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ReportView}
// @Router /api/admin/catalog/report [get]
func (c *AdminCatalogController) Report(ctx *gin.Context) {
	util.Success(ctx, c.Service.LastReport())
}

// @Summary 发布目录
// @Description 把当前目录写入数据库快照；内容未变化时返回 409
// @Tags 目录管理
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response{data=model.CatalogRevision}
// @Failure 409 {object} util.Response
// @Router /api/admin/catalog/publish [post]
func (c *AdminCatalogController) Publish(ctx *gin.Context) {
	rev, err := c.Service.Publish(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, rev)
}

// @Summary 发布记录
// @Description 按发布时间倒序
// @Tags 目录管理
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数" default(20)
// @Success 200 {object} util.Response{data=[]model.CatalogRevision}
// @Router /api/admin/catalog/revisions [get]
func (c *AdminCatalogController) Revisions(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), 20, 100)
	revs, err := c.Service.Revisions(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, revs)
}

// @Summary 已发布快照
// @Description 数据库中最近一次发布的课程列表，以及与当前目录是否一致
// @Tags 目录管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PublishedView}
// @Failure 503 {object} util.Response
// @Router /api/admin/catalog/published [get]
func (c *AdminCatalogController) Published(ctx *gin.Context) {
	view, err := c.Service.Published(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 已发布课时
// @Description 从数据库快照读取课时
// @Tags 目录管理
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param moduleId path string true "模块ID"
// @Param lessonId path string true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonView}
// @Failure 404 {object} util.Response
// @Router /api/admin/catalog/published/courses/{courseId}/modules/{moduleId}/lessons/{lessonId} [get]
func (c *AdminCatalogController) PublishedLesson(ctx *gin.Context) {
	lesson, err := c.Service.PublishedLesson(ctx.Request.Context(), ctx.Param("courseId"), ctx.Param("moduleId"), ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}
