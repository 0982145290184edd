package controller

import (
	"coder_edu_catalog/internal/service"
	"coder_edu_catalog/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController 课程目录的只读接口
type CatalogController struct {
	Service *service.CatalogService
}

func NewCatalogController(service *service.CatalogService) *CatalogController {
	return &CatalogController{Service: service}
}

// @Summary 课程列表
// @Description 按目录声明顺序返回所有课程
// @Tags 课程目录
// @Produce json
// @Success 200 {object} util.Response{data=[]service.CourseSummary}
// @Failure 503 {object} util.Response
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	courses, err := c.Service.ListCourses()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 课程详情
// @Description 返回课程及其按顺序排列的模块
// @Tags 课程目录
// @Produce json
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	course, err := c.Service.GetCourse(ctx.Param("courseId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 模块详情
// @Description 返回模块及其按顺序排列的课时摘要
// @Tags 课程目录
// @Produce json
// @Param courseId path string true "课程ID"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=service.ModuleDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/modules/{moduleId} [get]
func (c *CatalogController) GetModule(ctx *gin.Context) {
	module, err := c.Service.GetModule(ctx.Param("courseId"), ctx.Param("moduleId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary 课时详情
// @Description 返回课时正文、分节、代码示例、练习、资源和测验
// @Tags 课程目录
// @Produce json
// @Param courseId path string true "课程ID"
// @Param moduleId path string true "模块ID"
// @Param lessonId path string true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonView}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/modules/{moduleId}/lessons/{lessonId} [get]
func (c *CatalogController) GetLesson(ctx *gin.Context) {
	lesson, err := c.Service.GetLesson(ctx.Request.Context(), ctx.Param("courseId"), ctx.Param("moduleId"), ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 课时导航
// @Description 课程内的上一课和下一课，模块边界处跨到相邻的非空模块
// @Tags 课程目录
// @Produce json
// @Param courseId path string true "课程ID"
// @Param moduleId path string true "模块ID"
// @Param lessonId path string true "课时ID"
// @Success 200 {object} util.Response{data=service.NavigationView}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/modules/{moduleId}/lessons/{lessonId}/navigation [get]
func (c *CatalogController) Navigation(ctx *gin.Context) {
	nav, err := c.Service.Navigation(ctx.Param("courseId"), ctx.Param("moduleId"), ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nav)
}
