package controller

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	cat *catalog.Catalog
	err error
}

func (s *stubLoader) Load(ctx context.Context) (*catalog.Catalog, *catalog.Report, error) {
	report := &catalog.Report{}
	if s.err != nil {
		report.AddError("go-basics/module-1", s.err)
		return nil, report, s.err
	}
	return s.cat, report, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var lessons []catalog.Lesson
	for _, id := range []string{"lesson-3-1", "lesson-3-2"} {
		l, err := catalog.NewLesson(catalog.LessonSpec{ID: id, Title: "Title " + id, Content: "Body " + id})
		require.NoError(t, err)
		lessons = append(lessons, l)
	}
	m, err := catalog.NewModule("module-3", "Control flow", "", lessons)
	require.NoError(t, err)
	c, err := catalog.NewCourse("go-basics", "Go Basics", "", []catalog.Module{m})
	require.NoError(t, err)
	cat, err := catalog.NewCatalog([]catalog.Course{c})
	require.NoError(t, err)
	return cat
}

func setupRouter(t *testing.T, loader service.CatalogLoader) (*gin.Engine, *service.CatalogService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewCatalogService(loader, nil, nil, nil)
	ctrl := NewCatalogController(svc)
	admin := NewAdminCatalogController(svc)
	health := NewHealthController(nil, svc)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", health.HealthCheck)
	api.GET("/courses", ctrl.ListCourses)
	api.GET("/courses/:courseId", ctrl.GetCourse)
	api.GET("/courses/:courseId/modules/:moduleId", ctrl.GetModule)
	api.GET("/courses/:courseId/modules/:moduleId/lessons/:lessonId", ctrl.GetLesson)
	api.GET("/courses/:courseId/modules/:moduleId/lessons/:lessonId/navigation", ctrl.Navigation)
	api.POST("/admin/catalog/reload", admin.Reload)
	api.GET("/admin/catalog/report", admin.Report)
	api.POST("/admin/catalog/publish", admin.Publish)
	api.GET("/admin/catalog/published", admin.Published)
	return r, svc
}

func perform(t *testing.T, r *gin.Engine, method, path string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestCatalogControllerLesson(t *testing.T) {
	r, svc := setupRouter(t, &stubLoader{cat: testCatalog(t)})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	code, env := perform(t, r, http.MethodGet, "/api/courses/go-basics/modules/module-3/lessons/lesson-3-2")
	require.Equal(t, http.StatusOK, code)
	var lesson service.LessonView
	require.NoError(t, json.Unmarshal(env.Data, &lesson))
	assert.Equal(t, "lesson-3-2", lesson.ID)
	assert.Equal(t, "Body lesson-3-2", lesson.Content)
}

func TestCatalogControllerLookupMissIs404(t *testing.T) {
	r, svc := setupRouter(t, &stubLoader{cat: testCatalog(t)})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	for path, msg := range map[string]string{
		"/api/courses/rust":                                            `course "rust" not found`,
		"/api/courses/go-basics/modules/module-9":                      `module "module-9" not found`,
		"/api/courses/go-basics/modules/module-3/lessons/lesson-3-9":   `lesson "lesson-3-9" not found`,
		"/api/courses/go-basics/modules/module-3/lessons/x/navigation": `lesson "x" not found`,
	} {
		code, env := perform(t, r, http.MethodGet, path)
		assert.Equal(t, http.StatusNotFound, code, path)
		assert.Equal(t, http.StatusNotFound, env.Code, path)
		assert.Equal(t, msg, env.Message, path)
	}
}

func TestCatalogControllerListAndNavigation(t *testing.T) {
	r, svc := setupRouter(t, &stubLoader{cat: testCatalog(t)})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	code, env := perform(t, r, http.MethodGet, "/api/courses")
	require.Equal(t, http.StatusOK, code)
	var courses []service.CourseSummary
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, 2, courses[0].LessonCount)

	code, env = perform(t, r, http.MethodGet, "/api/courses/go-basics/modules/module-3")
	require.Equal(t, http.StatusOK, code)
	var module service.ModuleDetail
	require.NoError(t, json.Unmarshal(env.Data, &module))
	assert.Equal(t, "go-basics", module.CourseID)
	assert.Len(t, module.Lessons, 2)

	code, env = perform(t, r, http.MethodGet, "/api/courses/go-basics/modules/module-3/lessons/lesson-3-1/navigation")
	require.Equal(t, http.StatusOK, code)
	var nav service.NavigationView
	require.NoError(t, json.Unmarshal(env.Data, &nav))
	assert.Nil(t, nav.Prev)
	require.NotNil(t, nav.Next)
	assert.Equal(t, "lesson-3-2", nav.Next.LessonID)
}

func TestCatalogControllerNotLoaded(t *testing.T) {
	r, _ := setupRouter(t, &stubLoader{err: errors.New("broken")})

	code, _ := perform(t, r, http.MethodGet, "/api/courses")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = perform(t, r, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestAdminCatalogControllerReload(t *testing.T) {
	loader := &stubLoader{cat: testCatalog(t)}
	r, _ := setupRouter(t, loader)

	code, env := perform(t, r, http.MethodPost, "/api/admin/catalog/reload")
	require.Equal(t, http.StatusOK, code)
	var res service.ReloadResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Changed)
	assert.Equal(t, 2, res.Stats.Lessons)

	loader.err = catalog.ErrAnswerOutOfRange
	code, env = perform(t, r, http.MethodPost, "/api/admin/catalog/reload")
	require.Equal(t, http.StatusUnprocessableEntity, code)
	var report service.ReportView
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.True(t, report.Serving)
	assert.True(t, report.LastFailed)
	require.Len(t, report.Errors, 1)

	// 加载失败后仍然使用之前的目录
	code, _ = perform(t, r, http.MethodGet, "/api/courses/go-basics/modules/module-3/lessons/lesson-3-1")
	assert.Equal(t, http.StatusOK, code)

	code, _ = perform(t, r, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminCatalogControllerPublishWithoutDatabase(t *testing.T) {
	r, svc := setupRouter(t, &stubLoader{cat: testCatalog(t)})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	code, env := perform(t, r, http.MethodPost, "/api/admin/catalog/publish")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "publishing requires a database", env.Message)

	code, _ = perform(t, r, http.MethodGet, "/api/admin/catalog/published")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
