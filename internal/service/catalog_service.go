package service

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/model"
	"coder_edu_catalog/internal/repository"
	"coder_edu_catalog/internal/util"
	"coder_edu_catalog/pkg/monitoring"
	"coder_edu_catalog/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SourceContent  = "content"
	SourceDatabase = "database"
)

// CatalogLoader 从内容文档构建目录
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Catalog, *catalog.Report, error)
}

// CatalogStore 已发布快照的持久化
type CatalogStore interface {
	Publish(ctx context.Context, cat *catalog.Catalog, warnings int) (*model.CatalogRevision, error)
	LatestRevision(ctx context.Context) (*model.CatalogRevision, error)
	ListRevisions(ctx context.Context, limit int) ([]model.CatalogRevision, error)
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
	ListCourses(ctx context.Context) ([]model.CourseRecord, error)
	FindLesson(ctx context.Context, courseID, moduleID, lessonID string) (*model.LessonRecord, error)
}

type snapshot struct {
	cat      *catalog.Catalog
	report   *catalog.Report
	checksum string
	source   string
	loadedAt time.Time
}

type CatalogService struct {
	Loader        CatalogLoader
	Store         CatalogStore
	Cache         LessonCache
	PublishOnLoad bool
	Log           *zap.Logger

	current    atomic.Pointer[snapshot]
	lastReport atomic.Pointer[catalog.Report]
	lastFailed atomic.Bool
	reloadMu   sync.Mutex
	// 发布前的校验和比较与写入必须在同一临界区内
	publishMu sync.Mutex
}

// NewCatalogService store 和 cache 可以为 nil
func NewCatalogService(loader CatalogLoader, store CatalogStore, cache LessonCache, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		Loader: loader,
		Store:  store,
		Cache:  cache,
		Log:    log,
	}
}

// Bootstrap 启动时加载目录；内容加载失败时退回到数据库中最近发布的快照
func (s *CatalogService) Bootstrap(ctx context.Context) error {
	_, loadErr := s.Reload(ctx)
	if loadErr == nil {
		return nil
	}
	if s.Store == nil {
		return loadErr
	}

	s.Log.Warn("content load failed, falling back to published snapshot", zap.Error(loadErr))
	cat, err := s.Store.LoadCatalog(ctx)
	if err != nil {
		return errors.Join(loadErr, fmt.Errorf("load published snapshot: %w", err))
	}
	if len(cat.Courses()) == 0 {
		return loadErr
	}
	s.swap(cat, &catalog.Report{}, SourceDatabase)
	return nil
}

// Reload 重新加载内容。加载失败时保留当前目录继续服务。
func (s *CatalogService) Reload(ctx context.Context) (_ *ReloadResult, err error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := tracing.Start(ctx, "catalog.reload")
	defer func() { tracing.End(span, err) }()

	start := time.Now()
	cat, report, err := s.Loader.Load(ctx)
	if report != nil {
		s.lastReport.Store(report)
		monitoring.RecordReport(report)
	}
	if err != nil {
		s.lastFailed.Store(true)
		monitoring.RecordReload(false)
		s.Log.Error("catalog reload failed", zap.Error(err))
		return nil, err
	}
	s.lastFailed.Store(false)
	monitoring.RecordReload(true)

	prev := s.current.Load()
	next := s.swap(cat, report, SourceContent)

	result := &ReloadResult{
		Checksum: next.checksum,
		Changed:  prev == nil || prev.checksum != next.checksum,
		Stats:    cat.Stats(),
		Warnings: len(next.report.Warnings()),
	}
	s.Log.Info("catalog reloaded",
		zap.String("checksum", result.Checksum),
		zap.Bool("changed", result.Changed),
		zap.Int("lessons", result.Stats.Lessons),
		zap.Int("warnings", result.Warnings),
		zap.Duration("took", time.Since(start)),
	)

	if s.PublishOnLoad && s.Store != nil && result.Changed {
		if _, err := s.publish(ctx, next); err != nil && !errors.Is(err, util.ErrNothingToPublish) {
			s.Log.Error("publish after reload failed", zap.Error(err))
		}
	}
	return result, nil
}

func (s *CatalogService) swap(cat *catalog.Catalog, report *catalog.Report, source string) *snapshot {
	if report == nil {
		report = &catalog.Report{}
	}
	snap := &snapshot{
		cat:      cat,
		report:   report,
		checksum: cat.Checksum(),
		source:   source,
		loadedAt: time.Now(),
	}
	s.current.Store(snap)
	monitoring.RecordCatalog(cat.Stats())
	return snap
}

func (s *CatalogService) serving() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, util.ErrCatalogNotLoaded
	}
	return snap, nil
}

// Catalog 当前服务中的目录
func (s *CatalogService) Catalog() (*catalog.Catalog, error) {
	snap, err := s.serving()
	if err != nil {
		return nil, err
	}
	return snap.cat, nil
}

func (s *CatalogService) Status() CatalogStatus {
	snap := s.current.Load()
	if snap == nil {
		return CatalogStatus{}
	}
	loadedAt := snap.loadedAt
	return CatalogStatus{
		Loaded:   true,
		Checksum: snap.checksum,
		Source:   snap.source,
		LoadedAt: &loadedAt,
		Stats:    snap.cat.Stats(),
	}
}

func (s *CatalogService) ListCourses() ([]CourseSummary, error) {
	snap, err := s.serving()
	if err != nil {
		return nil, err
	}
	courses := snap.cat.Courses()
	out := make([]CourseSummary, len(courses))
	for i, c := range courses {
		out[i] = courseSummary(c)
	}
	return out, nil
}

func (s *CatalogService) GetCourse(courseID string) (*CourseDetail, error) {
	snap, err := s.serving()
	if err != nil {
		return nil, err
	}
	c, ok := snap.cat.Course(courseID)
	if !ok {
		return nil, &catalog.NotFoundError{Level: "course", ID: courseID}
	}
	return &CourseDetail{CourseSummary: courseSummary(c), Modules: moduleSummaries(c)}, nil
}

func (s *CatalogService) ListModules(courseID string) ([]ModuleSummary, error) {
	detail, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	return detail.Modules, nil
}

func (s *CatalogService) GetModule(courseID, moduleID string) (*ModuleDetail, error) {
	snap, err := s.serving()
	if err != nil {
		return nil, err
	}
	m, err := snap.cat.FindModule(courseID, moduleID)
	if err != nil {
		return nil, err
	}
	return &ModuleDetail{
		ModuleSummary: moduleSummary(m),
		CourseID:      courseID,
		Lessons:       lessonSummaries(m),
	}, nil
}

func (s *CatalogService) ListLessons(courseID, moduleID string) ([]LessonSummary, error) {
	detail, err := s.GetModule(courseID, moduleID)
	if err != nil {
		return nil, err
	}
	return detail.Lessons, nil
}

// GetLesson 三级查找课时；缓存异常只记日志，不影响返回
func (s *CatalogService) GetLesson(ctx context.Context, courseID, moduleID, lessonID string) (*LessonView, error) {
	snap, err := s.serving()
	if err != nil {
		return nil, err
	}

	var key string
	if s.Cache != nil {
		key = lessonCacheKey(snap.checksum, courseID, moduleID, lessonID)
		v, err := s.Cache.Get(ctx, key)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.Log.Warn("lesson cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	l, err := snap.cat.Lookup(courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}
	v := newLessonView(courseID, moduleID, l)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, v); err != nil {
			s.Log.Warn("lesson cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (s *CatalogService) Navigation(courseID, moduleID, lessonID string) (*NavigationView, error) {
	snap, err := s.serving()
	if err != nil {
		return nil, err
	}
	l, err := snap.cat.Lookup(courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}
	c, _ := snap.cat.Course(courseID)
	prev, next, _ := c.Neighbors(moduleID, lessonID)
	return &NavigationView{
		CourseID: courseID,
		Current:  LessonRefView{ModuleID: moduleID, LessonID: l.ID, Title: l.Title},
		Prev:     lessonRef(prev),
		Next:     lessonRef(next),
	}, nil
}

// LastReport 最近一次加载的检查结果，加载失败时也会返回
func (s *CatalogService) LastReport() ReportView {
	view := ReportView{
		Errors:     []catalog.Violation{},
		Warnings:   []catalog.Violation{},
		LastFailed: s.lastFailed.Load(),
	}
	if snap := s.current.Load(); snap != nil {
		loadedAt := snap.loadedAt
		view.Serving = true
		view.Checksum = snap.checksum
		view.Source = snap.source
		view.LoadedAt = &loadedAt
		view.Stats = snap.cat.Stats()
	}
	if report := s.lastReport.Load(); report != nil {
		if errs := report.Errors(); len(errs) > 0 {
			view.Errors = errs
		}
		if warns := report.Warnings(); len(warns) > 0 {
			view.Warnings = warns
		}
	}
	return view
}

// Publish 把当前目录写入数据库；与最近一次发布相同时返回 ErrNothingToPublish
func (s *CatalogService) Publish(ctx context.Context) (_ *model.CatalogRevision, err error) {
	ctx, span := tracing.Start(ctx, "catalog.publish")
	defer func() { tracing.End(span, err) }()

	snap, err := s.serving()
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, snap)
}

func (s *CatalogService) publish(ctx context.Context, snap *snapshot) (*model.CatalogRevision, error) {
	if s.Store == nil {
		return nil, util.ErrPublishingDisabled
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	latest, err := s.Store.LatestRevision(ctx)
	switch {
	case err == nil && latest.Checksum == snap.checksum:
		return nil, util.ErrNothingToPublish
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	rev, err := s.Store.Publish(ctx, snap.cat, len(snap.report.Warnings()))
	if err != nil {
		return nil, err
	}
	s.Log.Info("catalog published",
		zap.String("revision", rev.ID),
		zap.String("checksum", rev.Checksum),
		zap.Int("lessons", rev.Lessons),
	)
	return rev, nil
}

func (s *CatalogService) Revisions(ctx context.Context, limit int) ([]model.CatalogRevision, error) {
	if s.Store == nil {
		return nil, util.ErrPublishingDisabled
	}
	return s.Store.ListRevisions(ctx, limit)
}

// Published 数据库中最近发布的快照概要
func (s *CatalogService) Published(ctx context.Context) (*PublishedView, error) {
	if s.Store == nil {
		return nil, util.ErrPublishingDisabled
	}
	rev, err := s.Store.LatestRevision(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &PublishedView{Courses: []PublishedCourse{}}, nil
	}
	if err != nil {
		return nil, err
	}
	records, err := s.Store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	view := &PublishedView{
		Revision: rev,
		Courses:  make([]PublishedCourse, len(records)),
	}
	for i, r := range records {
		view.Courses[i] = PublishedCourse{ID: r.Slug, Title: r.Title, Description: r.Description}
	}
	if snap := s.current.Load(); snap != nil {
		view.UpToDate = snap.checksum == rev.Checksum
	}
	return view, nil
}

// PublishedLesson 从数据库快照读取课时，用于核对发布内容
func (s *CatalogService) PublishedLesson(ctx context.Context, courseID, moduleID, lessonID string) (*LessonView, error) {
	if s.Store == nil {
		return nil, util.ErrPublishingDisabled
	}
	rec, err := s.Store.FindLesson(ctx, courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}
	l, err := repository.ToLesson(rec)
	if err != nil {
		return nil, fmt.Errorf("published lesson %s/%s/%s: %w", courseID, moduleID, lessonID, err)
	}
	return newLessonView(courseID, moduleID, l), nil
}
