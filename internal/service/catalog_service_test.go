package service

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/config"
	"coder_edu_catalog/internal/model"
	"coder_edu_catalog/internal/repository"
	"coder_edu_catalog/internal/util"
	"coder_edu_catalog/pkg/database"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLoader struct {
	cat    *catalog.Catalog
	report *catalog.Report
	err    error
	calls  int
}

func (f *fakeLoader) Load(ctx context.Context) (*catalog.Catalog, *catalog.Report, error) {
	f.calls++
	report := f.report
	if report == nil {
		report = &catalog.Report{}
	}
	if f.err != nil {
		return nil, report, f.err
	}
	return f.cat, report, nil
}

type fakeStore struct {
	mu        sync.Mutex
	published []*model.CatalogRevision
	snapshot  *catalog.Catalog
	failLoad  error
}

func (f *fakeStore) Publish(ctx context.Context, cat *catalog.Catalog, warnings int) (*model.CatalogRevision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := cat.Stats()
	rev := &model.CatalogRevision{
		Checksum:    cat.Checksum(),
		Courses:     stats.Courses,
		Modules:     stats.Modules,
		Lessons:     stats.Lessons,
		Warnings:    warnings,
		PublishedAt: time.Now(),
	}
	rev.ID = fmt.Sprintf("rev-%d", len(f.published)+1)
	f.published = append(f.published, rev)
	f.snapshot = cat
	return rev, nil
}

func (f *fakeStore) LatestRevision(ctx context.Context) (*model.CatalogRevision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.published) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return f.published[len(f.published)-1], nil
}

func (f *fakeStore) ListRevisions(ctx context.Context, limit int) ([]model.CatalogRevision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CatalogRevision
	for i := len(f.published) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.published[i])
	}
	return out, nil
}

func (f *fakeStore) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if f.failLoad != nil {
		return nil, f.failLoad
	}
	if f.snapshot == nil {
		return catalog.NewCatalog(nil)
	}
	return f.snapshot, nil
}

func (f *fakeStore) ListCourses(ctx context.Context) ([]model.CourseRecord, error) {
	return nil, nil
}

func (f *fakeStore) FindLesson(ctx context.Context, courseID, moduleID, lessonID string) (*model.LessonRecord, error) {
	return nil, &catalog.NotFoundError{Level: "course", ID: courseID}
}

type memoryCache struct {
	items map[string]*LessonView
	gets  int
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]*LessonView)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*LessonView, error) {
	c.gets++
	v, ok := c.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, v *LessonView) error {
	c.sets++
	c.items[key] = v
	return nil
}

func lesson(t *testing.T, id, title string) catalog.Lesson {
	t.Helper()
	l, err := catalog.NewLesson(catalog.LessonSpec{
		ID:      id,
		Title:   title,
		Content: "# " + title,
		Quiz: []catalog.QuizQuestion{{
			ID:            id + "-q1",
			Question:      "Which keyword declares a function?",
			Options:       []string{"func", "def", "fn", "function"},
			CorrectAnswer: 0,
		}},
	})
	require.NoError(t, err)
	return l
}

func buildCatalog(t *testing.T, title string) *catalog.Catalog {
	t.Helper()
	m1, err := catalog.NewModule("module-1", "Basics", "", []catalog.Lesson{
		lesson(t, "lesson-1-1", title),
		lesson(t, "lesson-1-2", "Variables"),
	})
	require.NoError(t, err)
	empty, err := catalog.NewModule("module-2", "Coming soon", "", nil)
	require.NoError(t, err)
	m3, err := catalog.NewModule("module-3", "Functions", "", []catalog.Lesson{
		lesson(t, "lesson-3-1", "Declaring functions"),
	})
	require.NoError(t, err)
	course, err := catalog.NewCourse("go-basics", "Go Basics", "Intro course", []catalog.Module{m1, empty, m3})
	require.NoError(t, err)
	cat, err := catalog.NewCatalog([]catalog.Course{course})
	require.NoError(t, err)
	return cat
}

func TestCatalogServiceNotLoaded(t *testing.T) {
	svc := NewCatalogService(&fakeLoader{}, nil, nil, nil)

	_, err := svc.ListCourses()
	assert.ErrorIs(t, err, util.ErrCatalogNotLoaded)
	_, err = svc.GetLesson(context.Background(), "go-basics", "module-1", "lesson-1-1")
	assert.ErrorIs(t, err, util.ErrCatalogNotLoaded)
	assert.False(t, svc.Status().Loaded)
}

func TestCatalogServiceReloadKeepsLastGoodCatalog(t *testing.T) {
	loader := &fakeLoader{cat: buildCatalog(t, "Hello")}
	svc := NewCatalogService(loader, nil, nil, nil)

	res, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 3, res.Stats.Lessons)
	checksum := svc.Status().Checksum

	bad := &catalog.Report{}
	bad.AddError("go-basics/module-1/lesson-1-1", catalog.ErrAnswerOutOfRange)
	loader.cat = nil
	loader.report = bad
	loader.err = errors.New("1 content errors")

	_, err = svc.Reload(context.Background())
	require.Error(t, err)

	assert.Equal(t, checksum, svc.Status().Checksum)
	l, err := svc.GetLesson(context.Background(), "go-basics", "module-1", "lesson-1-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", l.Title)

	report := svc.LastReport()
	assert.True(t, report.Serving)
	assert.True(t, report.LastFailed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, catalog.KindMalformedRecord, report.Errors[0].Kind)
}

func TestCatalogServiceReloadUnchanged(t *testing.T) {
	loader := &fakeLoader{cat: buildCatalog(t, "Hello")}
	svc := NewCatalogService(loader, nil, nil, nil)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	loader.cat = buildCatalog(t, "Hello")
	res, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestCatalogServiceLookups(t *testing.T) {
	svc := NewCatalogService(&fakeLoader{cat: buildCatalog(t, "Hello")}, nil, nil, nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	courses, err := svc.ListCourses()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, CourseSummary{ID: "go-basics", Title: "Go Basics", Description: "Intro course", ModuleCount: 3, LessonCount: 3}, courses[0])

	modules, err := svc.ListModules("go-basics")
	require.NoError(t, err)
	assert.Equal(t, []string{"module-1", "module-2", "module-3"}, []string{modules[0].ID, modules[1].ID, modules[2].ID})

	lessons, err := svc.ListLessons("go-basics", "module-1")
	require.NoError(t, err)
	assert.Equal(t, []LessonSummary{
		{ID: "lesson-1-1", Title: "Hello", Position: 1},
		{ID: "lesson-1-2", Title: "Variables", Position: 2},
	}, lessons)

	l, err := svc.GetLesson(context.Background(), "go-basics", "module-1", "lesson-1-2")
	require.NoError(t, err)
	assert.Equal(t, "# Variables", l.Content)
	require.Len(t, l.Quiz, 1)
	assert.Equal(t, 0, l.Quiz[0].CorrectAnswer)
	assert.Empty(t, l.Assignments)
	assert.NotNil(t, l.Assignments)

	var nf *catalog.NotFoundError
	_, err = svc.GetCourse("rust")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "course", nf.Level)

	_, err = svc.GetModule("go-basics", "module-9")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "module", nf.Level)

	_, err = svc.GetLesson(context.Background(), "go-basics", "module-1", "lesson-1-9")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "lesson", nf.Level)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalogServiceNavigation(t *testing.T) {
	svc := NewCatalogService(&fakeLoader{cat: buildCatalog(t, "Hello")}, nil, nil, nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	nav, err := svc.Navigation("go-basics", "module-1", "lesson-1-2")
	require.NoError(t, err)
	require.NotNil(t, nav.Prev)
	assert.Equal(t, "lesson-1-1", nav.Prev.LessonID)
	require.NotNil(t, nav.Next)
	assert.Equal(t, LessonRefView{ModuleID: "module-3", LessonID: "lesson-3-1", Title: "Declaring functions"}, *nav.Next)

	nav, err = svc.Navigation("go-basics", "module-1", "lesson-1-1")
	require.NoError(t, err)
	assert.Nil(t, nav.Prev)

	nav, err = svc.Navigation("go-basics", "module-3", "lesson-3-1")
	require.NoError(t, err)
	assert.Equal(t, "lesson-1-2", nav.Prev.LessonID)
	assert.Nil(t, nav.Next)

	_, err = svc.Navigation("go-basics", "module-2", "lesson-1-1")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalogServiceLessonCache(t *testing.T) {
	loader := &fakeLoader{cat: buildCatalog(t, "Hello")}
	cache := newMemoryCache()
	svc := NewCatalogService(loader, nil, cache, nil)
	ctx := context.Background()
	_, err := svc.Reload(ctx)
	require.NoError(t, err)

	_, err = svc.GetLesson(ctx, "go-basics", "module-1", "lesson-1-1")
	require.NoError(t, err)
	v, err := svc.GetLesson(ctx, "go-basics", "module-1", "lesson-1-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", v.Title)
	assert.Equal(t, 1, cache.sets)
	assert.Len(t, cache.items, 1)

	// 内容变化后校验和不同，旧缓存不再命中
	loader.cat = buildCatalog(t, "Hello, Go")
	_, err = svc.Reload(ctx)
	require.NoError(t, err)
	v, err = svc.GetLesson(ctx, "go-basics", "module-1", "lesson-1-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello, Go", v.Title)
	assert.Len(t, cache.items, 2)

	_, err = svc.GetLesson(ctx, "go-basics", "module-1", "nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Len(t, cache.items, 2)
}

func TestCatalogServicePublish(t *testing.T) {
	store := &fakeStore{}
	svc := NewCatalogService(&fakeLoader{cat: buildCatalog(t, "Hello")}, store, nil, nil)
	ctx := context.Background()

	_, err := svc.Publish(ctx)
	assert.ErrorIs(t, err, util.ErrCatalogNotLoaded)

	_, err = svc.Reload(ctx)
	require.NoError(t, err)

	rev, err := svc.Publish(ctx)
	require.NoError(t, err)
	assert.Equal(t, svc.Status().Checksum, rev.Checksum)
	assert.Equal(t, 3, rev.Lessons)

	_, err = svc.Publish(ctx)
	assert.ErrorIs(t, err, util.ErrNothingToPublish)

	revs, err := svc.Revisions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, revs, 1)
}

func TestCatalogServicePublishDisabled(t *testing.T) {
	svc := NewCatalogService(&fakeLoader{cat: buildCatalog(t, "Hello")}, nil, nil, nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	_, err = svc.Publish(context.Background())
	assert.ErrorIs(t, err, util.ErrPublishingDisabled)
}

func TestCatalogServicePublishOnLoad(t *testing.T) {
	store := &fakeStore{}
	loader := &fakeLoader{cat: buildCatalog(t, "Hello")}
	svc := NewCatalogService(loader, store, nil, nil)
	svc.PublishOnLoad = true
	ctx := context.Background()

	_, err := svc.Reload(ctx)
	require.NoError(t, err)
	_, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.Len(t, store.published, 1)

	loader.cat = buildCatalog(t, "Hello again")
	_, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.Len(t, store.published, 2)
}

func TestCatalogServiceBootstrapFallsBackToSnapshot(t *testing.T) {
	store := &fakeStore{snapshot: buildCatalog(t, "Published")}
	loader := &fakeLoader{err: errors.New("content root missing")}
	svc := NewCatalogService(loader, store, nil, nil)

	require.NoError(t, svc.Bootstrap(context.Background()))
	status := svc.Status()
	assert.True(t, status.Loaded)
	assert.Equal(t, SourceDatabase, status.Source)

	l, err := svc.GetLesson(context.Background(), "go-basics", "module-1", "lesson-1-1")
	require.NoError(t, err)
	assert.Equal(t, "Published", l.Title)
}

func TestCatalogServiceBootstrapFailsWithoutSnapshot(t *testing.T) {
	loader := &fakeLoader{err: errors.New("content root missing")}

	err := NewCatalogService(loader, nil, nil, nil).Bootstrap(context.Background())
	assert.EqualError(t, err, "content root missing")

	err = NewCatalogService(loader, &fakeStore{}, nil, nil).Bootstrap(context.Background())
	assert.EqualError(t, err, "content root missing")
}

func TestCatalogServiceConcurrentReads(t *testing.T) {
	loader := &fakeLoader{cat: buildCatalog(t, "Hello")}
	svc := NewCatalogService(loader, nil, nil, nil)
	ctx := context.Background()
	_, err := svc.Reload(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := svc.GetLesson(ctx, "go-basics", "module-3", "lesson-3-1")
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := svc.Reload(ctx)
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestCatalogServicePublishedSnapshot(t *testing.T) {
	db, err := database.InitDB(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "catalog.db"),
	}, "release")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	loader := &fakeLoader{cat: buildCatalog(t, "Hello")}
	svc := NewCatalogService(loader, repository.NewCatalogRepository(db), nil, nil)
	ctx := context.Background()

	view, err := svc.Published(ctx)
	require.NoError(t, err)
	assert.Nil(t, view.Revision)
	assert.Empty(t, view.Courses)

	_, err = svc.Reload(ctx)
	require.NoError(t, err)
	_, err = svc.Publish(ctx)
	require.NoError(t, err)

	view, err = svc.Published(ctx)
	require.NoError(t, err)
	assert.True(t, view.UpToDate)
	assert.Equal(t, []PublishedCourse{{ID: "go-basics", Title: "Go Basics", Description: "Intro course"}}, view.Courses)

	served, err := svc.GetLesson(ctx, "go-basics", "module-1", "lesson-1-2")
	require.NoError(t, err)
	stored, err := svc.PublishedLesson(ctx, "go-basics", "module-1", "lesson-1-2")
	require.NoError(t, err)
	assert.Equal(t, served, stored)

	_, err = svc.PublishedLesson(ctx, "go-basics", "module-2", "lesson-1-2")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	loader.cat = buildCatalog(t, "Hello again")
	_, err = svc.Reload(ctx)
	require.NoError(t, err)
	view, err = svc.Published(ctx)
	require.NoError(t, err)
	assert.False(t, view.UpToDate)
}

func TestCatalogServiceConcurrentPublishWritesOneRevision(t *testing.T) {
	store := &fakeStore{}
	svc := NewCatalogService(&fakeLoader{cat: buildCatalog(t, "Hello")}, store, nil, nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Publish(context.Background())
		}(i)
	}
	wg.Wait()

	var published int
	for _, err := range errs {
		if err == nil {
			published++
			continue
		}
		assert.ErrorIs(t, err, util.ErrNothingToPublish)
	}
	assert.Equal(t, 1, published)
	revs, err := svc.Revisions(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, revs, 1)
}
