package repository

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// CatalogRepository 处理已发布目录快照的数据访问
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Publish 在一个事务内整体替换快照并记录一次发布
func (r *CatalogRepository) Publish(ctx context.Context, cat *catalog.Catalog, warnings int) (*model.CatalogRevision, error) {
	records, err := courseRecords(cat)
	if err != nil {
		return nil, err
	}
	stats := cat.Stats()
	revision := &model.CatalogRevision{
		Checksum:    cat.Checksum(),
		Courses:     stats.Courses,
		Modules:     stats.Modules,
		Lessons:     stats.Lessons,
		Warnings:    warnings,
		PublishedAt: time.Now(),
	}

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{
			&model.QuizQuestionRecord{},
			&model.ResourceRecord{},
			&model.AssignmentRecord{},
			&model.CodeExampleRecord{},
			&model.LessonRecord{},
			&model.ModuleRecord{},
			&model.CourseRecord{},
		} {
			if err := all.Delete(m).Error; err != nil {
				return err
			}
		}

		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		return tx.Create(revision).Error
	})
	if err != nil {
		return nil, err
	}
	return revision, nil
}

// LatestRevision 最近一次发布，没有发布过时返回 gorm.ErrRecordNotFound
func (r *CatalogRepository) LatestRevision(ctx context.Context) (*model.CatalogRevision, error) {
	var rev model.CatalogRevision
	err := r.DB.WithContext(ctx).Order("published_at DESC").First(&rev).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListRevisions 按发布时间倒序
func (r *CatalogRepository) ListRevisions(ctx context.Context, limit int) ([]model.CatalogRevision, error) {
	var revs []model.CatalogRevision
	err := r.DB.WithContext(ctx).Order("published_at DESC").Limit(limit).Find(&revs).Error
	return revs, err
}

// ListCourses 只返回课程本身，不加载模块
func (r *CatalogRepository) ListCourses(ctx context.Context) ([]model.CourseRecord, error) {
	var courses []model.CourseRecord
	err := r.DB.WithContext(ctx).Scopes(byPosition).Find(&courses).Error
	return courses, err
}

// FindLesson 按作者ID三级查找课时并预加载附属记录
func (r *CatalogRepository) FindLesson(ctx context.Context, courseSlug, moduleSlug, lessonSlug string) (*model.LessonRecord, error) {
	db := r.DB.WithContext(ctx)

	var course model.CourseRecord
	if err := db.Where("slug = ?", courseSlug).First(&course).Error; err != nil {
		return nil, notFound(err, "course", courseSlug)
	}

	var module model.ModuleRecord
	if err := db.Where("course_id = ? AND slug = ?", course.ID, moduleSlug).First(&module).Error; err != nil {
		return nil, notFound(err, "module", moduleSlug)
	}

	var lesson model.LessonRecord
	err := db.
		Preload("CodeExamples", byPosition).
		Preload("Assignments", byPosition).
		Preload("Resources", byPosition).
		Preload("Quiz", byPosition).
		Where("module_id = ? AND slug = ?", module.ID, lessonSlug).
		First(&lesson).Error
	if err != nil {
		return nil, notFound(err, "lesson", lessonSlug)
	}
	return &lesson, nil
}

// LoadCatalog 从快照重建完整目录
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var records []model.CourseRecord
	err := r.DB.WithContext(ctx).
		Scopes(byPosition).
		Preload("Modules", byPosition).
		Preload("Modules.Lessons", byPosition).
		Preload("Modules.Lessons.CodeExamples", byPosition).
		Preload("Modules.Lessons.Assignments", byPosition).
		Preload("Modules.Lessons.Resources", byPosition).
		Preload("Modules.Lessons.Quiz", byPosition).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toCatalog(records)
}

func notFound(err error, level, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &catalog.NotFoundError{Level: level, ID: id}
	}
	return err
}
