package model

import "gorm.io/datatypes"

// LessonRecord 课时。Sections 为分节课时的原始分节（JSON），普通课时为空。
type LessonRecord struct {
	SnapshotBase
	ModuleID     uint   `gorm:"not null;uniqueIndex:idx_lesson_module_slug"`
	Slug         string `gorm:"size:128;not null;uniqueIndex:idx_lesson_module_slug"`
	Title        string `gorm:"size:255;not null"`
	Duration     string `gorm:"size:64"`
	Content      string `gorm:"not null"`
	Sections     datatypes.JSON
	Position     int                  `gorm:"not null;default:0"`
	CodeExamples []CodeExampleRecord  `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	Assignments  []AssignmentRecord   `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	Resources    []ResourceRecord     `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	Quiz         []QuizQuestionRecord `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}

func (LessonRecord) TableName() string {
	return "catalog_lessons"
}

// SectionJSON 分节在 Sections 列中的存储格式
type SectionJSON struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
