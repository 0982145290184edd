package model

// CourseRecord 已发布目录中的课程
type CourseRecord struct {
	SnapshotBase
	Slug        string         `gorm:"size:128;not null;uniqueIndex"`
	Title       string         `gorm:"size:255;not null"`
	Description string         `gorm:"type:text"`
	Position    int            `gorm:"not null;default:0"`
	Modules     []ModuleRecord `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (CourseRecord) TableName() string {
	return "catalog_courses"
}

// ModuleRecord 课程下的模块，Position 为课程内的顺序
type ModuleRecord struct {
	SnapshotBase
	CourseID    uint           `gorm:"not null;uniqueIndex:idx_module_course_slug"`
	Slug        string         `gorm:"size:128;not null;uniqueIndex:idx_module_course_slug"`
	Title       string         `gorm:"size:255;not null"`
	Description string         `gorm:"type:text"`
	Position    int            `gorm:"not null;default:0"`
	Lessons     []LessonRecord `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (ModuleRecord) TableName() string {
	return "catalog_modules"
}
