package model

import "gorm.io/datatypes"

// CodeExampleRecord 课时代码示例
type CodeExampleRecord struct {
	SnapshotBase
	LessonID    uint   `gorm:"index;not null"`
	Slug        string `gorm:"size:128;not null"`
	Title       string `gorm:"size:255;not null"`
	Language    string `gorm:"size:64"`
	Code        string
	Explanation string `gorm:"type:text"`
	Position    int    `gorm:"not null;default:0"`
}

func (CodeExampleRecord) TableName() string {
	return "catalog_code_examples"
}

// AssignmentRecord 练习任务，Hints 按顺序存为 JSON 数组
type AssignmentRecord struct {
	SnapshotBase
	LessonID    uint   `gorm:"index;not null"`
	Slug        string `gorm:"size:128;not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Difficulty  string `gorm:"size:50"` // easy, medium, hard, expert
	Type        string `gorm:"size:50"` // code, project, quiz, essay
	Hints       datatypes.JSON
	InitialCode string
	Solution    string
	Position    int `gorm:"not null;default:0"`
}

func (AssignmentRecord) TableName() string {
	return "catalog_assignments"
}

// ResourceRecord 外部学习资料
type ResourceRecord struct {
	SnapshotBase
	LessonID uint   `gorm:"index;not null"`
	Title    string `gorm:"size:255;not null"`
	URL      string `gorm:"size:1024;not null"`
	Type     string `gorm:"size:50"`
	Position int    `gorm:"not null;default:0"`
}

func (ResourceRecord) TableName() string {
	return "catalog_resources"
}

// QuizQuestionRecord 测验题，Options 存为 JSON 数组
type QuizQuestionRecord struct {
	SnapshotBase
	LessonID      uint   `gorm:"index;not null"`
	Slug          string `gorm:"size:128;not null"`
	Question      string `gorm:"type:text;not null"`
	Options       datatypes.JSON
	CorrectAnswer int    `gorm:"not null"`
	Explanation   string `gorm:"type:text"`
	Position      int    `gorm:"not null;default:0"`
}

func (QuizQuestionRecord) TableName() string {
	return "catalog_quiz_questions"
}
