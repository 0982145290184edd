package service

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/model"
	"time"
)

type CourseSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ModuleCount int    `json:"moduleCount"`
	LessonCount int    `json:"lessonCount"`
}

type CourseDetail struct {
	CourseSummary
	Modules []ModuleSummary `json:"modules"`
}

type ModuleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LessonCount int    `json:"lessonCount"`
}

type ModuleDetail struct {
	ModuleSummary
	CourseID string          `json:"courseId"`
	Lessons  []LessonSummary `json:"lessons"`
}

type LessonSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Position int    `json:"position"`
}

type SectionView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CodeExampleView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Explanation string `json:"explanation,omitempty"`
}

type AssignmentView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Type        string   `json:"type"`
	Hints       []string `json:"hints,omitempty"`
	InitialCode string   `json:"initialCode,omitempty"`
	Solution    string   `json:"solution,omitempty"`
}

type ResourceView struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type QuizQuestionView struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// LessonView 课时详情
type LessonView struct {
	CourseID     string             `json:"courseId"`
	ModuleID     string             `json:"moduleId"`
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Duration     string             `json:"duration"`
	Content      string             `json:"content"`
	Sections     []SectionView      `json:"sections,omitempty"`
	CodeExamples []CodeExampleView  `json:"codeExamples"`
	Assignments  []AssignmentView   `json:"assignments"`
	Resources    []ResourceView     `json:"resources"`
	Quiz         []QuizQuestionView `json:"quiz"`
}

type LessonRefView struct {
	ModuleID string `json:"moduleId"`
	LessonID string `json:"lessonId"`
	Title    string `json:"title"`
}

// NavigationView 课程内的上一课和下一课，可跨模块
type NavigationView struct {
	CourseID string         `json:"courseId"`
	Current  LessonRefView  `json:"current"`
	Prev     *LessonRefView `json:"prev"`
	Next     *LessonRefView `json:"next"`
}

type ReportView struct {
	Checksum   string              `json:"checksum,omitempty"`
	LoadedAt   *time.Time          `json:"loadedAt,omitempty"`
	Source     string              `json:"source,omitempty"`
	Stats      catalog.Stats       `json:"stats"`
	Errors     []catalog.Violation `json:"errors"`
	Warnings   []catalog.Violation `json:"warnings"`
	Serving    bool                `json:"serving"`
	LastFailed bool                `json:"lastFailed"`
}

type CatalogStatus struct {
	Loaded   bool          `json:"loaded"`
	Checksum string        `json:"checksum,omitempty"`
	Source   string        `json:"source,omitempty"`
	LoadedAt *time.Time    `json:"loadedAt,omitempty"`
	Stats    catalog.Stats `json:"stats"`
}

type PublishedCourse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PublishedView struct {
	Revision *model.CatalogRevision `json:"revision"`
	Courses  []PublishedCourse      `json:"courses"`
	// UpToDate 当前服务中的目录与快照一致
	UpToDate bool `json:"upToDate"`
}

type ReloadResult struct {
	Checksum string        `json:"checksum"`
	Changed  bool          `json:"changed"`
	Stats    catalog.Stats `json:"stats"`
	Warnings int           `json:"warnings"`
}

func courseSummary(c catalog.Course) CourseSummary {
	return CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ModuleCount: len(c.Modules()),
		LessonCount: c.LessonCount(),
	}
}

func moduleSummary(m catalog.Module) ModuleSummary {
	return ModuleSummary{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		LessonCount: m.Len(),
	}
}

func moduleSummaries(c catalog.Course) []ModuleSummary {
	modules := c.Modules()
	out := make([]ModuleSummary, len(modules))
	for i, m := range modules {
		out[i] = moduleSummary(m)
	}
	return out
}

func lessonSummaries(m catalog.Module) []LessonSummary {
	lessons := m.Lessons()
	out := make([]LessonSummary, len(lessons))
	for i, l := range lessons {
		out[i] = LessonSummary{ID: l.ID, Title: l.Title, Duration: l.Duration, Position: i + 1}
	}
	return out
}

func newLessonView(courseID, moduleID string, l catalog.Lesson) *LessonView {
	v := &LessonView{
		CourseID:     courseID,
		ModuleID:     moduleID,
		ID:           l.ID,
		Title:        l.Title,
		Duration:     l.Duration,
		Content:      l.Content,
		CodeExamples: []CodeExampleView{},
		Assignments:  []AssignmentView{},
		Resources:    []ResourceView{},
		Quiz:         []QuizQuestionView{},
	}
	for _, s := range l.Sections() {
		v.Sections = append(v.Sections, SectionView{ID: s.ID, Title: s.Title, Content: s.Content})
	}
	for _, ex := range l.CodeExamples() {
		v.CodeExamples = append(v.CodeExamples, CodeExampleView{
			ID:          ex.ID,
			Title:       ex.Title,
			Language:    ex.Language,
			Code:        ex.Code,
			Explanation: ex.Explanation,
		})
	}
	for _, a := range l.Assignments() {
		v.Assignments = append(v.Assignments, AssignmentView{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Difficulty:  string(a.Difficulty),
			Type:        string(a.Type),
			Hints:       a.Hints,
			InitialCode: a.InitialCode,
			Solution:    a.Solution,
		})
	}
	for _, r := range l.Resources() {
		v.Resources = append(v.Resources, ResourceView{Title: r.Title, URL: r.URL, Type: string(r.Type)})
	}
	for _, q := range l.Quiz() {
		v.Quiz = append(v.Quiz, QuizQuestionView{
			ID:            q.ID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return v
}

func lessonRef(r *catalog.LessonRef) *LessonRefView {
	if r == nil {
		return nil
	}
	return &LessonRefView{ModuleID: r.ModuleID, LessonID: r.Lesson.ID, Title: r.Lesson.Title}
}
