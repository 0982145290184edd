package content

import "coder_edu_catalog/internal/catalog"

// 内容文档的文件名约定
const (
	CatalogFile = "catalog.yaml"
	CourseFile  = "course.yaml"
	ModuleFile  = "module.yaml"
	docExt      = ".yaml"
)

// CatalogDoc 可选的根文档，声明课程顺序；缺省时按目录名排序
type CatalogDoc struct {
	Courses []string `yaml:"courses"`
}

type CourseDoc struct {
	ID          string   `yaml:"id" validate:"required"`
	Title       string   `yaml:"title" validate:"required"`
	Description string   `yaml:"description"`
	Modules     []string `yaml:"modules" validate:"dive,required"`
}

// ModuleDoc 模块聚合文档。lessons 为唯一权威的有序列表，exports 为旧式单独导出清单。
type ModuleDoc struct {
	ID          string   `yaml:"id" validate:"required"`
	Title       string   `yaml:"title" validate:"required"`
	Description string   `yaml:"description"`
	Lessons     []string `yaml:"lessons" validate:"dive,required"`
	Exports     []string `yaml:"exports"`
}

type LessonDoc struct {
	ID           string           `yaml:"id" validate:"required"`
	Title        string           `yaml:"title" validate:"required"`
	Duration     string           `yaml:"duration"`
	Content      string           `yaml:"content" validate:"required_without=Sections,excluded_with=Sections"`
	Sections     []SectionDoc     `yaml:"sections" validate:"dive"`
	CodeExamples []CodeExampleDoc `yaml:"codeExamples" validate:"dive"`
	Assignments  []AssignmentDoc  `yaml:"assignments" validate:"dive"`
	Resources    []ResourceDoc    `yaml:"resources" validate:"dive"`
	Quiz         []QuizDoc        `yaml:"quiz" validate:"dive"`
}

type SectionDoc struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content" validate:"required"`
}

type CodeExampleDoc struct {
	ID          string `yaml:"id" validate:"required"`
	Title       string `yaml:"title" validate:"required"`
	Language    string `yaml:"language"`
	Code        string `yaml:"code"`
	Explanation string `yaml:"explanation"`
}

type AssignmentDoc struct {
	ID          string   `yaml:"id" validate:"required"`
	Title       string   `yaml:"title" validate:"required"`
	Description string   `yaml:"description"`
	Difficulty  string   `yaml:"difficulty"`
	Type        string   `yaml:"type"`
	Hints       []string `yaml:"hints"`
	InitialCode string   `yaml:"initialCode"`
	Solution    string   `yaml:"solution"`
}

type ResourceDoc struct {
	Title string `yaml:"title" validate:"required"`
	URL   string `yaml:"url" validate:"required,url"`
	Type  string `yaml:"type"`
}

type QuizDoc struct {
	ID            string   `yaml:"id" validate:"required"`
	Question      string   `yaml:"question" validate:"required"`
	Options       []string `yaml:"options"`
	CorrectAnswer int      `yaml:"correctAnswer"`
	Explanation   string   `yaml:"explanation"`
}

// Build 把文档转换为校验过的课时
func (d LessonDoc) Build() (catalog.Lesson, error) {
	spec := catalog.LessonSpec{
		ID:       d.ID,
		Title:    d.Title,
		Duration: d.Duration,
		Content:  d.Content,
	}
	for _, ex := range d.CodeExamples {
		spec.CodeExamples = append(spec.CodeExamples, catalog.CodeExample{
			ID:          ex.ID,
			Title:       ex.Title,
			Language:    ex.Language,
			Code:        ex.Code,
			Explanation: ex.Explanation,
		})
	}
	for _, a := range d.Assignments {
		spec.Assignments = append(spec.Assignments, catalog.Assignment{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Difficulty:  catalog.Difficulty(a.Difficulty),
			Type:        catalog.AssignmentType(a.Type),
			Hints:       a.Hints,
			InitialCode: a.InitialCode,
			Solution:    a.Solution,
		})
	}
	for _, r := range d.Resources {
		spec.Resources = append(spec.Resources, catalog.Resource{
			Title: r.Title,
			URL:   r.URL,
			Type:  catalog.ResourceType(r.Type),
		})
	}
	for _, q := range d.Quiz {
		spec.Quiz = append(spec.Quiz, catalog.QuizQuestion{
			ID:            q.ID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	if len(d.Sections) == 0 {
		return catalog.NewLesson(spec)
	}

	sections := make([]catalog.Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		sec, err := catalog.NewSection(s.ID, s.Title, s.Content)
		if err != nil {
			return catalog.Lesson{}, err
		}
		sections = append(sections, sec)
	}
	return catalog.NewComposedLesson(spec, sections)
}
