package catalog

// Difficulty 练习难度，开放字符串，推荐取值见常量
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

func (d Difficulty) IsKnown() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// AssignmentType 练习类型
type AssignmentType string

const (
	AssignmentCode    AssignmentType = "code"
	AssignmentProject AssignmentType = "project"
	AssignmentQuiz    AssignmentType = "quiz"
	AssignmentEssay   AssignmentType = "essay"
)

func (t AssignmentType) IsKnown() bool {
	switch t {
	case AssignmentCode, AssignmentProject, AssignmentQuiz, AssignmentEssay:
		return true
	}
	return false
}

// ResourceType 外部资料类型
type ResourceType string

const (
	ResourceDocumentation ResourceType = "documentation"
	ResourceArticle       ResourceType = "article"
	ResourceVideo         ResourceType = "video"
	ResourceBook          ResourceType = "book"
	ResourceTool          ResourceType = "tool"
	ResourceCourse        ResourceType = "course"
	ResourcePDF           ResourceType = "pdf"
	ResourceWorksheet     ResourceType = "worksheet"
)

func (t ResourceType) IsKnown() bool {
	switch t {
	case ResourceDocumentation, ResourceArticle, ResourceVideo, ResourceBook,
		ResourceTool, ResourceCourse, ResourcePDF, ResourceWorksheet:
		return true
	}
	return false
}

// Resource 课时附带的外部学习资料链接
type Resource struct {
	Title string
	URL   string
	Type  ResourceType
}

func NewResource(title, url string, typ ResourceType) (Resource, error) {
	if title == "" {
		return Resource{}, fieldErr("resource", "", "title", ErrEmptyTitle)
	}
	if url == "" {
		return Resource{}, fieldErr("resource", title, "url", ErrEmptyURL)
	}
	return Resource{Title: title, URL: url, Type: typ}, nil
}

// CodeExample 与课时一同展示的代码示例，Language 仅用于语法高亮
type CodeExample struct {
	ID          string
	Title       string
	Language    string
	Code        string
	Explanation string
}

func NewCodeExample(ex CodeExample) (CodeExample, error) {
	if ex.ID == "" {
		return CodeExample{}, fieldErr("codeExample", "", "id", ErrEmptyID)
	}
	if ex.Title == "" {
		return CodeExample{}, fieldErr("codeExample", ex.ID, "title", ErrEmptyTitle)
	}
	return ex, nil
}

// Assignment 练习任务，Hints 按透露程度由浅到深排列
type Assignment struct {
	ID          string
	Title       string
	Description string
	Difficulty  Difficulty
	Type        AssignmentType
	Hints       []string
	InitialCode string
	Solution    string
}

func NewAssignment(a Assignment) (Assignment, error) {
	if a.ID == "" {
		return Assignment{}, fieldErr("assignment", "", "id", ErrEmptyID)
	}
	if a.Title == "" {
		return Assignment{}, fieldErr("assignment", a.ID, "title", ErrEmptyTitle)
	}
	a.Hints = cloneStrings(a.Hints)
	return a, nil
}

// QuizQuestion 单选测验题，CorrectAnswer 为 Options 的下标
type QuizQuestion struct {
	ID            string
	Question      string
	Options       []string
	CorrectAnswer int
	Explanation   string
}

func NewQuizQuestion(q QuizQuestion) (QuizQuestion, error) {
	if q.ID == "" {
		return QuizQuestion{}, fieldErr("quizQuestion", "", "id", ErrEmptyID)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return QuizQuestion{}, fieldErr("quizQuestion", q.ID, "correctAnswer", ErrAnswerOutOfRange)
	}
	q.Options = cloneStrings(q.Options)
	return q, nil
}

// CorrectOption 返回正确选项的文本
func (q QuizQuestion) CorrectOption() string {
	return q.Options[q.CorrectAnswer]
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
