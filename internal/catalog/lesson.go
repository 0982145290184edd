package catalog

// LessonSpec 构造课时的输入
type LessonSpec struct {
	ID           string
	Title        string
	Duration     string
	Content      string
	CodeExamples []CodeExample
	Assignments  []Assignment
	Resources    []Resource
	Quiz         []QuizQuestion
}

// Lesson 最小教学单元。构造后不可变，访问器返回副本。
type Lesson struct {
	ID       string
	Title    string
	Duration string
	Content  string

	sections     []Section
	codeExamples []CodeExample
	assignments  []Assignment
	resources    []Resource
	quiz         []QuizQuestion
}

// NewLesson 校验并构造课时；兄弟课时间的唯一性由所属 Module 负责
func NewLesson(spec LessonSpec) (Lesson, error) {
	if spec.ID == "" {
		return Lesson{}, fieldErr("lesson", "", "id", ErrEmptyID)
	}
	if spec.Title == "" {
		return Lesson{}, fieldErr("lesson", spec.ID, "title", ErrEmptyTitle)
	}
	if spec.Content == "" {
		return Lesson{}, fieldErr("lesson", spec.ID, "content", ErrEmptyContent)
	}

	l := Lesson{
		ID:       spec.ID,
		Title:    spec.Title,
		Duration: spec.Duration,
		Content:  spec.Content,
	}

	ids := make([]string, 0, len(spec.CodeExamples))
	for _, ex := range spec.CodeExamples {
		v, err := NewCodeExample(ex)
		if err != nil {
			return Lesson{}, err
		}
		l.codeExamples = append(l.codeExamples, v)
		ids = append(ids, v.ID)
	}
	if dup, ok := checkUnique(ids); !ok {
		return Lesson{}, &DuplicateIDError{Entity: "codeExample", Parent: spec.ID, ID: dup}
	}

	ids = ids[:0]
	for _, a := range spec.Assignments {
		v, err := NewAssignment(a)
		if err != nil {
			return Lesson{}, err
		}
		l.assignments = append(l.assignments, v)
		ids = append(ids, v.ID)
	}
	if dup, ok := checkUnique(ids); !ok {
		return Lesson{}, &DuplicateIDError{Entity: "assignment", Parent: spec.ID, ID: dup}
	}

	ids = ids[:0]
	for _, q := range spec.Quiz {
		v, err := NewQuizQuestion(q)
		if err != nil {
			return Lesson{}, err
		}
		l.quiz = append(l.quiz, v)
		ids = append(ids, v.ID)
	}
	if dup, ok := checkUnique(ids); !ok {
		return Lesson{}, &DuplicateIDError{Entity: "quizQuestion", Parent: spec.ID, ID: dup}
	}

	for _, r := range spec.Resources {
		v, err := NewResource(r.Title, r.URL, r.Type)
		if err != nil {
			return Lesson{}, err
		}
		l.resources = append(l.resources, v)
	}

	return l, nil
}

// Composed 课时正文是否由分节拼接而来
func (l Lesson) Composed() bool { return len(l.sections) > 0 }

func (l Lesson) Sections() []Section {
	return append([]Section(nil), l.sections...)
}

func (l Lesson) CodeExamples() []CodeExample {
	return append([]CodeExample(nil), l.codeExamples...)
}

func (l Lesson) Assignments() []Assignment {
	out := make([]Assignment, len(l.assignments))
	for i, a := range l.assignments {
		a.Hints = cloneStrings(a.Hints)
		out[i] = a
	}
	return out
}

func (l Lesson) Resources() []Resource {
	return append([]Resource(nil), l.resources...)
}

func (l Lesson) Quiz() []QuizQuestion {
	out := make([]QuizQuestion, len(l.quiz))
	for i, q := range l.quiz {
		q.Options = cloneStrings(q.Options)
		out[i] = q
	}
	return out
}
