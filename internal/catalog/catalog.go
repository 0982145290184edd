package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Catalog 所有课程的只读集合，提供查找和列表契约
type Catalog struct {
	courses []Course
	index   map[string]int
}

func NewCatalog(courses []Course) (*Catalog, error) {
	c := &Catalog{
		courses: append([]Course(nil), courses...),
		index:   make(map[string]int, len(courses)),
	}
	for i, course := range c.courses {
		if _, ok := c.index[course.ID]; ok {
			return nil, &DuplicateIDError{Entity: "course", Parent: "catalog", ID: course.ID}
		}
		c.index[course.ID] = i
	}
	return c, nil
}

func (c *Catalog) Courses() []Course {
	return append([]Course(nil), c.courses...)
}

func (c *Catalog) Course(id string) (Course, bool) {
	i, ok := c.index[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

// FindModule 按课程ID和模块ID查找模块
func (c *Catalog) FindModule(courseID, moduleID string) (Module, error) {
	course, ok := c.Course(courseID)
	if !ok {
		return Module{}, &NotFoundError{Level: "course", ID: courseID}
	}
	m, ok := course.Module(moduleID)
	if !ok {
		return Module{}, &NotFoundError{Level: "module", ID: moduleID}
	}
	return m, nil
}

// Lookup 三级查找，未命中返回 *NotFoundError
func (c *Catalog) Lookup(courseID, moduleID, lessonID string) (Lesson, error) {
	m, err := c.FindModule(courseID, moduleID)
	if err != nil {
		return Lesson{}, err
	}
	l, ok := m.Lesson(lessonID)
	if !ok {
		return Lesson{}, &NotFoundError{Level: "lesson", ID: lessonID}
	}
	return l, nil
}

type Stats struct {
	Courses       int `json:"courses"`
	Modules       int `json:"modules"`
	Lessons       int `json:"lessons"`
	QuizQuestions int `json:"quizQuestions"`
	Assignments   int `json:"assignments"`
}

func (c *Catalog) Stats() Stats {
	var s Stats
	s.Courses = len(c.courses)
	for _, course := range c.courses {
		s.Modules += len(course.modules)
		for _, m := range course.modules {
			s.Lessons += len(m.lessons)
			for _, l := range m.lessons {
				s.QuizQuestions += len(l.quiz)
				s.Assignments += len(l.assignments)
			}
		}
	}
	return s
}

// Checksum 目录内容的摘要，用于判断发布的快照是否有变化
func (c *Catalog) Checksum() string {
	h := sha256.New()
	w := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}
	for _, course := range c.courses {
		w("course", course.ID, course.Title, course.Description)
		for _, m := range course.modules {
			w("module", m.ID, m.Title, m.Description)
			for _, l := range m.lessons {
				w("lesson", l.ID, l.Title, l.Duration, l.Content)
				for _, s := range l.sections {
					w("section", s.ID, s.Title)
				}
				for _, ex := range l.codeExamples {
					w("example", ex.ID, ex.Title, ex.Language, ex.Code, ex.Explanation)
				}
				for _, a := range l.assignments {
					w("assignment", a.ID, a.Title, a.Description, string(a.Difficulty), string(a.Type), a.InitialCode, a.Solution)
					w(a.Hints...)
				}
				for _, r := range l.resources {
					w("resource", r.Title, r.URL, string(r.Type))
				}
				for _, q := range l.quiz {
					w("quiz", q.ID, q.Question, strconv.Itoa(q.CorrectAnswer), q.Explanation)
					w(q.Options...)
				}
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
