package catalog

// Course 顶层有序模块集合
type Course struct {
	ID          string
	Title       string
	Description string

	modules []Module
	index   map[string]int
}

func NewCourse(id, title, description string, modules []Module) (Course, error) {
	if id == "" {
		return Course{}, fieldErr("course", "", "id", ErrEmptyID)
	}
	if title == "" {
		return Course{}, fieldErr("course", id, "title", ErrEmptyTitle)
	}

	c := Course{
		ID:          id,
		Title:       title,
		Description: description,
		modules:     append([]Module(nil), modules...),
		index:       make(map[string]int, len(modules)),
	}
	for i, m := range c.modules {
		if _, ok := c.index[m.ID]; ok {
			return Course{}, &DuplicateIDError{Entity: "module", Parent: id, ID: m.ID}
		}
		c.index[m.ID] = i
	}
	return c, nil
}

func (c Course) Modules() []Module {
	return append([]Module(nil), c.modules...)
}

func (c Course) Module(id string) (Module, bool) {
	i, ok := c.index[id]
	if !ok {
		return Module{}, false
	}
	return c.modules[i], true
}

func (c Course) LessonCount() int {
	n := 0
	for _, m := range c.modules {
		n += m.Len()
	}
	return n
}

// LessonRef 指向课程内某个模块中的课时
type LessonRef struct {
	ModuleID string
	Lesson   Lesson
}

// Neighbors 跨模块边界的上一课/下一课：模块首课的上一课是前一模块的末课
func (c Course) Neighbors(moduleID, lessonID string) (prev, next *LessonRef, ok bool) {
	mi, ok := c.index[moduleID]
	if !ok {
		return nil, nil, false
	}
	m := c.modules[mi]
	p, n, ok := m.Neighbors(lessonID)
	if !ok {
		return nil, nil, false
	}

	if p != nil {
		prev = &LessonRef{ModuleID: m.ID, Lesson: *p}
	} else {
		for i := mi - 1; i >= 0; i-- {
			if ls := c.modules[i].lessons; len(ls) > 0 {
				prev = &LessonRef{ModuleID: c.modules[i].ID, Lesson: ls[len(ls)-1]}
				break
			}
		}
	}

	if n != nil {
		next = &LessonRef{ModuleID: m.ID, Lesson: *n}
	} else {
		for i := mi + 1; i < len(c.modules); i++ {
			if ls := c.modules[i].lessons; len(ls) > 0 {
				next = &LessonRef{ModuleID: c.modules[i].ID, Lesson: ls[0]}
				break
			}
		}
	}
	return prev, next, true
}
