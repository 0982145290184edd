package catalog

// Module 有序的课时分组。lessons 的顺序即学习者的导航顺序。
type Module struct {
	ID          string
	Title       string
	Description string

	lessons []Lesson
	index   map[string]int
}

func NewModule(id, title, description string, lessons []Lesson) (Module, error) {
	if id == "" {
		return Module{}, fieldErr("module", "", "id", ErrEmptyID)
	}
	if title == "" {
		return Module{}, fieldErr("module", id, "title", ErrEmptyTitle)
	}

	m := Module{
		ID:          id,
		Title:       title,
		Description: description,
		lessons:     append([]Lesson(nil), lessons...),
		index:       make(map[string]int, len(lessons)),
	}
	for i, l := range m.lessons {
		if _, ok := m.index[l.ID]; ok {
			return Module{}, &DuplicateIDError{Entity: "lesson", Parent: id, ID: l.ID}
		}
		m.index[l.ID] = i
	}
	return m, nil
}

func (m Module) Lessons() []Lesson {
	return append([]Lesson(nil), m.lessons...)
}

func (m Module) Len() int { return len(m.lessons) }

func (m Module) Lesson(id string) (Lesson, bool) {
	i, ok := m.index[id]
	if !ok {
		return Lesson{}, false
	}
	return m.lessons[i], true
}

// Position 返回课时在模块中的下标，不存在时为 -1
func (m Module) Position(id string) int {
	if i, ok := m.index[id]; ok {
		return i
	}
	return -1
}

// Exports 由有序课时列表派生的单独引用表
func (m Module) Exports() map[string]Lesson {
	out := make(map[string]Lesson, len(m.lessons))
	for _, l := range m.lessons {
		out[l.ID] = l
	}
	return out
}

// Neighbors 返回模块内的上一课和下一课
func (m Module) Neighbors(id string) (prev, next *Lesson, ok bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, nil, false
	}
	if i > 0 {
		p := m.lessons[i-1]
		prev = &p
	}
	if i < len(m.lessons)-1 {
		n := m.lessons[i+1]
		next = &n
	}
	return prev, next, true
}

func (m Module) lessonIDs() []string {
	ids := make([]string, len(m.lessons))
	for i, l := range m.lessons {
		ids[i] = l.ID
	}
	return ids
}
