package catalog

import (
	"slices"
	"strings"
)

// SectionSeparator 分节之间的固定分隔符
const SectionSeparator = "\n\n---\n\n"

// Section 多节课时中的一个具名片段
type Section struct {
	ID      string
	Title   string
	Content string
}

func NewSection(id, title, content string) (Section, error) {
	if content == "" {
		return Section{}, fieldErr("section", id, "content", ErrEmptyContent)
	}
	return Section{ID: id, Title: title, Content: content}, nil
}

// Compose 按声明顺序拼接各节内容。空列表返回空串，单节原样返回。
func Compose(sections []Section) string {
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(contents(sections), SectionSeparator)
}

// Split 是 Compose 的逆操作。NewComposedLesson 保证其正文可以拆回原来的各节。
func Split(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, SectionSeparator)
}

// NewComposedLesson 用分节拼接结果作为课时正文，spec.Content 会被忽略
func NewComposedLesson(spec LessonSpec, sections []Section) (Lesson, error) {
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Content == "" {
			return Lesson{}, fieldErr("section", s.ID, "content", ErrEmptyContent)
		}
		if s.ID != "" {
			ids = append(ids, s.ID)
		}
	}
	if dup, ok := checkUnique(ids); !ok {
		return Lesson{}, &DuplicateIDError{Entity: "section", Parent: spec.ID, ID: dup}
	}

	spec.Content = Compose(sections)
	if len(sections) > 0 && !slices.Equal(Split(spec.Content), contents(sections)) {
		// 节内容包含分隔符，或相邻两节在边界处拼出了分隔符
		return Lesson{}, fieldErr("lesson", spec.ID, "sections", ErrAmbiguousSections)
	}
	l, err := NewLesson(spec)
	if err != nil {
		return Lesson{}, err
	}
	l.sections = append([]Section(nil), sections...)
	return l, nil
}

func contents(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Content
	}
	return out
}
