package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLesson(t *testing.T, id string) Lesson {
	t.Helper()
	l, err := NewLesson(LessonSpec{ID: id, Title: "Lesson " + id, Duration: "30 min", Content: "body of " + id})
	require.NoError(t, err)
	return l
}

func mustModule(t *testing.T, id string, lessonIDs ...string) Module {
	t.Helper()
	lessons := make([]Lesson, len(lessonIDs))
	for i, lid := range lessonIDs {
		lessons[i] = mustLesson(t, lid)
	}
	m, err := NewModule(id, "Module "+id, "", lessons)
	require.NoError(t, err)
	return m
}

func TestNewLesson_Validation(t *testing.T) {
	_, err := NewLesson(LessonSpec{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = NewLesson(LessonSpec{ID: "l", Content: "c"})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = NewLesson(LessonSpec{ID: "l", Title: "t"})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewLesson(LessonSpec{ID: "l", Title: "t", Content: "c", Quiz: []QuizQuestion{
		{ID: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 4},
	}})
	assert.ErrorIs(t, err, ErrAnswerOutOfRange)
}

func TestNewLesson_DuplicateLeafIDs(t *testing.T) {
	_, err := NewLesson(LessonSpec{ID: "l", Title: "t", Content: "c", CodeExamples: []CodeExample{
		{ID: "ex", Title: "one"}, {ID: "ex", Title: "two"},
	}})
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "codeExample", dup.Entity)
	assert.Equal(t, "ex", dup.ID)

	_, err = NewLesson(LessonSpec{ID: "l", Title: "t", Content: "c", Assignments: []Assignment{
		{ID: "a", Title: "one"}, {ID: "a", Title: "two"},
	}})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestLesson_AccessorsReturnCopies(t *testing.T) {
	l, err := NewLesson(LessonSpec{ID: "l", Title: "t", Content: "c",
		Assignments: []Assignment{{ID: "a", Title: "one", Hints: []string{"h1", "h2"}}},
		Quiz:        []QuizQuestion{{ID: "q", Options: []string{"x", "y"}, CorrectAnswer: 1}},
	})
	require.NoError(t, err)

	a := l.Assignments()
	a[0].Hints[0] = "changed"
	assert.Equal(t, "h1", l.Assignments()[0].Hints[0])

	q := l.Quiz()
	q[0].Options[1] = "changed"
	assert.Equal(t, "y", l.Quiz()[0].CorrectOption())
}

func TestModule_Lookup(t *testing.T) {
	m := mustModule(t, "module-3", "lesson-3-1", "lesson-3-2")

	l, ok := m.Lesson("lesson-3-2")
	require.True(t, ok)
	assert.Equal(t, "lesson-3-2", l.ID)

	_, ok = m.Lesson("lesson-3-9")
	assert.False(t, ok)
}

func TestNewModule_DuplicateLessonID(t *testing.T) {
	a := mustLesson(t, "lesson-1")
	_, err := NewModule("m", "M", "", []Lesson{a, a})
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "lesson", dup.Entity)
	assert.Equal(t, "m", dup.Parent)
}

func TestModule_OrderAndNeighbors(t *testing.T) {
	m := mustModule(t, "m", "l1", "l2", "l3")

	var ids []string
	for _, l := range m.Lessons() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"l1", "l2", "l3"}, ids)
	assert.Equal(t, 1, m.Position("l2"))
	assert.Equal(t, -1, m.Position("nope"))

	prev, next, ok := m.Neighbors("l1")
	require.True(t, ok)
	assert.Nil(t, prev)
	assert.Equal(t, "l2", next.ID)

	prev, next, ok = m.Neighbors("l3")
	require.True(t, ok)
	assert.Equal(t, "l2", prev.ID)
	assert.Nil(t, next)

	_, _, ok = m.Neighbors("nope")
	assert.False(t, ok)
}

func TestModule_ExportsDerivedFromLessons(t *testing.T) {
	m := mustModule(t, "m", "l1", "l2")
	exports := m.Exports()
	assert.Len(t, exports, 2)
	for _, l := range m.Lessons() {
		assert.Equal(t, l, exports[l.ID])
	}
}
