package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCourse("go-basics", "Go Basics", "", []Module{
		mustModule(t, "module-1", "lesson-1-1", "lesson-1-2"),
		mustModule(t, "module-2"),
		mustModule(t, "module-3", "lesson-3-1", "lesson-3-2"),
	})
	require.NoError(t, err)
	cat, err := NewCatalog([]Course{c})
	require.NoError(t, err)
	return cat
}

func TestCatalog_Lookup(t *testing.T) {
	cat := testCatalog(t)

	l, err := cat.Lookup("go-basics", "module-3", "lesson-3-2")
	require.NoError(t, err)
	assert.Equal(t, "lesson-3-2", l.ID)

	tests := []struct {
		name                string
		course, module, les string
		level               string
	}{
		{"missing lesson", "go-basics", "module-3", "lesson-3-9", "lesson"},
		{"missing module", "go-basics", "module-9", "lesson-3-1", "module"},
		{"missing course", "rust", "module-3", "lesson-3-1", "course"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.Lookup(tt.course, tt.module, tt.les)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.level, nf.Level)
		})
	}
}

func TestNewCourse_DuplicateModule(t *testing.T) {
	_, err := NewCourse("c", "C", "", []Module{mustModule(t, "m"), mustModule(t, "m")})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewCatalog_DuplicateCourse(t *testing.T) {
	c, err := NewCourse("c", "C", "", nil)
	require.NoError(t, err)
	_, err = NewCatalog([]Course{c, c})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestCourse_NeighborsAcrossModules(t *testing.T) {
	cat := testCatalog(t)
	course, ok := cat.Course("go-basics")
	require.True(t, ok)
	assert.Equal(t, 4, course.LessonCount())

	prev, next, ok := course.Neighbors("module-1", "lesson-1-2")
	require.True(t, ok)
	assert.Equal(t, "lesson-1-1", prev.Lesson.ID)
	// module-2 is empty and gets skipped
	assert.Equal(t, "module-3", next.ModuleID)
	assert.Equal(t, "lesson-3-1", next.Lesson.ID)

	prev, next, ok = course.Neighbors("module-3", "lesson-3-1")
	require.True(t, ok)
	assert.Equal(t, "module-1", prev.ModuleID)
	assert.Equal(t, "lesson-1-2", prev.Lesson.ID)
	assert.Equal(t, "lesson-3-2", next.Lesson.ID)

	prev, _, ok = course.Neighbors("module-1", "lesson-1-1")
	require.True(t, ok)
	assert.Nil(t, prev)

	_, _, ok = course.Neighbors("module-1", "lesson-3-1")
	assert.False(t, ok)
}

func TestCatalog_Stats(t *testing.T) {
	s := testCatalog(t).Stats()
	assert.Equal(t, Stats{Courses: 1, Modules: 3, Lessons: 4}, s)
}

func TestCatalog_Checksum(t *testing.T) {
	a := testCatalog(t)
	b := testCatalog(t)
	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.Len(t, a.Checksum(), 64)

	c, err := NewCourse("go-basics", "Go Basics", "", []Module{
		mustModule(t, "module-1", "lesson-1-2", "lesson-1-1"),
		mustModule(t, "module-2"),
		mustModule(t, "module-3", "lesson-3-1", "lesson-3-2"),
	})
	require.NoError(t, err)
	reordered, err := NewCatalog([]Course{c})
	require.NoError(t, err)
	assert.NotEqual(t, a.Checksum(), reordered.Checksum())
}
