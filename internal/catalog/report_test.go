package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckExports_StrayExport(t *testing.T) {
	m := mustModule(t, "module-4", "lesson41", "lesson42")

	vs := CheckExports("course/module-4", m, []string{"lesson41", "lesson42", "lesson45"})
	require.Len(t, vs, 1)
	assert.Equal(t, KindDanglingReference, vs[0].Kind)
	assert.Equal(t, SeverityWarning, vs[0].Severity)
	assert.Equal(t, "lesson45", vs[0].Subject)
}

func TestCheckExports_RepeatedExports(t *testing.T) {
	m := mustModule(t, "module-4", "lesson41", "lesson42")

	vs := CheckExports("course/module-4", m, []string{"lesson41", "lesson42", "lesson45", "lesson45"})
	require.Len(t, vs, 2)
	assert.Equal(t, KindDanglingReference, vs[0].Kind)
	assert.Equal(t, "lesson45", vs[0].Subject)
	assert.Equal(t, KindIdentityCollision, vs[1].Kind)
	assert.Equal(t, "lesson45", vs[1].Subject)

	var dangling int
	for _, v := range vs {
		if v.Kind == KindDanglingReference {
			dangling++
		}
	}
	assert.Equal(t, 1, dangling)

	vs = CheckExports("course/module-4", m, []string{"lesson41", "lesson41", "lesson41", "lesson42"})
	require.Len(t, vs, 1)
	assert.Equal(t, KindIdentityCollision, vs[0].Kind)
	assert.Equal(t, SeverityWarning, vs[0].Severity)
	assert.Equal(t, "lesson41", vs[0].Subject)
}

func TestCheckExports_MissingExport(t *testing.T) {
	m := mustModule(t, "module-4", "lesson41", "lesson42")

	vs := CheckExports("course/module-4", m, []string{"lesson41"})
	require.Len(t, vs, 1)
	assert.Equal(t, "lesson42", vs[0].Subject)
}

func TestCheckExports_Consistent(t *testing.T) {
	m := mustModule(t, "module-4", "lesson41", "lesson42")
	assert.Empty(t, CheckExports("p", m, []string{"lesson42", "lesson41"}))
}

func TestCheckNaming(t *testing.T) {
	_, found := CheckNaming(NamingWarn, "p", "lesson", "lesson-1-1", "lesson-1-1")
	assert.False(t, found)

	_, found = CheckNaming(NamingOff, "p", "lesson", "lesson-1-1", "lesson-1-2")
	assert.False(t, found)

	v, found := CheckNaming(NamingWarn, "p", "lesson", "lesson-1-1", "lesson-1-2")
	require.True(t, found)
	assert.Equal(t, SeverityWarning, v.Severity)

	v, found = CheckNaming(NamingStrict, "p", "lesson", "lesson-1-1", "lesson-1-2")
	require.True(t, found)
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, KindNamingMismatch, v.Kind)
}

func TestCheckVocabulary(t *testing.T) {
	l, err := NewLesson(LessonSpec{ID: "l", Title: "t", Content: "c",
		Assignments: []Assignment{{ID: "a", Title: "A", Difficulty: "brutal", Type: AssignmentCode}},
		Resources:   []Resource{{Title: "r", URL: "https://example.com", Type: "podcast"}},
	})
	require.NoError(t, err)

	vs := CheckVocabulary("p", l)
	require.Len(t, vs, 2)
	assert.Equal(t, "brutal", vs[0].Subject)
	assert.Equal(t, "podcast", vs[1].Subject)
}

func TestReport(t *testing.T) {
	var r Report
	assert.NoError(t, r.Err())

	r.Add(Violation{Kind: KindDanglingReference, Severity: SeverityWarning, Path: "b"})
	assert.False(t, r.HasErrors())

	_, err := NewModule("m", "M", "", []Lesson{mustLesson(t, "x"), mustLesson(t, "x")})
	r.AddError("a", err)
	require.True(t, r.HasErrors())
	assert.Equal(t, KindIdentityCollision, r.Errors()[0].Kind)
	assert.Len(t, r.Warnings(), 1)
	assert.Error(t, r.Err())

	r.Sort()
	assert.Equal(t, "a", r.Violations[0].Path)
	assert.Equal(t, 1, r.CountByKind()[KindIdentityCollision][SeverityError])
}
