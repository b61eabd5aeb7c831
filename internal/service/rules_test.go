package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/classgrid-backend/internal/model"
)

func TestRequireName(t *testing.T) {
	got, err := RequireName("  Section D ")
	require.NoError(t, err)
	assert.Equal(t, "Section D", got)

	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := RequireName(in)
		assert.ErrorIs(t, err, ErrEmptyName, "%q", in)
	}
}

func TestRequireSelection(t *testing.T) {
	assert.ErrorIs(t, RequireSelection(nil), ErrEmptySelection)
	assert.ErrorIs(t, RequireSelection([]model.GradeLevel{}), ErrEmptySelection)
	assert.ErrorIs(t, RequireSelection([]model.GradeLevel{9, 13}), ErrInvalidGrade)
	assert.NoError(t, RequireSelection([]model.GradeLevel{9}))
}

func TestUniqueSubjectName(t *testing.T) {
	existing := []model.Subject{{ID: 1, Name: "Mathematics"}, {ID: 2, Name: "Physics"}}

	assert.ErrorIs(t, UniqueSubjectName(existing, model.Subject{Name: "Physics"}), ErrDuplicateName)
	assert.NoError(t, UniqueSubjectName(existing, model.Subject{Name: "physics"}))
	assert.NoError(t, UniqueSubjectName(existing, model.Subject{Name: "Biology"}))
}

func TestUniqueSectionName(t *testing.T) {
	existing := []model.Section{{ID: 1, Name: "Section A", GradeLevel: 7}}

	assert.ErrorIs(t, UniqueSectionName(existing, model.Section{Name: "Section A", GradeLevel: 7}), ErrDuplicateName)
	assert.NoError(t, UniqueSectionName(existing, model.Section{Name: "Section A", GradeLevel: 8}))
}

func TestFilterByGrade(t *testing.T) {
	sections := []model.Section{
		{ID: 1, Name: "Section A", GradeLevel: 7},
		{ID: 2, Name: "Section B", GradeLevel: 7},
		{ID: 3, Name: "Section A", GradeLevel: 8},
		{ID: 4, Name: "Section B", GradeLevel: 8},
	}
	teachers := []model.Teacher{
		{ID: 1, Name: "Dr. Smith", GradeLevels: model.NewGradeSet(9, 10)},
		{ID: 2, Name: "Prof. Johnson", GradeLevels: model.NewGradeSet(11, 12)},
		{ID: 3, Name: "Ms. Davis", GradeLevels: model.NewGradeSet(7, 8)},
	}

	t.Run("all returns input unchanged", func(t *testing.T) {
		got := FilterByGrade(sections, model.AllGrades)
		assert.Equal(t, sections, got)
		assert.Same(t, &sections[0], &got[0])
	})

	t.Run("scalar grade", func(t *testing.T) {
		got := FilterByGrade(sections, model.FilterGrade(8))
		require.Len(t, got, 2)
		assert.Equal(t, 3, got[0].ID)
		assert.Equal(t, 4, got[1].ID)
	})

	t.Run("grade set membership", func(t *testing.T) {
		got := FilterByGrade(teachers, model.FilterGrade(10))
		require.Len(t, got, 1)
		assert.Equal(t, "Dr. Smith", got[0].Name)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FilterByGrade(sections, model.FilterGrade(12)))
	})
}
