package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
	"github.com/stemsi/classgrid-backend/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestSectionService_AddSectionD(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewSectionService(cat, rec, nop)

	got, err := svc.Add(context.Background(), model.CreateSectionRequest{Name: "Section D", GradeLevel: 9})
	require.NoError(t, err)

	all := svc.List(model.AllGrades)
	assert.Equal(t, 5, got.ID)
	assert.Len(t, all, 5)
	assert.Equal(t, got, all[4])

	n := lastNote(t, rec)
	assert.Equal(t, notify.KindSuccess, n.Kind)
	assert.Equal(t, "Section added successfully!", n.Message)
}

func TestSectionService_Validation(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewSectionService(cat, rec, nop)
	ctx := context.Background()

	_, err := svc.Add(ctx, model.CreateSectionRequest{Name: "   ", GradeLevel: 9})
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, "Please enter a section name", lastNote(t, rec).Message)

	_, err = svc.Add(ctx, model.CreateSectionRequest{Name: "Section A", GradeLevel: 7})
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, notify.KindError, lastNote(t, rec).Kind)

	_, err = svc.Add(ctx, model.CreateSectionRequest{Name: "Section C"})
	assert.ErrorIs(t, err, ErrInvalidGrade)

	assert.Equal(t, 4, cat.Sections.Len())
}

func TestSectionService_UpdateAndRemove(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewSectionService(cat, rec, nop)
	ctx := context.Background()

	// Moving "Section A" of grade 8 into grade 7 would duplicate section 1.
	_, err := svc.Update(ctx, 3, model.SectionPatch{GradeLevel: ptr(model.GradeLevel(7))})
	assert.ErrorIs(t, err, ErrDuplicateName)

	got, err := svc.Update(ctx, 3, model.SectionPatch{Name: ptr(" Section C ")})
	require.NoError(t, err)
	assert.Equal(t, "Section C", got.Name)
	assert.Equal(t, model.GradeLevel(8), got.GradeLevel)
	assert.Equal(t, "Section updated successfully!", lastNote(t, rec).Message)

	_, err = svc.Update(ctx, 42, model.SectionPatch{Name: ptr("X")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Section not found", lastNote(t, rec).Message)

	// Section 1 carries the demo timetable.
	assert.ErrorIs(t, svc.Remove(ctx, 1), ErrInUse)
	require.NoError(t, svc.Remove(ctx, 2))
	assert.Equal(t, "Section removed", lastNote(t, rec).Message)
	assert.ErrorIs(t, svc.Remove(ctx, 2), ErrNotFound)
}

func TestSubjectService(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewSubjectService(cat, rec, nop)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     model.CreateSubjectRequest
		wantErr error
		wantMsg string
	}{
		{"blank name", model.CreateSubjectRequest{Name: "  ", GradeLevels: []model.GradeLevel{9}}, ErrEmptyName, "Please enter a subject name"},
		{"no grades", model.CreateSubjectRequest{Name: "Biology"}, ErrEmptySelection, "Please select at least one grade level"},
		{"duplicate", model.CreateSubjectRequest{Name: "Physics", GradeLevels: []model.GradeLevel{9}}, ErrDuplicateName, `A subject named "Physics" already exists`},
		{"ok", model.CreateSubjectRequest{Name: " Biology ", GradeLevels: []model.GradeLevel{12, 9, 9}}, nil, "Subject added successfully!"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Add(ctx, tc.req)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Biology", got.Name)
				assert.Equal(t, model.GradeSet{9, 12}, got.GradeLevels)
			}
			assert.Equal(t, tc.wantMsg, lastNote(t, rec).Message)
		})
	}

	_, err := svc.Update(ctx, 2, model.SubjectPatch{GradeLevels: &[]model.GradeLevel{}})
	assert.ErrorIs(t, err, ErrEmptySelection)

	// Renaming to its own name is fine; renaming onto another subject is not.
	_, err = svc.Update(ctx, 2, model.SubjectPatch{Name: ptr("Physics")})
	assert.NoError(t, err)
	_, err = svc.Update(ctx, 2, model.SubjectPatch{Name: ptr("Chemistry")})
	assert.ErrorIs(t, err, ErrDuplicateName)

	assert.Len(t, svc.List(model.FilterGrade(7)), 2)
	assert.ErrorIs(t, svc.Remove(ctx, 1), ErrInUse)
	assert.NoError(t, svc.Remove(ctx, 3))
}

func TestTeacherService(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewTeacherService(cat, rec, nop)
	ctx := context.Background()

	_, err := svc.Add(ctx, model.CreateTeacherRequest{Name: ""})
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, "Please enter a teacher name", lastNote(t, rec).Message)

	// Teacher names need not be unique.
	added, err := svc.Add(ctx, model.CreateTeacherRequest{Name: "Dr. Smith"})
	require.NoError(t, err)
	assert.Equal(t, 4, added.ID)
	assert.Empty(t, added.Subjects)
	assert.Equal(t, "Teacher added successfully!", lastNote(t, rec).Message)

	got, err := svc.Update(ctx, 4, model.TeacherPatch{
		Subjects:    &[]string{"Chemistry", " Chemistry", "Physics"},
		GradeLevels: &[]model.GradeLevel{11, 9},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith", got.Name)
	assert.Equal(t, []string{"Chemistry", "Physics"}, got.Subjects)
	assert.Equal(t, model.GradeSet{9, 11}, got.GradeLevels)

	assert.Len(t, svc.List(model.FilterGrade(9)), 2)
	assert.Len(t, svc.List(model.FilterGrade(7)), 1)

	assert.ErrorIs(t, svc.Remove(ctx, 1), ErrInUse)
	assert.Equal(t, "Teacher is still assigned to scheduled classes", lastNote(t, rec).Message)
	require.NoError(t, svc.Remove(ctx, 4))
	assert.Equal(t, "Teacher removed", lastNote(t, rec).Message)

	_, err = svc.Get(4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntityService_PersistFailureKeepsState(t *testing.T) {
	p := &repository.MemoryPersister[model.Teacher]{SaveErr: errors.New("connection refused")}
	cat := NewMemoryCatalog()
	cat.Teachers = repository.NewListStore[model.Teacher](p)
	rec := &notify.Recorder{}
	svc := NewTeacherService(cat, rec, nop)

	_, err := svc.Add(context.Background(), model.CreateTeacherRequest{Name: "Mr. Lee"})
	assert.ErrorIs(t, err, repository.ErrPersist)
	assert.Equal(t, 0, cat.Teachers.Len())
	assert.Equal(t, "Failed to add teacher", lastNote(t, rec).Message)
}

func TestActorIsAttached(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewSectionService(cat, rec, nop)

	_, err := svc.Add(notify.WithActor(context.Background(), "admin"), model.CreateSectionRequest{Name: "Section C", GradeLevel: 7})
	require.NoError(t, err)
	assert.Equal(t, "admin", lastNote(t, rec).Actor)
}
