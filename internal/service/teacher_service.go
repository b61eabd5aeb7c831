package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
)

// TeacherService manages the teacher list.
type TeacherService struct {
	cat *Catalog
	n   notifier
}

func NewTeacherService(cat *Catalog, sink notify.Sink, log zerolog.Logger) *TeacherService {
	return &TeacherService{cat: cat, n: newNotifier(sink, log, "teacher_service")}
}

// List returns the teachers who teach the filtered grade.
func (s *TeacherService) List(f model.GradeFilter) []model.Teacher {
	return FilterByGrade(s.cat.Teachers.List(), f)
}

func (s *TeacherService) Get(id int) (model.Teacher, error) {
	t, ok := s.cat.Teachers.Get(id)
	if !ok {
		return model.Teacher{}, ErrNotFound
	}
	return t, nil
}

func (s *TeacherService) Add(ctx context.Context, req model.CreateTeacherRequest) (model.Teacher, error) {
	name, err := RequireName(req.Name)
	if err != nil {
		s.n.failure(ctx, err, "Please enter a teacher name")
		return model.Teacher{}, err
	}
	if err := ValidGrades(req.GradeLevels...); err != nil {
		s.n.failure(ctx, err, "Please select a valid grade level")
		return model.Teacher{}, err
	}

	now := time.Now().UTC()
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	t, err := s.cat.Teachers.Add(ctx, model.Teacher{
		Name:        name,
		Subjects:    model.NormalizeLabels(req.Subjects),
		GradeLevels: model.NewGradeSet(req.GradeLevels...),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.n.failure(ctx, err, "Failed to add teacher")
		return model.Teacher{}, err
	}

	s.n.log.Info().Int("id", t.ID).Str("name", t.Name).Msg("teacher added")
	s.n.success(ctx, "Teacher added successfully!")
	return t, nil
}

func (s *TeacherService) Update(ctx context.Context, id int, patch model.TeacherPatch) (model.Teacher, error) {
	if patch.Name != nil {
		name, err := RequireName(*patch.Name)
		if err != nil {
			s.n.failure(ctx, err, "Please enter a teacher name")
			return model.Teacher{}, err
		}
		patch.Name = &name
	}
	if patch.GradeLevels != nil {
		if err := ValidGrades(*patch.GradeLevels...); err != nil {
			s.n.failure(ctx, err, "Please select a valid grade level")
			return model.Teacher{}, err
		}
	}

	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	t, err := s.cat.Teachers.Update(ctx, id, func(t model.Teacher) model.Teacher {
		t = patch.Apply(t)
		t.UpdatedAt = time.Now().UTC()
		return t
	})
	if err != nil {
		s.n.failure(ctx, err, teacherFailure(err, "Failed to update teacher"))
		return model.Teacher{}, err
	}

	s.n.success(ctx, "Teacher updated successfully!")
	return t, nil
}

// Remove deletes a teacher who has no scheduled classes.
func (s *TeacherService) Remove(ctx context.Context, id int) error {
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	guard := inUse[model.Teacher](s.cat, func(sc model.ScheduledClass, id int) bool { return sc.TeacherID == id }, id)
	if _, err := s.cat.Teachers.Remove(ctx, id, guard); err != nil {
		s.n.failure(ctx, err, teacherFailure(err, "Failed to remove teacher"))
		return err
	}

	s.n.success(ctx, "Teacher removed")
	return nil
}

func teacherFailure(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Teacher not found"
	case errors.Is(err, ErrInUse):
		return "Teacher is still assigned to scheduled classes"
	default:
		return fallback
	}
}
