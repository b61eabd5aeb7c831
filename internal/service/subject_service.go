package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
)

// SubjectService manages the subject list. Subject names are unique.
type SubjectService struct {
	cat *Catalog
	n   notifier
}

func NewSubjectService(cat *Catalog, sink notify.Sink, log zerolog.Logger) *SubjectService {
	return &SubjectService{cat: cat, n: newNotifier(sink, log, "subject_service")}
}

// List returns the subjects offered to the filtered grade.
func (s *SubjectService) List(f model.GradeFilter) []model.Subject {
	return FilterByGrade(s.cat.Subjects.List(), f)
}

func (s *SubjectService) Get(id int) (model.Subject, error) {
	sub, ok := s.cat.Subjects.Get(id)
	if !ok {
		return model.Subject{}, ErrNotFound
	}
	return sub, nil
}

func (s *SubjectService) Add(ctx context.Context, req model.CreateSubjectRequest) (model.Subject, error) {
	name, err := RequireName(req.Name)
	if err != nil {
		s.n.failure(ctx, err, "Please enter a subject name")
		return model.Subject{}, err
	}
	if err := RequireSelection(req.GradeLevels); err != nil {
		s.n.failure(ctx, err, subjectFailure(err, name, ""))
		return model.Subject{}, err
	}

	now := time.Now().UTC()
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	sub, err := s.cat.Subjects.Add(ctx, model.Subject{
		Name:        name,
		GradeLevels: model.NewGradeSet(req.GradeLevels...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, UniqueSubjectName)
	if err != nil {
		s.n.failure(ctx, err, subjectFailure(err, name, "Failed to add subject"))
		return model.Subject{}, err
	}

	s.n.log.Info().Int("id", sub.ID).Str("name", sub.Name).Msg("subject added")
	s.n.success(ctx, "Subject added successfully!")
	return sub, nil
}

func (s *SubjectService) Update(ctx context.Context, id int, patch model.SubjectPatch) (model.Subject, error) {
	var name string
	if patch.Name != nil {
		trimmed, err := RequireName(*patch.Name)
		if err != nil {
			s.n.failure(ctx, err, "Please enter a subject name")
			return model.Subject{}, err
		}
		patch.Name = &trimmed
	}
	if patch.GradeLevels != nil {
		if err := RequireSelection(*patch.GradeLevels); err != nil {
			s.n.failure(ctx, err, subjectFailure(err, name, ""))
			return model.Subject{}, err
		}
	}

	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	sub, err := s.cat.Subjects.Update(ctx, id, func(sub model.Subject) model.Subject {
		sub = patch.Apply(sub)
		sub.UpdatedAt = time.Now().UTC()
		name = sub.Name
		return sub
	}, UniqueSubjectName)
	if err != nil {
		s.n.failure(ctx, err, subjectFailure(err, name, "Failed to update subject"))
		return model.Subject{}, err
	}

	s.n.success(ctx, "Subject updated successfully!")
	return sub, nil
}

// Remove deletes a subject that no scheduled class teaches.
func (s *SubjectService) Remove(ctx context.Context, id int) error {
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	guard := inUse[model.Subject](s.cat, func(sc model.ScheduledClass, id int) bool { return sc.SubjectID == id }, id)
	if _, err := s.cat.Subjects.Remove(ctx, id, guard); err != nil {
		s.n.failure(ctx, err, subjectFailure(err, "", "Failed to remove subject"))
		return err
	}

	s.n.success(ctx, "Subject removed")
	return nil
}

func subjectFailure(err error, name, fallback string) string {
	switch {
	case errors.Is(err, ErrEmptySelection):
		return "Please select at least one grade level"
	case errors.Is(err, ErrInvalidGrade):
		return "Please select a valid grade level"
	case errors.Is(err, ErrDuplicateName):
		return fmt.Sprintf("A subject named %q already exists", name)
	case errors.Is(err, ErrNotFound):
		return "Subject not found"
	case errors.Is(err, ErrInUse):
		return "Subject is still used by scheduled classes"
	default:
		return fallback
	}
}
