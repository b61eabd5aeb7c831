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

// SectionService manages the section list. Section names are unique within a grade.
type SectionService struct {
	cat *Catalog
	n   notifier
}

func NewSectionService(cat *Catalog, sink notify.Sink, log zerolog.Logger) *SectionService {
	return &SectionService{cat: cat, n: newNotifier(sink, log, "section_service")}
}

// List returns the sections of the filtered grade.
func (s *SectionService) List(f model.GradeFilter) []model.Section {
	return FilterByGrade(s.cat.Sections.List(), f)
}

func (s *SectionService) Get(id int) (model.Section, error) {
	sec, ok := s.cat.Sections.Get(id)
	if !ok {
		return model.Section{}, ErrNotFound
	}
	return sec, nil
}

func (s *SectionService) Add(ctx context.Context, req model.CreateSectionRequest) (model.Section, error) {
	name, err := RequireName(req.Name)
	if err != nil {
		s.n.failure(ctx, err, "Please enter a section name")
		return model.Section{}, err
	}
	if err := ValidGrades(req.GradeLevel); err != nil {
		s.n.failure(ctx, err, "Please select a valid grade level")
		return model.Section{}, err
	}

	now := time.Now().UTC()
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	sec, err := s.cat.Sections.Add(ctx, model.Section{
		Name:       name,
		GradeLevel: req.GradeLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, UniqueSectionName)
	if err != nil {
		s.n.failure(ctx, err, sectionFailure(err, name, req.GradeLevel, "Failed to add section"))
		return model.Section{}, err
	}

	s.n.log.Info().Int("id", sec.ID).Str("name", sec.Name).Stringer("grade", sec.GradeLevel).Msg("section added")
	s.n.success(ctx, "Section added successfully!")
	return sec, nil
}

func (s *SectionService) Update(ctx context.Context, id int, patch model.SectionPatch) (model.Section, error) {
	if patch.Name != nil {
		name, err := RequireName(*patch.Name)
		if err != nil {
			s.n.failure(ctx, err, "Please enter a section name")
			return model.Section{}, err
		}
		patch.Name = &name
	}
	if patch.GradeLevel != nil {
		if err := ValidGrades(*patch.GradeLevel); err != nil {
			s.n.failure(ctx, err, "Please select a valid grade level")
			return model.Section{}, err
		}
	}

	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	var candidate model.Section
	sec, err := s.cat.Sections.Update(ctx, id, func(sec model.Section) model.Section {
		sec = patch.Apply(sec)
		sec.UpdatedAt = time.Now().UTC()
		candidate = sec
		return sec
	}, UniqueSectionName)
	if err != nil {
		s.n.failure(ctx, err, sectionFailure(err, candidate.Name, candidate.GradeLevel, "Failed to update section"))
		return model.Section{}, err
	}

	s.n.success(ctx, "Section updated successfully!")
	return sec, nil
}

// Remove deletes a section with an empty timetable.
func (s *SectionService) Remove(ctx context.Context, id int) error {
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	guard := inUse[model.Section](s.cat, func(sc model.ScheduledClass, id int) bool { return sc.SectionID == id }, id)
	if _, err := s.cat.Sections.Remove(ctx, id, guard); err != nil {
		s.n.failure(ctx, err, sectionFailure(err, "", 0, "Failed to remove section"))
		return err
	}

	s.n.success(ctx, "Section removed")
	return nil
}

func sectionFailure(err error, name string, grade model.GradeLevel, fallback string) string {
	switch {
	case errors.Is(err, ErrDuplicateName):
		return fmt.Sprintf("%s already exists in grade %s", name, grade)
	case errors.Is(err, ErrNotFound):
		return "Section not found"
	case errors.Is(err, ErrInUse):
		return "Section still has scheduled classes"
	default:
		return fallback
	}
}
