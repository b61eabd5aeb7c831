package service

import (
	"fmt"
	"strings"

	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
)

// RequireName trims name and fails with ErrEmptyName when nothing is left.
func RequireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// RequireSelection fails with ErrEmptySelection on an empty grade selection.
func RequireSelection(grades []model.GradeLevel) error {
	if len(grades) == 0 {
		return ErrEmptySelection
	}
	return ValidGrades(grades...)
}

// ValidGrades checks every grade is within 7..12.
func ValidGrades(grades ...model.GradeLevel) error {
	for _, g := range grades {
		if !g.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidGrade, g)
		}
	}
	return nil
}

// UniqueSubjectName rejects a subject whose name another subject already has.
func UniqueSubjectName(existing []model.Subject, candidate model.Subject) error {
	for _, s := range existing {
		if s.Name == candidate.Name {
			return fmt.Errorf("%w: subject %q", ErrDuplicateName, candidate.Name)
		}
	}
	return nil
}

// UniqueSectionName rejects a section whose name is taken within the same grade.
func UniqueSectionName(existing []model.Section, candidate model.Section) error {
	for _, s := range existing {
		if s.GradeLevel == candidate.GradeLevel && s.Name == candidate.Name {
			return fmt.Errorf("%w: section %q in grade %s", ErrDuplicateName, candidate.Name, candidate.GradeLevel)
		}
	}
	return nil
}

var (
	_ repository.Guard[model.Subject] = UniqueSubjectName
	_ repository.Guard[model.Section] = UniqueSectionName
)
