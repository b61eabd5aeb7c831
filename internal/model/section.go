package model

import "time"

// Section represents a class group within a single grade level.
type Section struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	GradeLevel GradeLevel `json:"grade_level"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s Section) Identity() int { return s.ID }

func (s Section) WithID(id int) Section {
	s.ID = id
	return s
}

func (s Section) MatchesGrade(g GradeLevel) bool {
	return s.GradeLevel == g
}

// SectionPatch carries the fields of a section update; nil fields are left as they are.
type SectionPatch struct {
	Name       *string
	GradeLevel *GradeLevel
}

func (p SectionPatch) Apply(s Section) Section {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.GradeLevel != nil {
		s.GradeLevel = *p.GradeLevel
	}
	return s
}

// CreateSectionRequest is the payload for creating a section.
type CreateSectionRequest struct {
	Name       string     `json:"name" binding:"max=100"`
	GradeLevel GradeLevel `json:"grade_level" binding:"required"`
}

// UpdateSectionRequest is the payload for updating a section.
type UpdateSectionRequest struct {
	Name       *string     `json:"name" binding:"omitempty,max=100"`
	GradeLevel *GradeLevel `json:"grade_level"`
}

func (r UpdateSectionRequest) Patch() SectionPatch {
	return SectionPatch{Name: r.Name, GradeLevel: r.GradeLevel}
}
