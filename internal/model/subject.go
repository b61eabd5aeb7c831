package model

import "time"

// Subject represents an academic subject offered to one or more grade levels.
type Subject struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	GradeLevels GradeSet  `json:"grade_levels"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s Subject) Identity() int { return s.ID }

func (s Subject) WithID(id int) Subject {
	s.ID = id
	return s
}

func (s Subject) MatchesGrade(g GradeLevel) bool {
	return s.GradeLevels.Contains(g)
}

// SubjectPatch carries the fields of a subject update; nil fields are left as they are.
type SubjectPatch struct {
	Name        *string
	GradeLevels *[]GradeLevel
}

// Apply returns s with the patched fields replaced.
func (p SubjectPatch) Apply(s Subject) Subject {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.GradeLevels != nil {
		s.GradeLevels = NewGradeSet(*p.GradeLevels...)
	}
	return s
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name        string       `json:"name" binding:"max=100"`
	GradeLevels []GradeLevel `json:"grade_levels"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	Name        *string       `json:"name" binding:"omitempty,max=100"`
	GradeLevels *[]GradeLevel `json:"grade_levels"`
}

func (r UpdateSubjectRequest) Patch() SubjectPatch {
	return SubjectPatch{Name: r.Name, GradeLevels: r.GradeLevels}
}
