package model

import (
	"slices"
	"strings"
	"time"
)

// Teacher is a staff member who can be scheduled to teach.
type Teacher struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Subjects    []string  `json:"subjects"`
	GradeLevels GradeSet  `json:"grade_levels"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t Teacher) Identity() int { return t.ID }

func (t Teacher) WithID(id int) Teacher {
	t.ID = id
	return t
}

func (t Teacher) MatchesGrade(g GradeLevel) bool {
	return t.GradeLevels.Contains(g)
}

// TeacherPatch carries the fields of a teacher update; nil fields are left as they are.
type TeacherPatch struct {
	Name        *string
	Subjects    *[]string
	GradeLevels *[]GradeLevel
}

// Apply returns t with the patched fields replaced.
func (p TeacherPatch) Apply(t Teacher) Teacher {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Subjects != nil {
		t.Subjects = NormalizeLabels(*p.Subjects)
	}
	if p.GradeLevels != nil {
		t.GradeLevels = NewGradeSet(*p.GradeLevels...)
	}
	return t
}

// NormalizeLabels trims labels, drops blanks and duplicates, and keeps first-seen order.
func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || slices.Contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// CreateTeacherRequest is the payload for adding a teacher.
// The admin panel only asks for a name; subjects and grades are assigned on edit.
type CreateTeacherRequest struct {
	Name        string       `json:"name" binding:"max=100"`
	Subjects    []string     `json:"subjects" binding:"omitempty,dive,max=100"`
	GradeLevels []GradeLevel `json:"grade_levels"`
}

// UpdateTeacherRequest is the payload for editing a teacher. Absent fields are untouched.
type UpdateTeacherRequest struct {
	Name        *string       `json:"name" binding:"omitempty,max=100"`
	Subjects    *[]string     `json:"subjects"`
	GradeLevels *[]GradeLevel `json:"grade_levels"`
}

// Patch converts the request into a TeacherPatch.
func (r UpdateTeacherRequest) Patch() TeacherPatch {
	return TeacherPatch{Name: r.Name, Subjects: r.Subjects, GradeLevels: r.GradeLevels}
}
