package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// GradeLevel is a school grade between 7 and 12.
type GradeLevel int

const (
	MinGradeLevel GradeLevel = 7
	MaxGradeLevel GradeLevel = 12
)

// ErrInvalidGrade is returned when a value is not a grade level.
var ErrInvalidGrade = errors.New("grade level must be between 7 and 12")

// GradeLevels lists every grade level in ascending order.
func GradeLevels() []GradeLevel {
	out := make([]GradeLevel, 0, MaxGradeLevel-MinGradeLevel+1)
	for g := MinGradeLevel; g <= MaxGradeLevel; g++ {
		out = append(out, g)
	}
	return out
}

// Valid reports whether g is within 7..12.
func (g GradeLevel) Valid() bool {
	return g >= MinGradeLevel && g <= MaxGradeLevel
}

func (g GradeLevel) String() string {
	return strconv.Itoa(int(g))
}

// ParseGradeLevel parses "7".."12".
func ParseGradeLevel(s string) (GradeLevel, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	g := GradeLevel(n)
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGrade, n)
	}
	return g, nil
}

// MarshalJSON renders the grade as a string, the way the admin UI sends it.
func (g GradeLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON accepts "9" as well as 9.
func (g *GradeLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidGrade, string(data))
		}
		raw = strconv.Itoa(n)
	}
	parsed, err := ParseGradeLevel(raw)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// GradeSet is a set of grade levels kept sorted and free of duplicates.
type GradeSet []GradeLevel

// NewGradeSet normalizes grades into a sorted, de-duplicated set.
func NewGradeSet(grades ...GradeLevel) GradeSet {
	out := make(GradeSet, 0, len(grades))
	for _, g := range grades {
		if !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return out
}

// Contains reports set membership.
func (s GradeSet) Contains(g GradeLevel) bool {
	return slices.Contains(s, g)
}

// GradeFilter selects either every record or those matching one grade level.
// The zero value selects everything.
type GradeFilter struct {
	grade GradeLevel
}

// AllGrades is the "all" filter.
var AllGrades = GradeFilter{}

// FilterGrade returns a filter for one grade level.
func FilterGrade(g GradeLevel) GradeFilter {
	return GradeFilter{grade: g}
}

// ParseGradeFilter accepts "all" (or an empty string) and "7".."12".
func ParseGradeFilter(s string) (GradeFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllGrades, nil
	}
	g, err := ParseGradeLevel(s)
	if err != nil {
		return GradeFilter{}, err
	}
	return FilterGrade(g), nil
}

// All reports whether the filter selects every record.
func (f GradeFilter) All() bool {
	return f.grade == 0
}

// Grade returns the filtered grade; meaningless when All is true.
func (f GradeFilter) Grade() GradeLevel {
	return f.grade
}

func (f GradeFilter) String() string {
	if f.All() {
		return "all"
	}
	return f.grade.String()
}

// GradeScoped is implemented by records that can be filtered by grade level.
type GradeScoped interface {
	MatchesGrade(g GradeLevel) bool
}
