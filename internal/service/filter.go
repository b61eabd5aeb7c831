package service

import "github.com/stemsi/classgrid-backend/internal/model"

// FilterByGrade returns the records matching the filter in their original order.
// The "all" filter returns records itself.
func FilterByGrade[T model.GradeScoped](records []T, f model.GradeFilter) []T {
	if f.All() {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.MatchesGrade(f.Grade()) {
			out = append(out, r)
		}
	}
	return out
}
