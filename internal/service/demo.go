package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stemsi/classgrid-backend/internal/model"
)

// Demo data for a fresh installation: the sample school the admin panel ships with.
func demoTeachers(now time.Time) []model.Teacher {
	return []model.Teacher{
		{Name: "Dr. Smith", Subjects: []string{"Mathematics"}, GradeLevels: model.NewGradeSet(9, 10), CreatedAt: now, UpdatedAt: now},
		{Name: "Prof. Johnson", Subjects: []string{"Physics"}, GradeLevels: model.NewGradeSet(11, 12), CreatedAt: now, UpdatedAt: now},
		{Name: "Ms. Davis", Subjects: []string{"English"}, GradeLevels: model.NewGradeSet(7, 8), CreatedAt: now, UpdatedAt: now},
	}
}

func demoSubjects(now time.Time) []model.Subject {
	return []model.Subject{
		{Name: "Mathematics", GradeLevels: model.NewGradeSet(model.GradeLevels()...), CreatedAt: now, UpdatedAt: now},
		{Name: "Physics", GradeLevels: model.NewGradeSet(9, 10, 11, 12), CreatedAt: now, UpdatedAt: now},
		{Name: "Chemistry", GradeLevels: model.NewGradeSet(9, 10, 11, 12), CreatedAt: now, UpdatedAt: now},
		{Name: "English", GradeLevels: model.NewGradeSet(model.GradeLevels()...), CreatedAt: now, UpdatedAt: now},
		{Name: "Computer Science", GradeLevels: model.NewGradeSet(9, 10, 11, 12), CreatedAt: now, UpdatedAt: now},
	}
}

func demoSections(now time.Time) []model.Section {
	return []model.Section{
		{Name: "Section A", GradeLevel: 7, CreatedAt: now, UpdatedAt: now},
		{Name: "Section B", GradeLevel: 7, CreatedAt: now, UpdatedAt: now},
		{Name: "Section A", GradeLevel: 8, CreatedAt: now, UpdatedAt: now},
		{Name: "Section B", GradeLevel: 8, CreatedAt: now, UpdatedAt: now},
	}
}

// demoClasses is the week of the first section. Ids refer to the lists above.
func demoClasses(now time.Time) []model.ScheduledClass {
	return []model.ScheduledClass{
		{SectionID: 1, Day: model.Monday, StartTime: 8 * 60, DurationMinutes: 90, SubjectID: 1, TeacherID: 1, Room: "Room 101", CreatedAt: now, UpdatedAt: now},
		{SectionID: 1, Day: model.Monday, StartTime: 10 * 60, DurationMinutes: 60, SubjectID: 2, TeacherID: 2, Room: "Lab 201", CreatedAt: now, UpdatedAt: now},
		{SectionID: 1, Day: model.Tuesday, StartTime: 9 * 60, DurationMinutes: 90, SubjectID: 4, TeacherID: 3, Room: "Room 105", CreatedAt: now, UpdatedAt: now},
	}
}

// SeedDemo fills every empty list with the sample school and reports whether anything was added.
// Classes are only seeded together with the lists they reference.
func SeedDemo(ctx context.Context, cat *Catalog) (bool, error) {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	now := time.Now().UTC()
	teachers, err := cat.Teachers.Seed(ctx, demoTeachers(now)...)
	if err != nil {
		return false, fmt.Errorf("seed %s: %w", KindTeachers, err)
	}
	subjects, err := cat.Subjects.Seed(ctx, demoSubjects(now)...)
	if err != nil {
		return false, fmt.Errorf("seed %s: %w", KindSubjects, err)
	}
	sections, err := cat.Sections.Seed(ctx, demoSections(now)...)
	if err != nil {
		return false, fmt.Errorf("seed %s: %w", KindSections, err)
	}

	classes := false
	if teachers && subjects && sections {
		if classes, err = cat.Classes.Seed(ctx, demoClasses(now)...); err != nil {
			return false, fmt.Errorf("seed %s: %w", KindClasses, err)
		}
	}
	return teachers || subjects || sections || classes, nil
}
