package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
	"github.com/stemsi/classgrid-backend/internal/schedule"
)

// GridCell is one day of one slot row.
type GridCell struct {
	Day   model.Day                 `json:"day"`
	Class *model.ScheduledClassView `json:"class,omitempty"`
	// Continues is set when a class that started in an earlier slot is still running.
	Continues bool `json:"continues,omitempty"`
}

// GridRow is one 30-minute slot across the week.
type GridRow struct {
	Slot  model.Slot `json:"slot"`
	Cells []GridCell `json:"cells"`
}

// WeekView is the timetable of one section.
type WeekView struct {
	Section model.Section                            `json:"section"`
	Days    []model.Day                              `json:"days"`
	Rows    []GridRow                                `json:"rows"`
	ByDay   map[model.Day][]model.ScheduledClassView `json:"by_day"`
}

// ScheduleMeta describes the grid axes.
type ScheduleMeta struct {
	Days        []model.Day  `json:"days"`
	Slots       []model.Slot `json:"slots"`
	SlotMinutes int          `json:"slot_minutes"`
	DayEnd      model.Slot   `json:"day_end"`
}

// ScheduleService places classes on section timetables.
type ScheduleService struct {
	cat *Catalog
	n   notifier
}

func NewScheduleService(cat *Catalog, sink notify.Sink, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{cat: cat, n: newNotifier(sink, log, "schedule_service")}
}

func (s *ScheduleService) Meta() ScheduleMeta {
	return ScheduleMeta{
		Days:        model.Days(),
		Slots:       model.Slots(),
		SlotMinutes: model.SlotMinutes,
		DayEnd:      model.DayEnd,
	}
}

// Week renders the timetable of a section.
func (s *ScheduleService) Week(sectionID int) (*WeekView, error) {
	sec, ok := s.cat.Sections.Get(sectionID)
	if !ok {
		return nil, fmt.Errorf("%w: section %d", ErrNotFound, sectionID)
	}
	grid, err := s.sectionGrid(sectionID)
	if err != nil {
		return nil, err
	}

	view := &WeekView{
		Section: sec,
		Days:    model.Days(),
		ByDay:   make(map[model.Day][]model.ScheduledClassView, len(model.Days())),
	}
	for _, d := range view.Days {
		views := []model.ScheduledClassView{}
		for _, c := range grid.Day(d) {
			views = append(views, s.cat.View(c))
		}
		view.ByDay[d] = views
	}
	for _, slot := range model.Slots() {
		row := GridRow{Slot: slot, Cells: make([]GridCell, 0, len(view.Days))}
		for _, d := range view.Days {
			cell := GridCell{Day: d}
			if c, ok := grid.At(d, slot); ok {
				v := s.cat.View(c)
				cell.Class = &v
			} else if _, ok := grid.Covering(d, slot); ok {
				cell.Continues = true
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}

// FindAt returns the class of a section that starts exactly at day and slot.
func (s *ScheduleService) FindAt(sectionID int, day model.Day, slot model.Slot) (model.ScheduledClassView, bool, error) {
	if _, ok := s.cat.Sections.Get(sectionID); !ok {
		return model.ScheduledClassView{}, false, fmt.Errorf("%w: section %d", ErrNotFound, sectionID)
	}
	classes := s.cat.classesWhere(func(c model.ScheduledClass) bool { return c.SectionID == sectionID })
	c, ok := schedule.FindAt(classes, day, slot)
	if !ok {
		return model.ScheduledClassView{}, false, nil
	}
	return s.cat.View(c), true, nil
}

// Get returns one class with its names joined.
func (s *ScheduleService) Get(id int) (model.ScheduledClassView, error) {
	c, ok := s.cat.Classes.Get(id)
	if !ok {
		return model.ScheduledClassView{}, fmt.Errorf("%w: class %d", ErrNotFound, id)
	}
	return s.cat.View(c), nil
}

// Add validates and places a new class.
func (s *ScheduleService) Add(ctx context.Context, req model.CreateScheduledClassRequest) (model.ScheduledClassView, error) {
	now := time.Now().UTC()
	candidate := req.ToClass()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	if err := s.check(candidate); err != nil {
		s.n.failure(ctx, err, s.Explain(err, "Failed to add class"))
		return model.ScheduledClassView{}, err
	}

	c, err := s.cat.Classes.Add(ctx, candidate)
	if err != nil {
		s.n.failure(ctx, err, "Failed to add class")
		return model.ScheduledClassView{}, err
	}

	s.n.log.Info().Int("id", c.ID).Int("section_id", c.SectionID).
		Str("day", string(c.Day)).Stringer("start", c.StartTime).Msg("class placed")
	s.n.success(ctx, "Class added successfully!")
	return s.cat.View(c), nil
}

// Update moves or edits a class. The result must pass the same checks as a new class.
func (s *ScheduleService) Update(ctx context.Context, id int, patch model.ScheduledClassPatch) (model.ScheduledClassView, error) {
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()

	current, ok := s.cat.Classes.Get(id)
	if !ok {
		err := fmt.Errorf("%w: class %d", ErrNotFound, id)
		s.n.failure(ctx, err, "Class not found")
		return model.ScheduledClassView{}, err
	}
	candidate := patch.Apply(current)
	if err := s.check(candidate); err != nil {
		s.n.failure(ctx, err, s.Explain(err, "Failed to update class"))
		return model.ScheduledClassView{}, err
	}

	c, err := s.cat.Classes.Update(ctx, id, func(model.ScheduledClass) model.ScheduledClass {
		candidate.UpdatedAt = time.Now().UTC()
		return candidate
	})
	if err != nil {
		s.n.failure(ctx, err, s.Explain(err, "Failed to update class"))
		return model.ScheduledClassView{}, err
	}

	s.n.success(ctx, "Class updated successfully!")
	return s.cat.View(c), nil
}

func (s *ScheduleService) Remove(ctx context.Context, id int) error {
	s.cat.mu.Lock()
	defer s.cat.mu.Unlock()
	if _, err := s.cat.Classes.Remove(ctx, id); err != nil {
		s.n.failure(ctx, err, s.Explain(err, "Failed to remove class"))
		return err
	}
	s.n.success(ctx, "Class removed")
	return nil
}

// check validates c against the catalog. Must hold s.cat.mu.
func (s *ScheduleService) check(c model.ScheduledClass) error {
	if c.Day.Index() < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidDay, c.Day)
	}
	if !c.StartTime.OnGrid() {
		return fmt.Errorf("%w: %s", ErrInvalidSlot, c.StartTime)
	}
	if c.DurationMinutes <= 0 || c.End() > model.DayEnd {
		return fmt.Errorf("%w: %d minutes from %s", ErrInvalidDuration, c.DurationMinutes, c.StartTime)
	}
	if strings.TrimSpace(c.Room) == "" {
		return ErrEmptyRoom
	}
	if _, ok := s.cat.Sections.Get(c.SectionID); !ok {
		return fmt.Errorf("%w: section %d", ErrUnknownReference, c.SectionID)
	}
	if _, ok := s.cat.Subjects.Get(c.SubjectID); !ok {
		return fmt.Errorf("%w: subject %d", ErrUnknownReference, c.SubjectID)
	}
	if _, ok := s.cat.Teachers.Get(c.TeacherID); !ok {
		return fmt.Errorf("%w: teacher %d", ErrUnknownReference, c.TeacherID)
	}

	grid, err := s.sectionGrid(c.SectionID)
	if err != nil {
		return err
	}
	if err := grid.Place(c); err != nil {
		return err
	}

	for _, other := range s.cat.Classes.List() {
		if other.ID == c.ID || other.SectionID == c.SectionID || !other.Overlaps(c) {
			continue
		}
		if other.TeacherID == c.TeacherID {
			return fmt.Errorf("%w: class %d", ErrTeacherBusy, other.ID)
		}
		if strings.EqualFold(other.Room, c.Room) {
			return fmt.Errorf("%w: class %d", ErrRoomBusy, other.ID)
		}
	}
	return nil
}

func (s *ScheduleService) sectionGrid(sectionID int) (*schedule.Grid, error) {
	return schedule.Build(s.cat.classesWhere(func(c model.ScheduledClass) bool { return c.SectionID == sectionID }))
}

// Explain turns a placement error into the message shown to the admin.
func (s *ScheduleService) Explain(err error, fallback string) string {
	var conflict *schedule.ConflictError
	switch {
	case errors.As(err, &conflict):
		v := s.cat.View(conflict.With)
		return fmt.Sprintf("Time slot already taken by %s (%s-%s)", v.SubjectName, v.StartTime, v.EndTime)
	case errors.Is(err, ErrTeacherBusy):
		return "Teacher is already teaching another section at that time"
	case errors.Is(err, ErrRoomBusy):
		return "Room is already booked at that time"
	case errors.Is(err, ErrInvalidDay):
		return "Please select a day between Monday and Saturday"
	case errors.Is(err, ErrInvalidSlot):
		return "Please select a start time between 7:00 and 17:00"
	case errors.Is(err, ErrInvalidDuration):
		return "Class must end by 17:30"
	case errors.Is(err, ErrEmptyRoom):
		return "Please enter a room"
	case errors.Is(err, ErrUnknownReference):
		return "Please select an existing section, subject and teacher"
	case errors.Is(err, ErrNotFound):
		return "Class not found"
	default:
		return fallback
	}
}
