// Package schedule places classes on the weekly day × slot grid.
package schedule

import (
	"errors"
	"fmt"
	"slices"

	"github.com/stemsi/classgrid-backend/internal/model"
)

// ErrSlotConflict is returned when a class would overlap one already on the grid.
var ErrSlotConflict = errors.New("time slot already taken")

// ConflictError reports which class blocked a placement.
type ConflictError struct {
	With model.ScheduledClass
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: class %d on %s %s-%s",
		ErrSlotConflict, e.With.ID, e.With.Day, e.With.StartTime, e.With.End())
}

func (e *ConflictError) Unwrap() error { return ErrSlotConflict }

// FindAt returns the first class whose day and start time equal the query.
// A class that started earlier and is still running is not returned; use Grid.Covering for that.
func FindAt(classes []model.ScheduledClass, day model.Day, slot model.Slot) (model.ScheduledClass, bool) {
	i := slices.IndexFunc(classes, func(c model.ScheduledClass) bool {
		return c.Day == day && c.StartTime == slot
	})
	if i < 0 {
		return model.ScheduledClass{}, false
	}
	return classes[i], true
}

type cell struct {
	day  model.Day
	slot model.Slot
}

// Grid is a week of non-overlapping classes indexed by (day, start slot).
// It is not safe for concurrent use.
type Grid struct {
	starts map[cell]model.ScheduledClass
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{starts: make(map[cell]model.ScheduledClass)}
}

// Build places every class and stops at the first conflict.
func Build(classes []model.ScheduledClass) (*Grid, error) {
	g := NewGrid()
	for _, c := range classes {
		if err := g.Place(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Place adds c unless its [start, end) interval intersects a class already on that day.
// A class replacing itself (same id) does not conflict with its old placement.
// Id 0 means unsaved; such classes never replace one another.
func (g *Grid) Place(c model.ScheduledClass) error {
	if other, ok := g.Conflict(c); ok {
		return &ConflictError{With: other}
	}
	if c.ID != 0 {
		g.Remove(c.ID)
	}
	g.starts[cell{c.Day, c.StartTime}] = c
	return nil
}

// Conflict returns a class on the grid that overlaps c, ignoring c's own id.
func (g *Grid) Conflict(c model.ScheduledClass) (model.ScheduledClass, bool) {
	for _, other := range g.starts {
		if other.ID != 0 && other.ID == c.ID {
			continue
		}
		if other.Overlaps(c) {
			return other, true
		}
	}
	return model.ScheduledClass{}, false
}

// Remove takes the class with the given id off the grid and reports whether it was there.
func (g *Grid) Remove(id int) bool {
	for k, c := range g.starts {
		if c.ID == id {
			delete(g.starts, k)
			return true
		}
	}
	return false
}

// At returns the class starting at the slot.
func (g *Grid) At(day model.Day, slot model.Slot) (model.ScheduledClass, bool) {
	c, ok := g.starts[cell{day, slot}]
	return c, ok
}

// Covering returns the class in session during the slot, whether or not it starts there.
func (g *Grid) Covering(day model.Day, slot model.Slot) (model.ScheduledClass, bool) {
	for _, c := range g.starts {
		if c.Covers(day, slot) {
			return c, true
		}
	}
	return model.ScheduledClass{}, false
}

// Day returns the classes of one day ordered by start time.
func (g *Grid) Day(day model.Day) []model.ScheduledClass {
	var out []model.ScheduledClass
	for _, c := range g.starts {
		if c.Day == day {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b model.ScheduledClass) int { return int(a.StartTime - b.StartTime) })
	return out
}

// Classes returns every class ordered by day, then start time.
func (g *Grid) Classes() []model.ScheduledClass {
	out := make([]model.ScheduledClass, 0, len(g.starts))
	for _, d := range model.Days() {
		out = append(out, g.Day(d)...)
	}
	return out
}

// Len returns the number of classes on the grid.
func (g *Grid) Len() int {
	return len(g.starts)
}
