package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is a school day of the week, Monday to Saturday.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

var schoolDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var (
	ErrInvalidDay  = errors.New("day must be Monday through Saturday")
	ErrInvalidSlot = errors.New("start time must be on the 30-minute grid between 7:00 and 17:00")
)

// Days returns the school days in week order.
func Days() []Day {
	out := make([]Day, len(schoolDays))
	copy(out, schoolDays)
	return out
}

// ParseDay accepts any casing of a school day name ("monday", "MONDAY").
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for _, d := range schoolDays {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// Index returns the position of d in the week (Monday = 0), or -1.
func (d Day) Index() int {
	for i, sd := range schoolDays {
		if sd == d {
			return i
		}
	}
	return -1
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDay, string(data))
	}
	parsed, err := ParseDay(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Slot is a time of day on the schedule grid, stored as minutes after midnight.
type Slot int

const (
	SlotMinutes = 30
	FirstSlot   = Slot(7 * 60)
	LastSlot    = Slot(17 * 60)
	// DayEnd is when the last slot finishes; no class may run past it.
	DayEnd = LastSlot + SlotMinutes
)

// Slots returns every grid slot from 7:00 to 17:00.
func Slots() []Slot {
	out := make([]Slot, 0, int(LastSlot-FirstSlot)/SlotMinutes+1)
	for s := FirstSlot; s <= LastSlot; s += SlotMinutes {
		out = append(out, s)
	}
	return out
}

// ParseSlot parses "8:00", "08:00" or "13:30" and checks it sits on the grid.
func ParseSlot(s string) (Slot, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	slot := Slot(h*60 + m)
	if !slot.OnGrid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return slot, nil
}

// OnGrid reports whether the slot is one of the grid's start times.
func (s Slot) OnGrid() bool {
	return s >= FirstSlot && s <= LastSlot && (s-FirstSlot)%SlotMinutes == 0
}

// Add returns the time of day d minutes after s.
func (s Slot) Add(minutes int) Slot {
	return s + Slot(minutes)
}

// String renders the slot the way the grid labels it: "8:00", "13:30".
func (s Slot) String() string {
	return fmt.Sprintf("%d:%02d", int(s)/60, int(s)%60)
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSlot, string(data))
	}
	parsed, err := ParseSlot(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ScheduledClass is one weekly occurrence of a subject taught to a section.
type ScheduledClass struct {
	ID              int       `json:"id"`
	SectionID       int       `json:"section_id"`
	Day             Day       `json:"day"`
	StartTime       Slot      `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	SubjectID       int       `json:"subject_id"`
	TeacherID       int       `json:"teacher_id"`
	Room            string    `json:"room"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c ScheduledClass) Identity() int { return c.ID }

func (c ScheduledClass) WithID(id int) ScheduledClass {
	c.ID = id
	return c
}

// End returns the time of day the class finishes.
func (c ScheduledClass) End() Slot {
	return c.StartTime.Add(c.DurationMinutes)
}

// Overlaps reports whether both classes share a day and their [start, end) intervals intersect.
func (c ScheduledClass) Overlaps(o ScheduledClass) bool {
	return c.Day == o.Day && c.StartTime < o.End() && o.StartTime < c.End()
}

// Covers reports whether the class is in session during the slot starting at s.
func (c ScheduledClass) Covers(day Day, s Slot) bool {
	return c.Day == day && c.StartTime <= s && s < c.End()
}

// ScheduledClassView is a scheduled class joined with the names it references.
type ScheduledClassView struct {
	ScheduledClass
	EndTime     Slot   `json:"end_time"`
	SubjectName string `json:"subject"`
	TeacherName string `json:"teacher"`
	SectionName string `json:"section"`
}

// ScheduledClassPatch carries the fields of a class update; nil fields are left as they are.
type ScheduledClassPatch struct {
	SectionID       *int
	Day             *Day
	StartTime       *Slot
	DurationMinutes *int
	SubjectID       *int
	TeacherID       *int
	Room            *string
}

func (p ScheduledClassPatch) Apply(c ScheduledClass) ScheduledClass {
	if p.SectionID != nil {
		c.SectionID = *p.SectionID
	}
	if p.Day != nil {
		c.Day = *p.Day
	}
	if p.StartTime != nil {
		c.StartTime = *p.StartTime
	}
	if p.DurationMinutes != nil {
		c.DurationMinutes = *p.DurationMinutes
	}
	if p.SubjectID != nil {
		c.SubjectID = *p.SubjectID
	}
	if p.TeacherID != nil {
		c.TeacherID = *p.TeacherID
	}
	if p.Room != nil {
		c.Room = strings.TrimSpace(*p.Room)
	}
	return c
}

// CreateScheduledClassRequest is the payload of the "Add Class" dialog.
type CreateScheduledClassRequest struct {
	SectionID       int    `json:"section_id" binding:"required,min=1"`
	Day             Day    `json:"day" binding:"required"`
	StartTime       Slot   `json:"start_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=630"`
	SubjectID       int    `json:"subject_id" binding:"required,min=1"`
	TeacherID       int    `json:"teacher_id" binding:"required,min=1"`
	Room            string `json:"room" binding:"required,max=50"`
}

// ToClass converts the request into an unsaved class.
func (r CreateScheduledClassRequest) ToClass() ScheduledClass {
	return ScheduledClass{
		SectionID:       r.SectionID,
		Day:             r.Day,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		SubjectID:       r.SubjectID,
		TeacherID:       r.TeacherID,
		Room:            strings.TrimSpace(r.Room),
	}
}

// UpdateScheduledClassRequest is the payload for moving or editing a class.
type UpdateScheduledClassRequest struct {
	SectionID       *int    `json:"section_id" binding:"omitempty,min=1"`
	Day             *Day    `json:"day"`
	StartTime       *Slot   `json:"start_time"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1,max=630"`
	SubjectID       *int    `json:"subject_id" binding:"omitempty,min=1"`
	TeacherID       *int    `json:"teacher_id" binding:"omitempty,min=1"`
	Room            *string `json:"room" binding:"omitempty,max=50"`
}

func (r UpdateScheduledClassRequest) Patch() ScheduledClassPatch {
	return ScheduledClassPatch{
		SectionID:       r.SectionID,
		Day:             r.Day,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		SubjectID:       r.SubjectID,
		TeacherID:       r.TeacherID,
		Room:            r.Room,
	}
}

// FindAtQuery selects one cell of a section's week.
type FindAtQuery struct {
	Day  string `form:"day" binding:"required,schoolday"`
	Slot string `form:"slot" binding:"required,gridslot"`
}

// Cell parses the query. Call after binding has validated it.
func (q FindAtQuery) Cell() (Day, Slot, error) {
	day, err := ParseDay(q.Day)
	if err != nil {
		return "", 0, err
	}
	slot, err := ParseSlot(q.Slot)
	return day, slot, err
}
