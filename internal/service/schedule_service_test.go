package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
)

func at(t *testing.T, s string) model.Slot {
	t.Helper()
	v, err := model.ParseSlot(s)
	require.NoError(t, err)
	return v
}

func TestScheduleService_Meta(t *testing.T) {
	svc := NewScheduleService(NewMemoryCatalog(), nil, nop)
	meta := svc.Meta()

	assert.Len(t, meta.Days, 6)
	require.Len(t, meta.Slots, 21)
	assert.Equal(t, "7:00", meta.Slots[0].String())
	assert.Equal(t, "17:00", meta.Slots[20].String())
	assert.Equal(t, "17:30", meta.DayEnd.String())
	assert.Equal(t, 30, meta.SlotMinutes)
}

func TestScheduleService_Week(t *testing.T) {
	cat, _ := demoCatalog(t)
	svc := NewScheduleService(cat, nil, nop)

	week, err := svc.Week(1)
	require.NoError(t, err)
	assert.Equal(t, "Section A", week.Section.Name)
	require.Len(t, week.Rows, 21)
	assert.Len(t, week.ByDay[model.Monday], 2)
	assert.Empty(t, week.ByDay[model.Saturday])

	// Rows start at 7:00, so 8:00 is row 2. Monday is column 0.
	start := week.Rows[2].Cells[0]
	require.NotNil(t, start.Class)
	assert.Equal(t, "Mathematics", start.Class.SubjectName)
	assert.Equal(t, "Dr. Smith", start.Class.TeacherName)
	assert.Equal(t, "9:30", start.Class.EndTime.String())

	running := week.Rows[3].Cells[0]
	assert.Nil(t, running.Class)
	assert.True(t, running.Continues)

	free := week.Rows[5].Cells[0]
	assert.Nil(t, free.Class)
	assert.False(t, free.Continues)

	_, err = svc.Week(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleService_FindAt(t *testing.T) {
	cat, _ := demoCatalog(t)
	svc := NewScheduleService(cat, nil, nop)

	got, ok, err := svc.FindAt(1, model.Monday, at(t, "8:00"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Mathematics", got.SubjectName)
	assert.Equal(t, "Room 101", got.Room)

	_, ok, err = svc.FindAt(1, model.Monday, at(t, "8:30"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Other sections have empty weeks.
	_, ok, err = svc.FindAt(2, model.Monday, at(t, "8:00"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.FindAt(99, model.Monday, at(t, "8:00"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleService_AddRejects(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewScheduleService(cat, rec, nop)
	ctx := context.Background()

	base := func(mod func(*model.CreateScheduledClassRequest)) model.CreateScheduledClassRequest {
		req := model.CreateScheduledClassRequest{
			SectionID: 2, Day: model.Wednesday, StartTime: at(t, "8:00"), DurationMinutes: 60,
			SubjectID: 3, TeacherID: 3, Room: "Room 110",
		}
		mod(&req)
		return req
	}

	tests := []struct {
		name    string
		req     model.CreateScheduledClassRequest
		wantErr error
		wantMsg string
	}{
		{
			name: "overlaps section class",
			req: base(func(r *model.CreateScheduledClassRequest) {
				r.SectionID, r.Day, r.StartTime = 1, model.Monday, at(t, "8:30")
			}),
			wantErr: ErrSlotConflict,
			wantMsg: "Time slot already taken by Mathematics (8:00-9:30)",
		},
		{
			name: "teacher busy in another section",
			req: base(func(r *model.CreateScheduledClassRequest) {
				r.Day, r.StartTime, r.TeacherID = model.Monday, at(t, "9:00"), 1
			}),
			wantErr: ErrTeacherBusy,
			wantMsg: "Teacher is already teaching another section at that time",
		},
		{
			name: "room busy",
			req: base(func(r *model.CreateScheduledClassRequest) {
				r.Day, r.Room = model.Monday, "room 101"
			}),
			wantErr: ErrRoomBusy,
			wantMsg: "Room is already booked at that time",
		},
		{
			name:    "runs past the day",
			req:     base(func(r *model.CreateScheduledClassRequest) { r.StartTime = at(t, "17:00") }),
			wantErr: ErrInvalidDuration,
			wantMsg: "Class must end by 17:30",
		},
		{
			name:    "off grid",
			req:     base(func(r *model.CreateScheduledClassRequest) { r.StartTime = 8*60 + 15 }),
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "sunday",
			req:     base(func(r *model.CreateScheduledClassRequest) { r.Day = "Sunday" }),
			wantErr: ErrInvalidDay,
		},
		{
			name:    "blank room",
			req:     base(func(r *model.CreateScheduledClassRequest) { r.Room = "  " }),
			wantErr: ErrEmptyRoom,
			wantMsg: "Please enter a room",
		},
		{
			name:    "unknown subject",
			req:     base(func(r *model.CreateScheduledClassRequest) { r.SubjectID = 99 }),
			wantErr: ErrUnknownReference,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.req)
			require.ErrorIs(t, err, tc.wantErr)
			n := lastNote(t, rec)
			assert.Equal(t, notify.KindError, n.Kind)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, n.Message)
			}
		})
	}
	assert.Equal(t, 3, cat.Classes.Len())
}

func TestScheduleService_AddUpdateRemove(t *testing.T) {
	cat, rec := demoCatalog(t)
	svc := NewScheduleService(cat, rec, nop)
	ctx := context.Background()

	// Ends exactly at 17:30.
	last, err := svc.Add(ctx, model.CreateScheduledClassRequest{
		SectionID: 1, Day: model.Friday, StartTime: at(t, "17:00"), DurationMinutes: 30,
		SubjectID: 5, TeacherID: 1, Room: " Lab 301 ",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, last.ID)
	assert.Equal(t, "Lab 301", last.Room)
	assert.Equal(t, "Computer Science", last.SubjectName)
	assert.Equal(t, "Class added successfully!", lastNote(t, rec).Message)

	// Back to back with Mathematics, which ends at 9:30.
	_, err = svc.Add(ctx, model.CreateScheduledClassRequest{
		SectionID: 1, Day: model.Monday, StartTime: at(t, "9:30"), DurationMinutes: 30,
		SubjectID: 3, TeacherID: 3, Room: "Room 101",
	})
	require.NoError(t, err)

	// Moving a class onto its own old placement is fine.
	moved, err := svc.Update(ctx, 3, model.ScheduledClassPatch{StartTime: ptr(at(t, "9:30"))})
	require.NoError(t, err)
	assert.Equal(t, "9:30", moved.StartTime.String())
	assert.Equal(t, "11:00", moved.EndTime.String())

	// Stretching Monday 10:00 back into the 9:30 class is not.
	_, err = svc.Update(ctx, 2, model.ScheduledClassPatch{StartTime: ptr(at(t, "9:00"))})
	assert.ErrorIs(t, err, ErrSlotConflict)
	unchanged, err := svc.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "10:00", unchanged.StartTime.String())

	_, err = svc.Update(ctx, 42, model.ScheduledClassPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Remove(ctx, 4))
	assert.Equal(t, "Class removed", lastNote(t, rec).Message)
	assert.ErrorIs(t, svc.Remove(ctx, 4), ErrNotFound)

	// A new class never reuses the removed id.
	again, err := svc.Add(ctx, model.CreateScheduledClassRequest{
		SectionID: 2, Day: model.Saturday, StartTime: at(t, "7:00"), DurationMinutes: 90,
		SubjectID: 4, TeacherID: 3, Room: "Room 105",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, again.ID)
}

func TestScheduleService_RenameShowsInViews(t *testing.T) {
	cat, _ := demoCatalog(t)
	sched := NewScheduleService(cat, nil, nop)
	subjects := NewSubjectService(cat, nil, nop)

	_, err := subjects.Update(context.Background(), 1, model.SubjectPatch{Name: ptr("Algebra")})
	require.NoError(t, err)

	got, ok, err := sched.FindAt(1, model.Monday, at(t, "8:00"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Algebra", got.SubjectName)
}
