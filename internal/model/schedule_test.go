package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    Slot
		wantErr bool
	}{
		{in: "7:00", want: 420},
		{in: "08:00", want: 480},
		{in: " 13:30 ", want: 810},
		{in: "17:00", want: 1020},
		{in: "17:30", wantErr: true},
		{in: "6:30", wantErr: true},
		{in: "8:15", wantErr: true},
		{in: "8:0", wantErr: true},
		{in: "8", wantErr: true},
		{in: "noon", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSlot(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSlots(t *testing.T) {
	slots := Slots()
	require.Len(t, slots, 21)
	assert.Equal(t, "7:00", slots[0].String())
	assert.Equal(t, "7:30", slots[1].String())
	assert.Equal(t, "17:00", slots[20].String())
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("monday")
	require.NoError(t, err)
	assert.Equal(t, Monday, d)

	d, err = ParseDay("SATURDAY")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Index())

	_, err = ParseDay("Sunday")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestScheduledClass_Interval(t *testing.T) {
	maths := ScheduledClass{Day: Monday, StartTime: 480, DurationMinutes: 90}
	assert.Equal(t, "9:30", maths.End().String())

	assert.True(t, maths.Covers(Monday, 510))
	assert.False(t, maths.Covers(Monday, 570))
	assert.False(t, maths.Covers(Tuesday, 480))

	assert.True(t, maths.Overlaps(ScheduledClass{Day: Monday, StartTime: 510, DurationMinutes: 30}))
	assert.False(t, maths.Overlaps(ScheduledClass{Day: Monday, StartTime: 570, DurationMinutes: 30}))
	assert.False(t, maths.Overlaps(ScheduledClass{Day: Friday, StartTime: 480, DurationMinutes: 30}))
}

func TestCreateScheduledClassRequest_JSON(t *testing.T) {
	var req CreateScheduledClassRequest
	body := `{"section_id":1,"day":"tuesday","start_time":"9:00","duration_minutes":90,"subject_id":4,"teacher_id":3,"room":" Room 105 "}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	c := req.ToClass()
	assert.Equal(t, Tuesday, c.Day)
	assert.Equal(t, Slot(540), c.StartTime)
	assert.Equal(t, "Room 105", c.Room)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"start_time":"9:00"`)

	err = json.Unmarshal([]byte(`{"day":"Funday"}`), &req)
	assert.ErrorIs(t, err, ErrInvalidDay)
}
