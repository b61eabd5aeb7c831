package service

import (
	"errors"

	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
	"github.com/stemsi/classgrid-backend/internal/schedule"
)

// Validation errors returned by the entity services.
var (
	ErrEmptyName      = errors.New("name must not be empty")
	ErrDuplicateName  = errors.New("name already in use")
	ErrEmptySelection = errors.New("at least one grade level must be selected")
	ErrInvalidGrade   = model.ErrInvalidGrade
	ErrNotFound       = repository.ErrNotFound
	ErrInUse          = errors.New("still referenced by scheduled classes")
)

// Schedule errors.
var (
	ErrInvalidDay       = model.ErrInvalidDay
	ErrInvalidSlot      = model.ErrInvalidSlot
	ErrInvalidDuration  = errors.New("class must last at least one minute and end by 17:30")
	ErrEmptyRoom        = errors.New("room must not be empty")
	ErrUnknownReference = errors.New("referenced record does not exist")
	ErrSlotConflict     = schedule.ErrSlotConflict
	ErrTeacherBusy      = errors.New("teacher is already teaching at that time")
	ErrRoomBusy         = errors.New("room is already booked at that time")
)

// ErrUnknownSetting is returned when a settings update names a key the application does not use.
var ErrUnknownSetting = errors.New("unknown setting")

var expected = []error{
	ErrEmptyName, ErrDuplicateName, ErrEmptySelection, ErrInvalidGrade, ErrNotFound, ErrInUse,
	ErrInvalidDay, ErrInvalidSlot, ErrInvalidDuration, ErrEmptyRoom, ErrUnknownReference,
	ErrSlotConflict, ErrTeacherBusy, ErrRoomBusy,
	ErrInvalidCredentials, ErrUnknownSetting,
}

// isUnexpected reports whether err is anything other than a rejected request.
func isUnexpected(err error) bool {
	for _, e := range expected {
		if errors.Is(err, e) {
			return false
		}
	}
	return true
}
