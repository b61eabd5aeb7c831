package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAuthUnavailable    ErrCode = "AUTH_UNAVAILABLE"
	ErrLoginFailed        ErrCode = "LOGIN_FAILED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrNotImplemented     ErrCode = "NOT_IMPLEMENTED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidID       ErrCode = "INVALID_ID"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrEmptyName       ErrCode = "EMPTY_NAME"
	ErrEmptySelection  ErrCode = "EMPTY_SELECTION"
	ErrInvalidGrade    ErrCode = "INVALID_GRADE"
	ErrInvalidDay      ErrCode = "INVALID_DAY"
	ErrInvalidSlot     ErrCode = "INVALID_SLOT"
	ErrInvalidDuration ErrCode = "INVALID_DURATION"
	ErrEmptyRoom       ErrCode = "EMPTY_ROOM"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrDuplicateName    ErrCode = "DUPLICATE_NAME"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrInvalidReference ErrCode = "INVALID_REFERENCE"

	// ─── Schedule ──────────────────────────────────────────────────────
	ErrSlotConflict ErrCode = "SLOT_CONFLICT"
	ErrTeacherBusy  ErrCode = "TEACHER_BUSY"
	ErrRoomBusy     ErrCode = "ROOM_BUSY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrStorage  ErrCode = "STORAGE_ERROR"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password"
	case ErrAuthUnavailable:
		return "Connection error. Please check your server."
	case ErrLoginFailed:
		return "Login failed. Please try again."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrNotImplemented:
		return "Signup not yet implemented. Please contact administrator."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrEmptyName:
		return "Please enter a name"
	case ErrEmptySelection:
		return "Please select at least one grade level"
	case ErrInvalidGrade:
		return "Grade level must be between 7 and 12."
	case ErrInvalidDay:
		return "Please select a day between Monday and Saturday"
	case ErrInvalidSlot:
		return "Please select a start time between 7:00 and 17:00"
	case ErrInvalidDuration:
		return "Class must end by 17:30"
	case ErrEmptyRoom:
		return "Please enter a room"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrDuplicateName:
		return "A record with this name already exists."
	case ErrDependencyExists:
		return "This record is still used by scheduled classes."
	case ErrInvalidReference:
		return "Please select an existing section, subject and teacher"

	// ─── Schedule ──────────────────────────────────────────────────────
	case ErrSlotConflict:
		return "Time slot already taken"
	case ErrTeacherBusy:
		return "Teacher is already teaching another section at that time"
	case ErrRoomBusy:
		return "Room is already booked at that time"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrStorage:
		return "Changes could not be saved. Please try again."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
