package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("employee is already checked in")
	ErrNotCheckedIn       = errors.New("employee has no open check-in")
)
