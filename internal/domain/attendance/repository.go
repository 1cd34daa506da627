package attendance

import (
	"context"
	"time"
)

// AttendanceRepository - interface for attendances table. Upsert keys on the
// (employee_id, date) unique constraint.
type AttendanceRepository interface {
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	Upsert(ctx context.Context, att Attendance) (Attendance, error)
	// MarkStatus force-sets the day's status, creating the row if absent.
	// Used by manual HR marking and by leave approval stamping on_leave.
	MarkStatus(ctx context.Context, employeeID, companyID string, date time.Time, status Status) error
	ListByEmployeeRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	CountByStatus(ctx context.Context, employeeID string, start, end time.Time, status Status) (int, error)
}
