package attendance

import "context"

// AttendanceService - check-in/out and HR marking consumed by the HTTP layer.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
	MarkStatus(ctx context.Context, req MarkStatusRequest) (AttendanceResponse, error)
	ListPeriod(ctx context.Context, employeeID string, month, year int) ([]AttendanceResponse, error)
}
