package leave

import "context"

// LeaveService - leave lifecycle consumed by the HTTP layer. Approve, Reject
// and Cancel each run as one transaction so balances and attendance marking
// cannot diverge.
type LeaveService interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, leaveID string) (LeaveResponse, error)
	Reject(ctx context.Context, leaveID string) (LeaveResponse, error)
	Cancel(ctx context.Context, leaveID string) (LeaveResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	Balances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}
