package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveRepository - interface for leaves table
type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string, companyID string) (Leave, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	// ListApprovedOverlapping returns approved leaves whose [start_date,
	// end_date] interval overlaps [start, end].
	ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]Leave, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
}

// BalanceRepository - interface for leave_balances table. ApplyUsage adjusts
// used_days by delta and remaining_days by -delta in one statement.
type BalanceRepository interface {
	GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveType Type, year int) (Balance, error)
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]Balance, error)
	ApplyUsage(ctx context.Context, id string, delta decimal.Decimal) error
}
