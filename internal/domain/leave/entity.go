package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enum
type Type string

const (
	TypePaidTimeOff Type = "paid_time_off"
	TypeSickLeave   Type = "sick_leave"
	TypeUnpaidLeave Type = "unpaid_leave"
)

// IsPaid reports whether days of this type count toward worked days. Every
// type except unpaid_leave is paid.
func (t Type) IsPaid() bool {
	return t != TypeUnpaidLeave
}

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Leave - a request for an inclusive date range. TotalDays is fixed at
// creation from the inclusive day count and never recomputed.
type Leave struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	LeaveType   Type
	StartDate   time.Time
	EndDate     time.Time
	TotalDays   decimal.Decimal
	Reason      *string
	Status      Status
	ApprovedAt  *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Balance - per (employee, leave type, year). RemainingDays is maintained
// incrementally alongside UsedDays, not recomputed.
type Balance struct {
	ID            string
	EmployeeID    string
	LeaveType     Type
	Year          int
	TotalDays     decimal.Decimal
	UsedDays      decimal.Decimal
	RemainingDays decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
