package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// Deduction lines are appended with fixed high sort orders so they always
// render after the earning lines, which carry their source component's order.
const (
	SortOrderProvidentFund   = 100
	SortOrderProfessionalTax = 101
)

const (
	DeductionProvidentFund   = "Provident Fund"
	DeductionProfessionalTax = "Professional Tax"
)

// Payslip - one per employee per period, unique on (employee_id,
// period_start, period_end). Components are a snapshot taken at generation
// and never regenerated in place.
type Payslip struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	WorkingDays     int
	WorkedDays      decimal.Decimal
	PaidLeaveDays   decimal.Decimal
	UnpaidLeaveDays decimal.Decimal
	BasicWage       decimal.Decimal
	GrossWage       decimal.Decimal
	TotalDeductions decimal.Decimal
	NetWage         decimal.Decimal
	EmployeeCost    decimal.Decimal
	Status          Status
	ValidatedAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Components []Component

	// Joined fields
	EmployeeName  *string
	EmployeeEmail *string
}

// Component - one payslip line. RatePercent is informational (the source
// percentage for percentage components, the PF rate for the PF deduction).
type Component struct {
	ID          string
	PayslipID   string
	Name        string
	RatePercent decimal.Decimal
	Amount      decimal.Decimal
	IsDeduction bool
	SortOrder   int
}
