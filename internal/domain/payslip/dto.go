package payslip

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
)

// ========== GENERATION DTOs ==========

type GeneratePayslipRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"` // 1-12 on the public boundary
	Year       int    `json:"year"`
}

func (r *GeneratePayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrunRequest struct {
	Month int `json:"month"` // 1-12 on the public boundary
	Year  int `json:"year"`
}

func (r *PayrunRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSES ==========

type ComponentResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	RatePercent decimal.Decimal `json:"rate_percent"`
	Amount      decimal.Decimal `json:"amount"`
	IsDeduction bool            `json:"is_deduction"`
	SortOrder   int             `json:"sort_order"`
}

type PayslipResponse struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employee_id"`
	EmployeeName    string              `json:"employee_name,omitempty"`
	PeriodStart     string              `json:"period_start"`
	PeriodEnd       string              `json:"period_end"`
	WorkingDays     int                 `json:"working_days"`
	WorkedDays      decimal.Decimal     `json:"worked_days"`
	PaidLeaveDays   decimal.Decimal     `json:"paid_leave_days"`
	UnpaidLeaveDays decimal.Decimal     `json:"unpaid_leave_days"`
	BasicWage       decimal.Decimal     `json:"basic_wage"`
	GrossWage       decimal.Decimal     `json:"gross_wage"`
	TotalDeductions decimal.Decimal     `json:"total_deductions"`
	NetWage         decimal.Decimal     `json:"net_wage"`
	EmployeeCost    decimal.Decimal     `json:"employee_cost"`
	Status          string              `json:"status"`
	ValidatedAt     *time.Time          `json:"validated_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	Components      []ComponentResponse `json:"components"`
}

// PayrunError reports one employee's failure inside a batch payrun.
type PayrunError struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// PayrunResponse - partial success is data, not an overall failure.
type PayrunResponse struct {
	Payslips []PayslipResponse `json:"payslips"`
	Total    int               `json:"total"`
	Errors   []PayrunError     `json:"errors,omitempty"`
}

// ========== LISTING ==========

type PayslipFilter struct {
	Month      *int
	Year       *int
	Status     *string
	EmployeeID *string
	Page       int
	Limit      int
}

type ListPayslipResponse struct {
	Data       []PayslipResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
