package leave

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
)

var leaveTypes = []string{
	string(TypePaidTimeOff),
	string(TypeSickLeave),
	string(TypeUnpaidLeave),
}

type ApplyLeaveRequest struct {
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsInSlice(r.LeaveType, leaveTypes) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "must be one of paid_time_off, sick_leave, unpaid_leave"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	LeaveType   string          `json:"leave_type"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalDays   decimal.Decimal `json:"total_days"`
	Reason      *string         `json:"reason,omitempty"`
	Status      string          `json:"status"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

type BalanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	LeaveType     string          `json:"leave_type"`
	Year          int             `json:"year"`
	TotalDays     decimal.Decimal `json:"total_days"`
	UsedDays      decimal.Decimal `json:"used_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
}
