package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
)

type CheckRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

var statuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusOnLeave),
	string(StatusHalfDay),
}

type MarkStatusRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

func (r *MarkStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if !validator.IsInSlice(r.Status, statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of present, absent, on_leave, half_day"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionResponse struct {
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out,omitempty"`
}

type AttendanceResponse struct {
	ID                 string            `json:"id"`
	EmployeeID         string            `json:"employee_id"`
	Date               string            `json:"date"`
	Status             string            `json:"status"`
	CurrentlyCheckedIn bool              `json:"currently_checked_in"`
	Sessions           []SessionResponse `json:"sessions"`
	CheckIn            *time.Time        `json:"check_in,omitempty"`
	CheckOut           *time.Time        `json:"check_out,omitempty"`
	WorkingHours       decimal.Decimal   `json:"working_hours"`
}
