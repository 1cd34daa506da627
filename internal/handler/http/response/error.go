package response

import (
	"errors"
	"net/http"

	"github.com/workzen-hq/workzen-backend-go/internal/domain/attendance"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/employee"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/leave"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/payslip"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/salary"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A payslip lifecycle operation attempted from the wrong state
	var stateErr *payslip.IllegalStateError
	if errors.As(err, &stateErr) {
		Conflict(w, stateErr.Error())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Salary domain errors
	case errors.Is(err, salary.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "Not checked in", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Payslip domain errors
	case errors.Is(err, payslip.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payslip.ErrDuplicatePayslip):
		Conflict(w, "Payslip already exists for this period")
	case errors.Is(err, payslip.ErrMissingSalaryStructure):
		BadRequest(w, "Employee has no salary structure", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
