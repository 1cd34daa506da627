package payslip

import (
	"errors"
	"fmt"
)

var (
	ErrPayslipNotFound        = errors.New("payslip not found")
	ErrDuplicatePayslip       = errors.New("payslip already exists for this period")
	ErrMissingSalaryStructure = errors.New("employee has no salary structure")
)

// IllegalStateError rejects a lifecycle operation attempted from a state other
// than draft. The message always names the payslip's current state.
type IllegalStateError struct {
	Op      string
	Current Status
}

func (e *IllegalStateError) Error() string {
	switch e.Current {
	case StatusDone:
		return fmt.Sprintf("cannot %s payslip: already done", e.Op)
	case StatusCancelled:
		return fmt.Sprintf("cannot %s payslip: already cancelled", e.Op)
	default:
		return fmt.Sprintf("cannot %s payslip in state %s: operation allowed only from draft", e.Op, e.Current)
	}
}
