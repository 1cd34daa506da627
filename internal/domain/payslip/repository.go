package payslip

import (
	"context"
	"time"
)

// PayslipRepository - interface for payslips and payslip_components tables.
//
// Create inserts the payslip and its component rows; callers wrap it in a
// transaction so the pair lands atomically. The (employee_id, period_start,
// period_end) unique constraint is the idempotency guard: a violation maps to
// ErrDuplicatePayslip.
//
// TransitionFromDraft is a conditional update (WHERE status = 'draft'); when
// the row exists in another state it returns *IllegalStateError carrying that
// state.
type PayslipRepository interface {
	Create(ctx context.Context, p Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string, companyID string) (Payslip, error)
	List(ctx context.Context, companyID string, filter PayslipFilter) ([]Payslip, int64, error)
	TransitionFromDraft(ctx context.Context, id, companyID string, op string, to Status, at time.Time) (Payslip, error)
	DeleteDraft(ctx context.Context, id string, companyID string) error
}
