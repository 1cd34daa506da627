package payslip

import "context"

// PayslipService - generation and lifecycle consumed by the HTTP layer.
type PayslipService interface {
	Generate(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, error)
	GeneratePayrun(ctx context.Context, req PayrunRequest) (PayrunResponse, error)
	Get(ctx context.Context, id string) (PayslipResponse, error)
	List(ctx context.Context, filter PayslipFilter) (ListPayslipResponse, error)
	Validate(ctx context.Context, id string) (PayslipResponse, error)
	Cancel(ctx context.Context, id string) (PayslipResponse, error)
	Delete(ctx context.Context, id string) error
}
