package salary

import "context"

// SalaryService - structure management consumed by the HTTP layer.
type SalaryService interface {
	SaveStructure(ctx context.Context, req SaveStructureRequest) (StructureResponse, error)
	GetStructure(ctx context.Context, employeeID string) (StructureResponse, error)
}
