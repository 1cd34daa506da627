package employee

import "context"

// EmployeeRepository - interface for employees table
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	// ListActiveWithSalaryStructure returns the employees eligible for a
	// payrun: active and owning a salary structure.
	ListActiveWithSalaryStructure(ctx context.Context, companyID string) ([]Employee, error)
}
