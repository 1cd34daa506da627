package salary

import "context"

// StructureRepository - interface for salary_structures and salary_components
// tables. Save replaces the component list wholesale (delete-all, insert-all);
// components are never partially patched.
type StructureRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (SalaryStructure, error)
	Save(ctx context.Context, structure SalaryStructure) (SalaryStructure, error)
}
