package employee

import "time"

// Employee is the slice of the directory the payroll core needs. Full
// directory CRUD lives behind the HTTP layer and is not modeled here.
type Employee struct {
	ID        string
	CompanyID string
	FullName  string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
