package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputationType enum
type ComputationType string

const (
	ComputationPercentageOfWage  ComputationType = "percentage_of_wage"
	ComputationPercentageOfBasic ComputationType = "percentage_of_basic"
	ComputationFixedAmount       ComputationType = "fixed_amount"
)

// BasicComponentName is special: the component carrying this exact name seeds
// the basic amount that percentage_of_basic components are computed against.
const BasicComponentName = "Basic"

// Statutory defaults applied when a structure is created without overrides.
var (
	DefaultPFRate          = decimal.NewFromInt(12)
	DefaultProfessionalTax = decimal.NewFromInt(200)
)

// SalaryStructure - one per employee, the declarative decomposition of the
// monthly wage into named components.
type SalaryStructure struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Wage            decimal.Decimal
	PFRate          decimal.Decimal
	ProfessionalTax decimal.Decimal
	Components      []SalaryComponent
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SalaryComponent - a single line of a structure. Amount is the value resolved
// at the last save, stored rather than recomputed on read. SortOrder doubles
// as the evaluation order: percentage_of_basic lines must evaluate after
// "Basic" has been resolved.
type SalaryComponent struct {
	ID              string
	StructureID     string
	Name            string
	ComputationType ComputationType
	Value           decimal.Decimal
	Amount          decimal.Decimal
	SortOrder       int
}
