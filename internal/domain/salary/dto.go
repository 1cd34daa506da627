package salary

import (
	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
)

// ========== STRUCTURE DTOs ==========

type ComponentInput struct {
	Name            string          `json:"name"`
	ComputationType string          `json:"computation_type"`
	Value           decimal.Decimal `json:"value"`
	SortOrder       int             `json:"sort_order"`
}

type SaveStructureRequest struct {
	EmployeeID      string           `json:"-"`
	Wage            decimal.Decimal  `json:"wage"`
	PFRate          *decimal.Decimal `json:"pf_rate,omitempty"`
	ProfessionalTax *decimal.Decimal `json:"professional_tax,omitempty"`
	Components      []ComponentInput `json:"components"`
}

var computationTypes = []string{
	string(ComputationPercentageOfWage),
	string(ComputationPercentageOfBasic),
	string(ComputationFixedAmount),
}

func (r *SaveStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Wage.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "wage", Message: "must be positive"})
	}
	if r.PFRate != nil && (r.PFRate.IsNegative() || r.PFRate.GreaterThan(decimal.NewFromInt(100))) {
		errs = append(errs, validator.ValidationError{Field: "pf_rate", Message: "must be between 0 and 100"})
	}
	if r.ProfessionalTax != nil && r.ProfessionalTax.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "professional_tax", Message: "must be non-negative"})
	}

	for i, c := range r.Components {
		field := "components[" + validator.Itoa(i) + "]"
		if validator.IsEmpty(c.Name) {
			errs = append(errs, validator.ValidationError{Field: field + ".name", Message: "is required"})
		}
		if !validator.IsInSlice(c.ComputationType, computationTypes) {
			errs = append(errs, validator.ValidationError{Field: field + ".computation_type", Message: "must be one of percentage_of_wage, percentage_of_basic, fixed_amount"})
		}
		if c.Value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field + ".value", Message: "must be non-negative"})
		}
		if c.ComputationType != string(ComputationFixedAmount) && c.Value.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, validator.ValidationError{Field: field + ".value", Message: "percentage must not exceed 100"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComponentResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ComputationType string          `json:"computation_type"`
	Value           decimal.Decimal `json:"value"`
	Amount          decimal.Decimal `json:"amount"`
	SortOrder       int             `json:"sort_order"`
}

type StructureResponse struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employee_id"`
	Wage            decimal.Decimal     `json:"wage"`
	PFRate          decimal.Decimal     `json:"pf_rate"`
	ProfessionalTax decimal.Decimal     `json:"professional_tax"`
	Components      []ComponentResponse `json:"components"`
}
