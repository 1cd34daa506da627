package salary

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/salary"
)

var hundred = decimal.NewFromInt(100)

// ResolveComponentAmount computes the monetary amount of a single component.
// percentage_of_basic is resolved against whatever basic amount the caller has
// accumulated so far, so a component ordered before "Basic" sees zero.
func ResolveComponentAmount(c salary.SalaryComponent, wage, basicAmount decimal.Decimal) decimal.Decimal {
	switch c.ComputationType {
	case salary.ComputationPercentageOfWage:
		return wage.Mul(c.Value).Div(hundred)
	case salary.ComputationPercentageOfBasic:
		return basicAmount.Mul(c.Value).Div(hundred)
	case salary.ComputationFixedAmount:
		return c.Value
	default:
		return decimal.Zero
	}
}

// ResolveAllComponents evaluates components in sort order, threading the
// resolved "Basic" amount into later percentage_of_basic lines. Amounts are
// rounded to 2 decimal places as they are resolved.
func ResolveAllComponents(components []salary.SalaryComponent, wage decimal.Decimal) []salary.SalaryComponent {
	resolved := make([]salary.SalaryComponent, len(components))
	copy(resolved, components)
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].SortOrder < resolved[j].SortOrder
	})

	basicAmount := decimal.Zero
	for i := range resolved {
		amount := ResolveComponentAmount(resolved[i], wage, basicAmount).Round(2)
		resolved[i].Amount = amount
		if resolved[i].Name == salary.BasicComponentName {
			basicAmount = amount
		}
	}

	return resolved
}

// ValidateComponentsTotal reports whether the resolved component amounts sum
// to no more than the wage.
func ValidateComponentsTotal(components []salary.SalaryComponent, wage decimal.Decimal) bool {
	total := decimal.Zero
	for _, c := range components {
		total = total.Add(c.Amount)
	}
	return total.LessThanOrEqual(wage.Round(2))
}

// CalculateProvidentFund computes the employee PF contribution on the basic
// wage earned in the period.
func CalculateProvidentFund(basicWage, pfRate decimal.Decimal) decimal.Decimal {
	return basicWage.Mul(pfRate).Div(hundred).Round(2)
}

// Prorate scales a full-period amount by workedDays out of workingDays.
func Prorate(fullAmount decimal.Decimal, workedDays decimal.Decimal, workingDays int) decimal.Decimal {
	if workingDays <= 0 {
		return decimal.Zero
	}
	return fullAmount.Div(decimal.NewFromInt(int64(workingDays))).Mul(workedDays).Round(2)
}
