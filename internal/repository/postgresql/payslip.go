package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/payslip"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
)

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payslip.PayslipRepository {
	return &payslipRepository{db: db}
}

const payslipColumns = `
	p.id, p.employee_id, p.company_id, p.period_start, p.period_end,
	p.working_days, p.worked_days, p.paid_leave_days, p.unpaid_leave_days,
	p.basic_wage, p.gross_wage, p.total_deductions, p.net_wage, p.employee_cost,
	p.status, p.validated_at, p.cancelled_at, p.created_at, p.updated_at
`

func scanPayslip(row pgx.Row) (payslip.Payslip, error) {
	var p payslip.Payslip
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.CompanyID, &p.PeriodStart, &p.PeriodEnd,
		&p.WorkingDays, &p.WorkedDays, &p.PaidLeaveDays, &p.UnpaidLeaveDays,
		&p.BasicWage, &p.GrossWage, &p.TotalDeductions, &p.NetWage, &p.EmployeeCost,
		&p.Status, &p.ValidatedAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payslipRepository) Create(ctx context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslips (
			id, employee_id, company_id, period_start, period_end,
			working_days, worked_days, paid_leave_days, unpaid_leave_days,
			basic_wage, gross_wage, total_deductions, net_wage, employee_cost,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + payslipColumns + `
	`

	created, err := scanPayslip(q.QueryRow(ctx, query,
		uuid.NewString(), p.EmployeeID, p.CompanyID, p.PeriodStart, p.PeriodEnd,
		p.WorkingDays, p.WorkedDays, p.PaidLeaveDays, p.UnpaidLeaveDays,
		p.BasicWage, p.GrossWage, p.TotalDeductions, p.NetWage, p.EmployeeCost,
		p.Status,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payslip_employee_period") {
			return payslip.Payslip{}, payslip.ErrDuplicatePayslip
		}
		return payslip.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	componentQuery := `
		INSERT INTO payslip_components (
			id, payslip_id, name, rate_percent, amount, is_deduction, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, c := range p.Components {
		c.ID = uuid.NewString()
		c.PayslipID = created.ID
		if _, err := q.Exec(ctx, componentQuery,
			c.ID, c.PayslipID, c.Name, c.RatePercent, c.Amount, c.IsDeduction, c.SortOrder,
		); err != nil {
			return payslip.Payslip{}, fmt.Errorf("failed to create payslip component: %w", err)
		}
		created.Components = append(created.Components, c)
	}

	return created, nil
}

func (r *payslipRepository) GetByID(ctx context.Context, id string, companyID string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `, e.full_name, e.email
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1 AND p.company_id = $2
	`

	var p payslip.Payslip
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&p.ID, &p.EmployeeID, &p.CompanyID, &p.PeriodStart, &p.PeriodEnd,
		&p.WorkingDays, &p.WorkedDays, &p.PaidLeaveDays, &p.UnpaidLeaveDays,
		&p.BasicWage, &p.GrossWage, &p.TotalDeductions, &p.NetWage, &p.EmployeeCost,
		&p.Status, &p.ValidatedAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	components, err := r.componentsByPayslipID(ctx, q, p.ID)
	if err != nil {
		return payslip.Payslip{}, err
	}
	p.Components = components

	return p, nil
}

func (r *payslipRepository) componentsByPayslipID(ctx context.Context, q database.Querier, payslipID string) ([]payslip.Component, error) {
	query := `
		SELECT id, payslip_id, name, rate_percent, amount, is_deduction, sort_order
		FROM payslip_components
		WHERE payslip_id = $1
		ORDER BY sort_order
	`

	rows, err := q.Query(ctx, query, payslipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip components: %w", err)
	}
	defer rows.Close()

	var components []payslip.Component
	for rows.Next() {
		var c payslip.Component
		if err := rows.Scan(&c.ID, &c.PayslipID, &c.Name, &c.RatePercent, &c.Amount, &c.IsDeduction, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan payslip component: %w", err)
		}
		components = append(components, c)
	}

	return components, nil
}

func (r *payslipRepository) List(ctx context.Context, companyID string, filter payslip.PayslipFilter) ([]payslip.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.company_id = $1"}
	args := []interface{}{companyID}
	argPos := 2

	if filter.Month != nil && filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM p.period_start) = $%d AND EXTRACT(YEAR FROM p.period_start) = $%d", argPos, argPos+1))
		args = append(args, *filter.Month, *filter.Year)
		argPos += 2
	} else if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM p.period_start) = $%d", argPos))
		args = append(args, *filter.Year)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM payslips p WHERE ` + where
	var totalCount int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `
		SELECT ` + payslipColumns + `, e.full_name, e.email
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE ` + where + `
		ORDER BY p.period_start DESC, e.full_name
		LIMIT $` + fmt.Sprint(argPos) + ` OFFSET $` + fmt.Sprint(argPos+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payslip.Payslip
	for rows.Next() {
		var p payslip.Payslip
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.CompanyID, &p.PeriodStart, &p.PeriodEnd,
			&p.WorkingDays, &p.WorkedDays, &p.PaidLeaveDays, &p.UnpaidLeaveDays,
			&p.BasicWage, &p.GrossWage, &p.TotalDeductions, &p.NetWage, &p.EmployeeCost,
			&p.Status, &p.ValidatedAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
			&p.EmployeeName, &p.EmployeeEmail,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}

	return payslips, totalCount, nil
}

func (r *payslipRepository) TransitionFromDraft(ctx context.Context, id, companyID string, op string, to payslip.Status, at time.Time) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	var stampColumn string
	switch to {
	case payslip.StatusDone:
		stampColumn = "validated_at"
	case payslip.StatusCancelled:
		stampColumn = "cancelled_at"
	default:
		return payslip.Payslip{}, fmt.Errorf("invalid payslip transition target: %s", to)
	}

	query := fmt.Sprintf(`
		UPDATE payslips p
		SET status = $1, %s = $2, updated_at = NOW()
		WHERE p.id = $3 AND p.company_id = $4 AND p.status = $5
		RETURNING `+payslipColumns+`
	`, stampColumn)

	p, err := scanPayslip(q.QueryRow(ctx, query, to, at, id, companyID, payslip.StatusDraft))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payslip.Payslip{}, r.draftGuardError(ctx, q, id, companyID, op)
		}
		return payslip.Payslip{}, fmt.Errorf("failed to transition payslip: %w", err)
	}

	components, err := r.componentsByPayslipID(ctx, q, p.ID)
	if err != nil {
		return payslip.Payslip{}, err
	}
	p.Components = components

	return p, nil
}

func (r *payslipRepository) DeleteDraft(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM payslips
		WHERE id = $1 AND company_id = $2 AND status = $3
		RETURNING id
	`

	var deletedID string
	if err := q.QueryRow(ctx, query, id, companyID, payslip.StatusDraft).Scan(&deletedID); err != nil {
		if err == pgx.ErrNoRows {
			return r.draftGuardError(ctx, q, id, companyID, "delete")
		}
		return fmt.Errorf("failed to delete payslip: %w", err)
	}

	return nil
}

// draftGuardError distinguishes "no such payslip" from "exists but not draft"
// after a conditional statement matched no rows.
func (r *payslipRepository) draftGuardError(ctx context.Context, q database.Querier, id, companyID, op string) error {
	var current payslip.Status
	err := q.QueryRow(ctx, `SELECT status FROM payslips WHERE id = $1 AND company_id = $2`, id, companyID).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payslip.ErrPayslipNotFound
		}
		return fmt.Errorf("failed to check payslip status: %w", err)
	}
	return &payslip.IllegalStateError{Op: op, Current: current}
}
