package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/leave"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const balanceColumns = `
	id, employee_id, leave_type, year, total_days, used_days, remaining_days,
	created_at, updated_at
`

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveType, &b.Year, &b.TotalDays, &b.UsedDays, &b.RemainingDays,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *leaveBalanceRepository) GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
	`

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, leaveType, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, nil
}

func (r *leaveBalanceRepository) ApplyUsage(ctx context.Context, id string, delta decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $1,
			remaining_days = remaining_days - $1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, delta, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrBalanceNotFound
		}
		return fmt.Errorf("failed to apply leave usage: %w", err)
	}

	return nil
}
