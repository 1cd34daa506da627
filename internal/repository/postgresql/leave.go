package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/leave"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `
	id, employee_id, company_id, leave_type, start_date, end_date, total_days,
	reason, status, approved_at, cancelled_at, created_at, updated_at
`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.CompanyID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.TotalDays,
		&l.Reason, &l.Status, &l.ApprovedAt, &l.CancelledAt, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *leaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (
			id, employee_id, company_id, leave_type, start_date, end_date,
			total_days, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + leaveColumns + `
	`

	created, err := scanLeave(q.QueryRow(ctx, query,
		uuid.NewString(), l.EmployeeID, l.CompanyID, l.LeaveType, l.StartDate, l.EndDate,
		l.TotalDays, l.Reason, l.Status,
	))
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}

	return created, nil
}

func (r *leaveRepository) GetByID(ctx context.Context, id string, companyID string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leaves
		WHERE id = $1 AND company_id = $2
	`

	l, err := scanLeave(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave: %w", err)
	}

	return l, nil
}

func (r *leaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leaves
		WHERE employee_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}

	return leaves, nil
}

func (r *leaveRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	// Overlap test: leave.start <= period.end AND leave.end >= period.start.
	query := `
		SELECT ` + leaveColumns + `
		FROM leaves
		WHERE employee_id = $1 AND status = $2
			AND start_date <= $3 AND end_date >= $4
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.StatusApproved, end, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}

	return leaves, nil
}

func (r *leaveRepository) UpdateStatus(ctx context.Context, id string, status leave.Status, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	var stampColumn string
	switch status {
	case leave.StatusApproved:
		stampColumn = "approved_at"
	case leave.StatusCancelled:
		stampColumn = "cancelled_at"
	}

	query := `UPDATE leaves SET status = $1, updated_at = NOW()`
	args := []interface{}{status, id}
	if stampColumn != "" {
		query += fmt.Sprintf(", %s = $3", stampColumn)
		args = append(args, at)
	}
	query += ` WHERE id = $2 RETURNING id`

	var updatedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrLeaveNotFound
		}
		return fmt.Errorf("failed to update leave status: %w", err)
	}

	return nil
}
