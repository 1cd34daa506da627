package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/attendance"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, company_id, date, status, currently_checked_in,
	sessions, check_in, check_out, working_hours, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.Status, &a.CurrentlyCheckedIn,
		&a.Sessions, &a.CheckIn, &a.CheckOut, &a.WorkingHours, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return a, nil
}

func (r *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date, status, currently_checked_in,
			sessions, check_in, check_out, working_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			currently_checked_in = EXCLUDED.currently_checked_in,
			sessions = EXCLUDED.sessions,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			working_hours = EXCLUDED.working_hours,
			updated_at = NOW()
		RETURNING ` + attendanceColumns + `
	`

	a, err := scanAttendance(q.QueryRow(ctx, query,
		uuid.NewString(), att.EmployeeID, att.CompanyID, att.Date, att.Status, att.CurrentlyCheckedIn,
		att.Sessions, att.CheckIn, att.CheckOut, att.WorkingHours,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return a, nil
}

func (r *attendanceRepository) MarkStatus(ctx context.Context, employeeID, companyID string, date time.Time, status attendance.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, company_id, date, status, sessions, working_hours)
		VALUES ($1, $2, $3, $4, $5, '[]', 0)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, uuid.NewString(), employeeID, companyID, date, status); err != nil {
		return fmt.Errorf("failed to mark attendance status: %w", err)
	}

	return nil
}

func (r *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, a)
	}

	return result, nil
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, employeeID string, start, end time.Time, status attendance.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3 AND status = $4
	`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, start, end, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	return count, nil
}
