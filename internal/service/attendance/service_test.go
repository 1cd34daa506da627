package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen-hq/workzen-backend-go/internal/domain/attendance"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/employee"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/clock"
)

const testCompanyID = "7d9a41cc-5b77-4c8e-b7a9-444444444444"

func authedContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	tok := jwxjwt.New()
	require.NoError(t, tok.Set("company_id", companyID))
	return jwtauth.NewContext(context.Background(), tok, nil)
}

type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *memEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *memEmployeeRepo) ListActiveWithSalaryStructure(_ context.Context, _ string) ([]employee.Employee, error) {
	return nil, nil
}

type memAttendanceRepo struct {
	records []attendance.Attendance
}

func (r *memAttendanceRepo) GetByEmployeeDate(_ context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	for _, a := range r.records {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *memAttendanceRepo) Upsert(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for i, a := range r.records {
		if a.EmployeeID == att.EmployeeID && a.Date.Equal(att.Date) {
			r.records[i] = att
			return att, nil
		}
	}
	att.ID = "att-1"
	r.records = append(r.records, att)
	return att, nil
}

func (r *memAttendanceRepo) MarkStatus(_ context.Context, employeeID, companyID string, date time.Time, status attendance.Status) error {
	for i, a := range r.records {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			r.records[i].Status = status
			return nil
		}
	}
	r.records = append(r.records, attendance.Attendance{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Date:       date,
		Status:     status,
	})
	return nil
}

func (r *memAttendanceRepo) ListByEmployeeRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID && !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAttendanceRepo) CountByStatus(_ context.Context, employeeID string, start, end time.Time, status attendance.Status) (int, error) {
	count := 0
	for _, a := range r.records {
		if a.EmployeeID == employeeID && a.Status == status && !a.Date.Before(start) && !a.Date.After(end) {
			count++
		}
	}
	return count, nil
}

// adjustableClock lets a test move the current time forward mid-flow.
type adjustableClock struct {
	now time.Time
}

func (c *adjustableClock) Now() time.Time { return c.now }

func newService(clk clock.Clock) (*attendanceService, *memAttendanceRepo) {
	repo := &memAttendanceRepo{}
	svc := &attendanceService{
		attendanceRepo: repo,
		employeeRepo: &memEmployeeRepo{employees: map[string]employee.Employee{
			"emp-1": {ID: "emp-1", CompanyID: testCompanyID, FullName: "Asha Pillai", Email: "asha@example.com", IsActive: true},
		}},
		clock: clk,
	}
	return svc, repo
}

func TestCheckInCheckOut(t *testing.T) {
	clk := &adjustableClock{now: time.Date(2024, time.April, 22, 9, 0, 0, 0, time.UTC)}
	svc, _ := newService(clk)
	ctx := authedContext(t, testCompanyID)

	resp, err := svc.CheckIn(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.True(t, resp.CurrentlyCheckedIn)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
	assert.Equal(t, "2024-04-22", resp.Date)
	require.Len(t, resp.Sessions, 1)
	assert.Nil(t, resp.Sessions[0].CheckOut)

	clk.now = clk.now.Add(8*time.Hour + 30*time.Minute)

	resp, err = svc.CheckOut(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.False(t, resp.CurrentlyCheckedIn)
	require.NotNil(t, resp.Sessions[0].CheckOut)
	assert.True(t, resp.WorkingHours.Equal(decimal.NewFromFloat(8.5)), "hours %s", resp.WorkingHours)
}

func TestCheckIn_TwiceRejected(t *testing.T) {
	clk := &adjustableClock{now: time.Date(2024, time.April, 22, 9, 0, 0, 0, time.UTC)}
	svc, _ := newService(clk)
	ctx := authedContext(t, testCompanyID)

	_, err := svc.CheckIn(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	clk := &adjustableClock{now: time.Date(2024, time.April, 22, 9, 0, 0, 0, time.UTC)}
	svc, _ := newService(clk)
	ctx := authedContext(t, testCompanyID)

	_, err := svc.CheckOut(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestMultipleSessionsSumWorkingHours(t *testing.T) {
	clk := &adjustableClock{now: time.Date(2024, time.April, 22, 9, 0, 0, 0, time.UTC)}
	svc, _ := newService(clk)
	ctx := authedContext(t, testCompanyID)

	_, err := svc.CheckIn(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	clk.now = clk.now.Add(4 * time.Hour)
	_, err = svc.CheckOut(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	clk.now = clk.now.Add(time.Hour)
	_, err = svc.CheckIn(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	clk.now = clk.now.Add(3 * time.Hour)
	resp, err := svc.CheckOut(ctx, attendance.CheckRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	require.Len(t, resp.Sessions, 2)
	assert.True(t, resp.WorkingHours.Equal(decimal.NewFromInt(7)), "hours %s", resp.WorkingHours)
}

func TestMarkStatus(t *testing.T) {
	clk := &adjustableClock{now: time.Date(2024, time.April, 22, 9, 0, 0, 0, time.UTC)}
	svc, repo := newService(clk)
	ctx := authedContext(t, testCompanyID)

	resp, err := svc.MarkStatus(ctx, attendance.MarkStatusRequest{
		EmployeeID: "emp-1",
		Date:       "2024-04-23",
		Status:     string(attendance.StatusAbsent),
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusAbsent), resp.Status)
	assert.Len(t, repo.records, 1)
}

func TestListPeriod_FiltersToMonth(t *testing.T) {
	clk := &adjustableClock{now: time.Date(2024, time.April, 22, 9, 0, 0, 0, time.UTC)}
	svc, repo := newService(clk)
	ctx := authedContext(t, testCompanyID)

	repo.records = []attendance.Attendance{
		{EmployeeID: "emp-1", Date: time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent},
		{EmployeeID: "emp-1", Date: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent},
		{EmployeeID: "emp-1", Date: time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), Status: attendance.StatusAbsent},
		{EmployeeID: "emp-1", Date: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent},
	}

	records, err := svc.ListPeriod(ctx, "emp-1", 4, 2024)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
