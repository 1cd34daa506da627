package payslip

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen-hq/workzen-backend-go/internal/domain/attendance"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/employee"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/leave"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/payslip"
	domainsalary "github.com/workzen-hq/workzen-backend-go/internal/domain/salary"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/clock"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/email"
)

const testCompanyID = "0b2f8f8e-4f1d-4a3f-9a3a-111111111111"

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func authedContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	tok := jwxjwt.New()
	require.NoError(t, tok.Set("company_id", companyID))
	return jwtauth.NewContext(context.Background(), tok, nil)
}

// ========== IN-MEMORY FAKES ==========

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

func (r *memEmployeeRepo) ListActiveWithSalaryStructure(_ context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.CompanyID == companyID && emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type memStructureRepo struct {
	byEmployee map[string]domainsalary.SalaryStructure
}

func (r *memStructureRepo) GetByEmployeeID(_ context.Context, employeeID string, _ string) (domainsalary.SalaryStructure, error) {
	s, ok := r.byEmployee[employeeID]
	if !ok {
		return domainsalary.SalaryStructure{}, domainsalary.ErrStructureNotFound
	}
	return s, nil
}

func (r *memStructureRepo) Save(_ context.Context, s domainsalary.SalaryStructure) (domainsalary.SalaryStructure, error) {
	r.byEmployee[s.EmployeeID] = s
	return s, nil
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

type memLeaveRepo struct {
	leaves []leave.Leave
}

func (r *memLeaveRepo) Create(_ context.Context, l leave.Leave) (leave.Leave, error) {
	r.leaves = append(r.leaves, l)
	return l, nil
}

func (r *memLeaveRepo) GetByID(_ context.Context, id string, companyID string) (leave.Leave, error) {
	for _, l := range r.leaves {
		if l.ID == id && l.CompanyID == companyID {
			return l, nil
		}
	}
	return leave.Leave{}, leave.ErrLeaveNotFound
}

func (r *memLeaveRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.Leave, error) {
	var out []leave.Leave
	for _, l := range r.leaves {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLeaveRepo) ListApprovedOverlapping(_ context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	var out []leave.Leave
	for _, l := range r.leaves {
		if l.EmployeeID == employeeID && l.Status == leave.StatusApproved &&
			!l.StartDate.After(end) && !l.EndDate.Before(start) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLeaveRepo) UpdateStatus(_ context.Context, id string, status leave.Status, at time.Time) error {
	for i, l := range r.leaves {
		if l.ID == id {
			r.leaves[i].Status = status
			return nil
		}
	}
	return leave.ErrLeaveNotFound
}

type memPayslipRepo struct {
	mu       sync.Mutex
	payslips map[string]payslip.Payslip
	seq      int
}

func newMemPayslipRepo() *memPayslipRepo {
	return &memPayslipRepo{payslips: map[string]payslip.Payslip{}}
}

func (r *memPayslipRepo) Create(_ context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.payslips {
		if existing.EmployeeID == p.EmployeeID &&
			existing.PeriodStart.Equal(p.PeriodStart) && existing.PeriodEnd.Equal(p.PeriodEnd) {
			return payslip.Payslip{}, payslip.ErrDuplicatePayslip
		}
	}

	r.seq++
	p.ID = fmt.Sprintf("ps-%d", r.seq)
	r.payslips[p.ID] = p
	return p, nil
}

func (r *memPayslipRepo) GetByID(_ context.Context, id string, companyID string) (payslip.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payslip.Payslip{}, payslip.ErrPayslipNotFound
	}
	return p, nil
}

func (r *memPayslipRepo) List(_ context.Context, companyID string, filter payslip.PayslipFilter) ([]payslip.Payslip, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []payslip.Payslip
	for _, p := range r.payslips {
		if p.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memPayslipRepo) TransitionFromDraft(_ context.Context, id, companyID string, op string, to payslip.Status, at time.Time) (payslip.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payslip.Payslip{}, payslip.ErrPayslipNotFound
	}
	if p.Status != payslip.StatusDraft {
		return payslip.Payslip{}, &payslip.IllegalStateError{Op: op, Current: p.Status}
	}

	p.Status = to
	switch to {
	case payslip.StatusDone:
		p.ValidatedAt = &at
	case payslip.StatusCancelled:
		p.CancelledAt = &at
	}
	r.payslips[id] = p
	return p, nil
}

func (r *memPayslipRepo) DeleteDraft(_ context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payslip.ErrPayslipNotFound
	}
	if p.Status != payslip.StatusDraft {
		return &payslip.IllegalStateError{Op: "delete", Current: p.Status}
	}
	delete(r.payslips, id)
	return nil
}

type memNotifier struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (n *memNotifier) SendMonthlySalarySlip(to, _ string, _ time.Month, _ int, _ email.SlipBreakdown) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp: connection refused")
	}
	n.sent = append(n.sent, to)
	return nil
}

// ========== FIXTURES ==========

type fixture struct {
	service        *payslipService
	employeeRepo   *memEmployeeRepo
	structureRepo  *memStructureRepo
	attendanceRepo *memAttendanceRepo
	leaveRepo      *memLeaveRepo
	payslipRepo    *memPayslipRepo
	notifier       *memNotifier
}

func newFixture() *fixture {
	f := &fixture{
		employeeRepo:   &memEmployeeRepo{employees: map[string]employee.Employee{}},
		structureRepo:  &memStructureRepo{byEmployee: map[string]domainsalary.SalaryStructure{}},
		attendanceRepo: &memAttendanceRepo{},
		leaveRepo:      &memLeaveRepo{},
		payslipRepo:    newMemPayslipRepo(),
		notifier:       &memNotifier{},
	}
	f.service = &payslipService{
		runTx: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
		payslipRepo:    f.payslipRepo,
		structureRepo:  f.structureRepo,
		employeeRepo:   f.employeeRepo,
		attendanceRepo: f.attendanceRepo,
		leaveRepo:      f.leaveRepo,
		notifier:       f.notifier,
		clock:          clock.Fixed(time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)),
	}
	return f
}

func (f *fixture) addEmployee(id, name, emailAddr string) {
	f.employeeRepo.employees[id] = employee.Employee{
		ID:        id,
		CompanyID: testCompanyID,
		FullName:  name,
		Email:     emailAddr,
		IsActive:  true,
	}
}

// addStandardStructure wires 50000 wage, Basic at 50% of wage, HRA at 50% of
// Basic, default PF rate and professional tax.
func (f *fixture) addStandardStructure(employeeID string) {
	f.structureRepo.byEmployee[employeeID] = domainsalary.SalaryStructure{
		ID:              "struct-" + employeeID,
		EmployeeID:      employeeID,
		CompanyID:       testCompanyID,
		Wage:            dec("50000"),
		PFRate:          dec("12"),
		ProfessionalTax: dec("200"),
		Components: []domainsalary.SalaryComponent{
			{Name: "Basic", ComputationType: domainsalary.ComputationPercentageOfWage, Value: dec("50"), SortOrder: 1},
			{Name: "HRA", ComputationType: domainsalary.ComputationPercentageOfBasic, Value: dec("50"), SortOrder: 2},
		},
	}
}

// markPresent records n present days starting April 1 2024, skipping Sundays.
func (f *fixture) markPresent(employeeID string, n int) {
	d := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	for n > 0 {
		if d.Weekday() != time.Sunday {
			f.attendanceRepo.records = append(f.attendanceRepo.records, attendance.Attendance{
				EmployeeID: employeeID,
				CompanyID:  testCompanyID,
				Date:       d,
				Status:     attendance.StatusPresent,
			})
			n--
		}
		d = d.AddDate(0, 0, 1)
	}
}

// ========== GENERATION ==========

func TestGenerate_FullAttendance(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 26) // April 2024 has 26 working days

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)

	assert.Equal(t, 26, resp.WorkingDays)
	assert.True(t, resp.WorkedDays.Equal(dec("26")))
	assert.True(t, resp.BasicWage.Equal(dec("25000")), "basic %s", resp.BasicWage)
	assert.True(t, resp.GrossWage.Equal(dec("37500")), "gross %s", resp.GrossWage)
	assert.True(t, resp.TotalDeductions.Equal(dec("3200")), "deductions %s", resp.TotalDeductions)
	assert.True(t, resp.NetWage.Equal(dec("34300")), "net %s", resp.NetWage)
	assert.True(t, resp.EmployeeCost.Equal(resp.GrossWage))
	assert.Equal(t, string(payslip.StatusDraft), resp.Status)
	assert.Equal(t, "2024-04-01", resp.PeriodStart)
	assert.Equal(t, "2024-04-30", resp.PeriodEnd)

	require.Len(t, resp.Components, 4)
	assert.Equal(t, "Basic", resp.Components[0].Name)
	assert.True(t, resp.Components[0].Amount.Equal(dec("25000")))
	assert.Equal(t, "HRA", resp.Components[1].Name)
	assert.True(t, resp.Components[1].Amount.Equal(dec("12500")))
	assert.Equal(t, payslip.DeductionProvidentFund, resp.Components[2].Name)
	assert.True(t, resp.Components[2].Amount.Equal(dec("3000")))
	assert.True(t, resp.Components[2].IsDeduction)
	assert.Equal(t, payslip.DeductionProfessionalTax, resp.Components[3].Name)
	assert.True(t, resp.Components[3].Amount.Equal(dec("200")))
}

func TestGenerate_HalfAttendanceProratesEverything(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 13)

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)

	assert.True(t, resp.WorkedDays.Equal(dec("13")))
	assert.True(t, resp.BasicWage.Equal(dec("12500")), "basic %s", resp.BasicWage)
	assert.True(t, resp.GrossWage.Equal(dec("18750")), "gross %s", resp.GrossWage)
	// PF follows the prorated basic; professional tax stays flat.
	assert.True(t, resp.TotalDeductions.Equal(dec("1700")), "deductions %s", resp.TotalDeductions)
	assert.True(t, resp.NetWage.Equal(dec("17050")), "net %s", resp.NetWage)
}

func TestGenerate_ZeroWorkedDays(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)

	assert.True(t, resp.GrossWage.IsZero())
	// No worked days means no professional tax either.
	assert.True(t, resp.TotalDeductions.IsZero())
	assert.True(t, resp.NetWage.IsZero())
}

func TestGenerate_PaidLeaveCountsAsWorked(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 20)
	f.leaveRepo.leaves = append(f.leaveRepo.leaves, leave.Leave{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		CompanyID:  testCompanyID,
		LeaveType:  leave.TypePaidTimeOff,
		StartDate:  time.Date(2024, time.April, 24, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC),
		TotalDays:  dec("3"),
		Status:     leave.StatusApproved,
	})

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)

	assert.True(t, resp.WorkedDays.Equal(dec("23")), "worked %s", resp.WorkedDays)
	assert.True(t, resp.PaidLeaveDays.Equal(dec("3")))
	assert.True(t, resp.UnpaidLeaveDays.IsZero())
}

func TestGenerate_UnpaidLeaveDoesNotCount(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 20)
	f.leaveRepo.leaves = append(f.leaveRepo.leaves, leave.Leave{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		CompanyID:  testCompanyID,
		LeaveType:  leave.TypeUnpaidLeave,
		StartDate:  time.Date(2024, time.April, 24, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC),
		TotalDays:  dec("3"),
		Status:     leave.StatusApproved,
	})

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)

	assert.True(t, resp.WorkedDays.Equal(dec("20")))
	assert.True(t, resp.UnpaidLeaveDays.Equal(dec("3")))
}

func TestGenerate_HalfDaysDoNotCountAsWorked(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 10)
	f.attendanceRepo.records = append(f.attendanceRepo.records, attendance.Attendance{
		EmployeeID: "emp-1",
		CompanyID:  testCompanyID,
		Date:       time.Date(2024, time.April, 29, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusHalfDay,
	})

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)

	// Only present days count toward workedDays; a half_day row contributes
	// nothing to proration.
	assert.True(t, resp.WorkedDays.Equal(dec("10")), "worked %s", resp.WorkedDays)
}

func TestGenerate_BoundaryCrossingLeaveCountedInFull(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 26)
	// Leave runs Apr 28 - May 2. Its full 5 days land in April's paid bucket;
	// days are never clipped to the period window, so workedDays exceeds the
	// month's 26 working days and proration runs at 31/26.
	f.leaveRepo.leaves = append(f.leaveRepo.leaves, leave.Leave{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		CompanyID:  testCompanyID,
		LeaveType:  leave.TypePaidTimeOff,
		StartDate:  time.Date(2024, time.April, 28, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		TotalDays:  dec("5"),
		Status:     leave.StatusApproved,
	})

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)

	assert.True(t, resp.WorkedDays.Equal(dec("31")), "worked %s", resp.WorkedDays)
	assert.True(t, resp.PaidLeaveDays.Equal(dec("5")))
	assert.Equal(t, 26, resp.WorkingDays)
	// 25000/26*31 and 12500/26*31, each rounded on write.
	assert.True(t, resp.BasicWage.Equal(dec("29807.69")), "basic %s", resp.BasicWage)
	assert.True(t, resp.GrossWage.Equal(dec("44711.54")), "gross %s", resp.GrossWage)
	assert.True(t, resp.TotalDeductions.Equal(dec("3776.92")), "deductions %s", resp.TotalDeductions)
	assert.True(t, resp.NetWage.Equal(dec("40934.62")), "net %s", resp.NetWage)
}

func TestGenerate_DuplicatePeriodRejected(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 26)

	ctx := authedContext(t, testCompanyID)
	req := payslip.GeneratePayslipRequest{EmployeeID: "emp-1", Month: 4, Year: 2024}

	_, err := f.service.Generate(ctx, req)
	require.NoError(t, err)

	_, err = f.service.Generate(ctx, req)
	assert.ErrorIs(t, err, payslip.ErrDuplicatePayslip)
}

func TestGenerate_MissingStructure(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")

	ctx := authedContext(t, testCompanyID)
	_, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	assert.ErrorIs(t, err, payslip.ErrMissingSalaryStructure)
}

func TestGenerate_InvalidMonth(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)

	_, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 13, Year: 2024,
	})
	assert.Error(t, err)
}

// ========== PAYRUN ==========

func TestGeneratePayrun_PartialFailure(t *testing.T) {
	f := newFixture()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 26)
	// emp-2 is active but lost its structure between listing and generation.
	f.addEmployee("emp-2", "Ravi Narayan", "ravi@example.com")

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.GeneratePayrun(ctx, payslip.PayrunRequest{Month: 4, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Payslips, 1)
	assert.Equal(t, "emp-1", resp.Payslips[0].EmployeeID)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "emp-2", resp.Errors[0].EmployeeID)
	assert.Contains(t, resp.Errors[0].Reason, "salary structure")
}

func TestGeneratePayrun_AllSucceed(t *testing.T) {
	f := newFixture()
	for _, id := range []string{"emp-1", "emp-2", "emp-3"} {
		f.addEmployee(id, "Employee "+id, id+"@example.com")
		f.addStandardStructure(id)
		f.markPresent(id, 26)
	}

	ctx := authedContext(t, testCompanyID)
	resp, err := f.service.GeneratePayrun(ctx, payslip.PayrunRequest{Month: 4, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Empty(t, resp.Errors)
}

// ========== LIFECYCLE ==========

func generateDraft(t *testing.T, f *fixture, ctx context.Context) payslip.PayslipResponse {
	t.Helper()
	f.addEmployee("emp-1", "Asha Pillai", "asha@example.com")
	f.addStandardStructure("emp-1")
	f.markPresent("emp-1", 26)

	resp, err := f.service.Generate(ctx, payslip.GeneratePayslipRequest{
		EmployeeID: "emp-1", Month: 4, Year: 2024,
	})
	require.NoError(t, err)
	return resp
}

func TestValidate_DraftBecomesDone(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	resp, err := f.service.Validate(ctx, draft.ID)
	require.NoError(t, err)

	assert.Equal(t, string(payslip.StatusDone), resp.Status)
	require.NotNil(t, resp.ValidatedAt)
	assert.Equal(t, []string{"asha@example.com"}, f.notifier.sent)
}

func TestValidate_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.notifier.fail = true
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	resp, err := f.service.Validate(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payslip.StatusDone), resp.Status)
}

func TestValidate_AlreadyDone(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	_, err := f.service.Validate(ctx, draft.ID)
	require.NoError(t, err)

	_, err = f.service.Validate(ctx, draft.ID)
	var stateErr *payslip.IllegalStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, payslip.StatusDone, stateErr.Current)
	assert.Contains(t, err.Error(), "already done")
}

func TestCancel_DraftBecomesCancelled(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	resp, err := f.service.Cancel(ctx, draft.ID)
	require.NoError(t, err)

	assert.Equal(t, string(payslip.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledAt)
	assert.Empty(t, f.notifier.sent, "cancelling must not notify")
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	_, err := f.service.Cancel(ctx, draft.ID)
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, draft.ID)
	var stateErr *payslip.IllegalStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, payslip.StatusCancelled, stateErr.Current)
}

func TestDelete_OnlyDraft(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	require.NoError(t, f.service.Delete(ctx, draft.ID))

	_, err := f.service.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, payslip.ErrPayslipNotFound)
}

func TestDelete_DoneRejected(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	_, err := f.service.Validate(ctx, draft.ID)
	require.NoError(t, err)

	err = f.service.Delete(ctx, draft.ID)
	var stateErr *payslip.IllegalStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, payslip.StatusDone, stateErr.Current)
}

func TestGet_WrongCompany(t *testing.T) {
	f := newFixture()
	ctx := authedContext(t, testCompanyID)
	draft := generateDraft(t, f, ctx)

	otherCtx := authedContext(t, "0b2f8f8e-4f1d-4a3f-9a3a-222222222222")
	_, err := f.service.Get(otherCtx, draft.ID)
	assert.ErrorIs(t, err, payslip.ErrPayslipNotFound)
}
