package payslip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/workzen-hq/workzen-backend-go/internal/domain/attendance"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/employee"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/leave"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/payslip"
	domainsalary "github.com/workzen-hq/workzen-backend-go/internal/domain/salary"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/clock"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/email"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/jwt"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/period"
	"github.com/workzen-hq/workzen-backend-go/internal/repository/postgresql"
	"github.com/workzen-hq/workzen-backend-go/internal/service/salary"
)

// payrunConcurrency caps the per-employee generation fan-out.
const payrunConcurrency = 8

type payslipService struct {
	db             *database.DB
	runTx          func(ctx context.Context, fn func(context.Context) error) error
	payslipRepo    payslip.PayslipRepository
	structureRepo  domainsalary.StructureRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRepository
	notifier       email.Notifier
	clock          clock.Clock
}

func NewPayslipService(
	db *database.DB,
	payslipRepo payslip.PayslipRepository,
	structureRepo domainsalary.StructureRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	notifier email.Notifier,
	clk clock.Clock,
) payslip.PayslipService {
	return &payslipService{
		db:             db,
		payslipRepo:    payslipRepo,
		structureRepo:  structureRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		notifier:       notifier,
		clock:          clk,
	}
}

func (s *payslipService) inTx(ctx context.Context, fn func(context.Context) error) error {
	if s.runTx != nil {
		return s.runTx(ctx, fn)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// periodTotals is the attendance and leave summary a payslip is computed from.
type periodTotals struct {
	workedDays      decimal.Decimal
	paidLeaveDays   decimal.Decimal
	unpaidLeaveDays decimal.Decimal
}

// aggregatePeriod sums present days and the paid approved leave days into
// workedDays. A leave span crossing the period boundary contributes its full
// total; it is never clipped to the overlap window, so workedDays can exceed
// the month's working days in that case.
func (s *payslipService) aggregatePeriod(ctx context.Context, employeeID string, start, end time.Time) (periodTotals, error) {
	presentDays, err := s.attendanceRepo.CountByStatus(ctx, employeeID, start, end, attendance.StatusPresent)
	if err != nil {
		return periodTotals{}, err
	}

	leaves, err := s.leaveRepo.ListApprovedOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return periodTotals{}, err
	}

	totals := periodTotals{
		paidLeaveDays:   decimal.Zero,
		unpaidLeaveDays: decimal.Zero,
	}
	for _, l := range leaves {
		if l.LeaveType.IsPaid() {
			totals.paidLeaveDays = totals.paidLeaveDays.Add(l.TotalDays)
		} else {
			totals.unpaidLeaveDays = totals.unpaidLeaveDays.Add(l.TotalDays)
		}
	}

	totals.workedDays = decimal.NewFromInt(int64(presentDays)).Add(totals.paidLeaveDays)

	return totals, nil
}

func (s *payslipService) Generate(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payslip.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	month := time.Month(req.Month)
	workingDays := period.WorkingDaysInMonth(req.Year, month, period.DefaultRestDay)

	p, err := s.generateForEmployee(ctx, emp, companyID, req.Year, month, workingDays)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	return toPayslipResponse(p), nil
}

// generateForEmployee computes and persists one draft payslip. workingDays is
// passed in so a payrun computes the calendar once for the whole batch.
func (s *payslipService) generateForEmployee(ctx context.Context, emp employee.Employee, companyID string, year int, month time.Month, workingDays int) (payslip.Payslip, error) {
	structure, err := s.structureRepo.GetByEmployeeID(ctx, emp.ID, companyID)
	if err != nil {
		if errors.Is(err, domainsalary.ErrStructureNotFound) {
			return payslip.Payslip{}, payslip.ErrMissingSalaryStructure
		}
		return payslip.Payslip{}, err
	}

	start, end := period.MonthRange(year, month)

	totals, err := s.aggregatePeriod(ctx, emp.ID, start, end)
	if err != nil {
		return payslip.Payslip{}, err
	}

	resolved := salary.ResolveAllComponents(structure.Components, structure.Wage)

	basicWage := decimal.Zero
	grossWage := decimal.Zero
	components := make([]payslip.Component, 0, len(resolved)+2)
	for _, c := range resolved {
		earned := salary.Prorate(c.Amount, totals.workedDays, workingDays)
		if c.Name == domainsalary.BasicComponentName {
			basicWage = earned
		}
		grossWage = grossWage.Add(earned)

		rate := decimal.Zero
		if c.ComputationType != domainsalary.ComputationFixedAmount {
			rate = c.Value
		}
		components = append(components, payslip.Component{
			Name:        c.Name,
			RatePercent: rate,
			Amount:      earned,
			IsDeduction: false,
			SortOrder:   c.SortOrder,
		})
	}

	// PF is levied on the basic wage actually earned; professional tax is a
	// flat monthly charge owed whenever any day was worked.
	pf := salary.CalculateProvidentFund(basicWage, structure.PFRate)
	profTax := decimal.Zero
	if totals.workedDays.IsPositive() {
		profTax = structure.ProfessionalTax.Round(2)
	}

	components = append(components,
		payslip.Component{
			Name:        payslip.DeductionProvidentFund,
			RatePercent: structure.PFRate,
			Amount:      pf,
			IsDeduction: true,
			SortOrder:   payslip.SortOrderProvidentFund,
		},
		payslip.Component{
			Name:        payslip.DeductionProfessionalTax,
			RatePercent: decimal.Zero,
			Amount:      profTax,
			IsDeduction: true,
			SortOrder:   payslip.SortOrderProfessionalTax,
		},
	)

	totalDeductions := pf.Add(profTax)

	draft := payslip.Payslip{
		EmployeeID:      emp.ID,
		CompanyID:       companyID,
		PeriodStart:     start,
		PeriodEnd:       end,
		WorkingDays:     workingDays,
		WorkedDays:      totals.workedDays,
		PaidLeaveDays:   totals.paidLeaveDays,
		UnpaidLeaveDays: totals.unpaidLeaveDays,
		BasicWage:       basicWage,
		GrossWage:       grossWage.Round(2),
		TotalDeductions: totalDeductions.Round(2),
		NetWage:         grossWage.Sub(totalDeductions).Round(2),
		EmployeeCost:    grossWage.Round(2),
		Status:          payslip.StatusDraft,
		Components:      components,
	}

	var created payslip.Payslip
	err = s.inTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.payslipRepo.Create(txCtx, draft)
		return txErr
	})
	if err != nil {
		if errors.Is(err, payslip.ErrDuplicatePayslip) {
			return payslip.Payslip{}, payslip.ErrDuplicatePayslip
		}
		return payslip.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	created.EmployeeName = &emp.FullName
	created.EmployeeEmail = &emp.Email

	return created, nil
}

func (s *payslipService) GeneratePayrun(ctx context.Context, req payslip.PayrunRequest) (payslip.PayrunResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayrunResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payslip.PayrunResponse{}, err
	}

	employees, err := s.employeeRepo.ListActiveWithSalaryStructure(ctx, companyID)
	if err != nil {
		return payslip.PayrunResponse{}, err
	}

	month := time.Month(req.Month)
	workingDays := period.WorkingDaysInMonth(req.Year, month, period.DefaultRestDay)

	var (
		mu        sync.Mutex
		generated []payslip.PayslipResponse
		failures  []payslip.PayrunError
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(payrunConcurrency)
	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			p, err := s.generateForEmployee(gCtx, emp, companyID, req.Year, month, workingDays)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One employee failing never aborts the batch.
				failures = append(failures, payslip.PayrunError{
					EmployeeID: emp.ID,
					Reason:     err.Error(),
				})
				return nil
			}
			generated = append(generated, toPayslipResponse(p))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payslip.PayrunResponse{}, err
	}

	return payslip.PayrunResponse{
		Payslips: generated,
		Total:    len(generated),
		Errors:   failures,
	}, nil
}

func (s *payslipService) Get(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	p, err := s.payslipRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	return toPayslipResponse(p), nil
}

func (s *payslipService) List(ctx context.Context, filter payslip.PayslipFilter) (payslip.ListPayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.ListPayslipResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	payslips, totalCount, err := s.payslipRepo.List(ctx, companyID, filter)
	if err != nil {
		return payslip.ListPayslipResponse{}, err
	}

	data := make([]payslip.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		data = append(data, toPayslipResponse(p))
	}

	return payslip.ListPayslipResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *payslipService) Validate(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	p, err := s.payslipRepo.TransitionFromDraft(ctx, id, companyID, "validate", payslip.StatusDone, s.clock.Now().UTC())
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	// The transition is committed; notification is best-effort on top.
	s.notifyValidated(p)

	return toPayslipResponse(p), nil
}

// notifyValidated emails the slip to the employee. Failures are logged, never
// surfaced: the payslip stays done regardless.
func (s *payslipService) notifyValidated(p payslip.Payslip) {
	emp, err := s.employeeRepo.GetByID(context.Background(), p.EmployeeID, p.CompanyID)
	if err != nil {
		slog.Error("Failed to load employee for payslip notification", "payslip_id", p.ID, "error", err)
		return
	}

	breakdown := email.SlipBreakdown{
		BasicWage:       p.BasicWage,
		GrossWage:       p.GrossWage,
		TotalDeductions: p.TotalDeductions,
		NetWage:         p.NetWage,
	}
	for _, c := range p.Components {
		breakdown.Lines = append(breakdown.Lines, email.SlipLine{
			Name:        c.Name,
			Amount:      c.Amount,
			IsDeduction: c.IsDeduction,
		})
	}

	if err := s.notifier.SendMonthlySalarySlip(emp.Email, emp.FullName, p.PeriodStart.Month(), p.PeriodStart.Year(), breakdown); err != nil {
		slog.Error("Failed to send payslip notification", "payslip_id", p.ID, "error", err)
	}
}

func (s *payslipService) Cancel(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	p, err := s.payslipRepo.TransitionFromDraft(ctx, id, companyID, "cancel", payslip.StatusCancelled, s.clock.Now().UTC())
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	return toPayslipResponse(p), nil
}

func (s *payslipService) Delete(ctx context.Context, id string) error {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.payslipRepo.DeleteDraft(ctx, id, companyID)
}

func toPayslipResponse(p payslip.Payslip) payslip.PayslipResponse {
	resp := payslip.PayslipResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		PeriodStart:     p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       p.PeriodEnd.Format("2006-01-02"),
		WorkingDays:     p.WorkingDays,
		WorkedDays:      p.WorkedDays,
		PaidLeaveDays:   p.PaidLeaveDays,
		UnpaidLeaveDays: p.UnpaidLeaveDays,
		BasicWage:       p.BasicWage,
		GrossWage:       p.GrossWage,
		TotalDeductions: p.TotalDeductions,
		NetWage:         p.NetWage,
		EmployeeCost:    p.EmployeeCost,
		Status:          string(p.Status),
		ValidatedAt:     p.ValidatedAt,
		CancelledAt:     p.CancelledAt,
		Components:      make([]payslip.ComponentResponse, 0, len(p.Components)),
	}
	if p.EmployeeName != nil {
		resp.EmployeeName = *p.EmployeeName
	}
	for _, c := range p.Components {
		resp.Components = append(resp.Components, payslip.ComponentResponse{
			ID:          c.ID,
			Name:        c.Name,
			RatePercent: c.RatePercent,
			Amount:      c.Amount,
			IsDeduction: c.IsDeduction,
			SortOrder:   c.SortOrder,
		})
	}
	return resp
}
