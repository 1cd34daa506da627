package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/attendance"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/employee"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/leave"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/clock"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/jwt"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/period"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
	"github.com/workzen-hq/workzen-backend-go/internal/repository/postgresql"
)

type leaveService struct {
	db             *database.DB
	runTx          func(ctx context.Context, fn func(context.Context) error) error
	leaveRepo      leave.LeaveRepository
	balanceRepo    leave.BalanceRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	clock          clock.Clock
}

func NewLeaveService(
	db *database.DB,
	leaveRepo leave.LeaveRepository,
	balanceRepo leave.BalanceRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clk clock.Clock,
) leave.LeaveService {
	return &leaveService{
		db:             db,
		leaveRepo:      leaveRepo,
		balanceRepo:    balanceRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		clock:          clk,
	}
}

func (s *leaveService) inTx(ctx context.Context, fn func(context.Context) error) error {
	if s.runTx != nil {
		return s.runTx(ctx, fn)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

func (s *leaveService) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	leaveType := leave.Type(req.LeaveType)
	totalDays := decimal.NewFromInt(int64(period.InclusiveDayCount(start, end)))

	// Paid types are checked against the balance up front; the balance is only
	// consumed at approval.
	if leaveType.IsPaid() {
		balance, err := s.balanceRepo.GetByEmployeeTypeYear(ctx, emp.ID, leaveType, start.Year())
		if err != nil {
			return leave.LeaveResponse{}, err
		}
		if balance.RemainingDays.LessThan(totalDays) {
			return leave.LeaveResponse{}, leave.ErrInsufficientBalance
		}
	}

	created, err := s.leaveRepo.Create(ctx, leave.Leave{
		EmployeeID: emp.ID,
		CompanyID:  companyID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return toLeaveResponse(created), nil
}

func (s *leaveService) Approve(ctx context.Context, leaveID string) (leave.LeaveResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	l, err := s.leaveRepo.GetByID(ctx, leaveID, companyID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if l.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	now := s.clock.Now().UTC()

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.leaveRepo.UpdateStatus(txCtx, l.ID, leave.StatusApproved, now); err != nil {
			return err
		}

		if l.LeaveType.IsPaid() {
			balance, err := s.balanceRepo.GetByEmployeeTypeYear(txCtx, l.EmployeeID, l.LeaveType, l.StartDate.Year())
			if err != nil {
				return err
			}
			if balance.RemainingDays.LessThan(l.TotalDays) {
				return leave.ErrInsufficientBalance
			}
			if err := s.balanceRepo.ApplyUsage(txCtx, balance.ID, l.TotalDays); err != nil {
				return err
			}
		}

		for d := l.StartDate; !d.After(l.EndDate); d = d.AddDate(0, 0, 1) {
			if err := s.attendanceRepo.MarkStatus(txCtx, l.EmployeeID, l.CompanyID, d, attendance.StatusOnLeave); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, leave.ErrInsufficientBalance) || errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.LeaveResponse{}, err
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to approve leave: %w", err)
	}

	l.Status = leave.StatusApproved
	l.ApprovedAt = &now

	return toLeaveResponse(l), nil
}

func (s *leaveService) Reject(ctx context.Context, leaveID string) (leave.LeaveResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	l, err := s.leaveRepo.GetByID(ctx, leaveID, companyID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if l.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	if err := s.leaveRepo.UpdateStatus(ctx, l.ID, leave.StatusRejected, s.clock.Now().UTC()); err != nil {
		return leave.LeaveResponse{}, err
	}

	l.Status = leave.StatusRejected

	return toLeaveResponse(l), nil
}

func (s *leaveService) Cancel(ctx context.Context, leaveID string) (leave.LeaveResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	l, err := s.leaveRepo.GetByID(ctx, leaveID, companyID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if l.Status != leave.StatusPending && l.Status != leave.StatusApproved {
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	now := s.clock.Now().UTC()
	wasApproved := l.Status == leave.StatusApproved

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.leaveRepo.UpdateStatus(txCtx, l.ID, leave.StatusCancelled, now); err != nil {
			return err
		}

		// An approved leave already consumed balance; give it back.
		if wasApproved && l.LeaveType.IsPaid() {
			balance, err := s.balanceRepo.GetByEmployeeTypeYear(txCtx, l.EmployeeID, l.LeaveType, l.StartDate.Year())
			if err != nil {
				return err
			}
			if err := s.balanceRepo.ApplyUsage(txCtx, balance.ID, l.TotalDays.Neg()); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to cancel leave: %w", err)
	}

	l.Status = leave.StatusCancelled
	l.CancelledAt = &now

	return toLeaveResponse(l), nil
}

func (s *leaveService) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	leaves, err := s.leaveRepo.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, toLeaveResponse(l))
	}
	return responses, nil
}

func (s *leaveService) Balances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !validator.IsValidYear(year) {
		return nil, validator.ValidationErrors{
			{Field: "year", Message: "must be between 2000 and 2100"},
		}
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.ListByEmployeeYear(ctx, emp.ID, year)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.BalanceResponse{
			ID:            b.ID,
			EmployeeID:    b.EmployeeID,
			LeaveType:     string(b.LeaveType),
			Year:          b.Year,
			TotalDays:     b.TotalDays,
			UsedDays:      b.UsedDays,
			RemainingDays: b.RemainingDays,
		})
	}
	return responses, nil
}

func toLeaveResponse(l leave.Leave) leave.LeaveResponse {
	return leave.LeaveResponse{
		ID:          l.ID,
		EmployeeID:  l.EmployeeID,
		LeaveType:   string(l.LeaveType),
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		TotalDays:   l.TotalDays,
		Reason:      l.Reason,
		Status:      string(l.Status),
		ApprovedAt:  l.ApprovedAt,
		CancelledAt: l.CancelledAt,
	}
}
