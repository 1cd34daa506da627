package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/attendance"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/employee"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/clock"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/jwt"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/period"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
)

type attendanceService struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	clock          clock.Clock
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clk clock.Clock,
) attendance.AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		clock:          clk,
	}
}

func (s *attendanceService) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now().UTC()
	today := period.Truncate(now)

	att, err := s.attendanceRepo.GetByEmployeeDate(ctx, emp.ID, today)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, err
	}
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		att = attendance.Attendance{
			EmployeeID: emp.ID,
			CompanyID:  companyID,
			Date:       today,
		}
	}

	if att.CurrentlyCheckedIn {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	att.Sessions = append(att.Sessions, attendance.Session{CheckIn: now})
	att.Status = attendance.StatusPresent
	att.CurrentlyCheckedIn = true
	if att.CheckIn == nil {
		first := att.Sessions[0].CheckIn
		att.CheckIn = &first
	}

	saved, err := s.attendanceRepo.Upsert(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(saved), nil
}

func (s *attendanceService) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now().UTC()
	today := period.Truncate(now)

	att, err := s.attendanceRepo.GetByEmployeeDate(ctx, emp.ID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, err
	}
	if !att.CurrentlyCheckedIn || len(att.Sessions) == 0 {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	last := &att.Sessions[len(att.Sessions)-1]
	if last.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	checkOut := now
	last.CheckOut = &checkOut

	att.CurrentlyCheckedIn = false
	att.CheckOut = &checkOut
	att.WorkingHours = totalWorkingHours(att.Sessions)

	saved, err := s.attendanceRepo.Upsert(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(saved), nil
}

func (s *attendanceService) MarkStatus(ctx context.Context, req attendance.MarkStatusRequest) (attendance.AttendanceResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	if err := s.attendanceRepo.MarkStatus(ctx, emp.ID, companyID, date, attendance.Status(req.Status)); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := s.attendanceRepo.GetByEmployeeDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(att), nil
}

func (s *attendanceService) ListPeriod(ctx context.Context, employeeID string, month, year int) ([]attendance.AttendanceResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !validator.IsValidMonth(month) || !validator.IsValidYear(year) {
		return nil, validator.ValidationErrors{
			{Field: "period", Message: "month must be 1-12 and year 2000-2100"},
		}
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	start, end := period.MonthRange(year, time.Month(month))
	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, emp.ID, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, toAttendanceResponse(att))
	}
	return responses, nil
}

func totalWorkingHours(sessions attendance.Sessions) decimal.Decimal {
	total := decimal.Zero
	for _, sess := range sessions {
		checkIn := sess.CheckIn
		total = total.Add(period.WorkingHours(&checkIn, sess.CheckOut))
	}
	return total.Round(2)
}

func toAttendanceResponse(att attendance.Attendance) attendance.AttendanceResponse {
	sessions := make([]attendance.SessionResponse, 0, len(att.Sessions))
	for _, sess := range att.Sessions {
		sessions = append(sessions, attendance.SessionResponse{
			CheckIn:  sess.CheckIn,
			CheckOut: sess.CheckOut,
		})
	}

	return attendance.AttendanceResponse{
		ID:                 att.ID,
		EmployeeID:         att.EmployeeID,
		Date:               att.Date.Format("2006-01-02"),
		Status:             string(att.Status),
		CurrentlyCheckedIn: att.CurrentlyCheckedIn,
		Sessions:           sessions,
		CheckIn:            att.CheckIn,
		CheckOut:           att.CheckOut,
		WorkingHours:       att.WorkingHours,
	}
}
