package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/workzen-hq/workzen-backend-go/internal/config"
	appHTTP "github.com/workzen-hq/workzen-backend-go/internal/handler/http"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/clock"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/database"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/email"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/jwt"
	"github.com/workzen-hq/workzen-backend-go/internal/repository/postgresql"
	attendanceService "github.com/workzen-hq/workzen-backend-go/internal/service/attendance"
	leaveService "github.com/workzen-hq/workzen-backend-go/internal/service/leave"
	payslipService "github.com/workzen-hq/workzen-backend-go/internal/service/payslip"
	salaryService "github.com/workzen-hq/workzen-backend-go/internal/service/salary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	structureRepo := postgresql.NewStructureRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	balanceRepo := postgresql.NewLeaveBalanceRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	notifier, err := email.NewNotifier(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email notifier:", err)
	}
	clk := clock.System()

	salarySvc := salaryService.NewSalaryService(db, structureRepo, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, clk)
	leaveSvc := leaveService.NewLeaveService(db, leaveRepo, balanceRepo, attendanceRepo, employeeRepo, clk)
	payslipSvc := payslipService.NewPayslipService(
		db,
		payslipRepo,
		structureRepo,
		employeeRepo,
		attendanceRepo,
		leaveRepo,
		notifier,
		clk,
	)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		appHTTP.NewPayrollHandler(payslipSvc),
		appHTTP.NewSalaryHandler(salarySvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server running on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server stopped:", err)
	}
}
