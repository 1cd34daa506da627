package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/workzen-hq/workzen-backend-go/internal/config"
	"github.com/workzen-hq/workzen-backend-go/internal/handler/http/middleware"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	payrollHandler PayrollHandler,
	salaryHandler SalaryHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workzen-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/payrun", payrollHandler.GeneratePayrun)

				r.Route("/payslips", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPayslips)
					r.Post("/generate", payrollHandler.GeneratePayslip)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetPayslip)
						r.Delete("/", payrollHandler.DeletePayslip)
						r.Put("/validate", payrollHandler.ValidatePayslip)
						r.Put("/cancel", payrollHandler.CancelPayslip)
					})
				})
			})

			r.Route("/employees/{employeeID}/salary-structure", func(r chi.Router) {
				r.Get("/", salaryHandler.GetStructure)
				r.Put("/", salaryHandler.SaveStructure)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", attendanceHandler.ListPeriod)
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Put("/mark", attendanceHandler.MarkStatus)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", leaveHandler.ListByEmployee)
				r.Post("/", leaveHandler.Apply)
				r.Get("/balances", leaveHandler.Balances)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/approve", leaveHandler.Approve)
					r.Put("/reject", leaveHandler.Reject)
					r.Put("/cancel", leaveHandler.Cancel)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
