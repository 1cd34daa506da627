package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/workzen-hq/workzen-backend-go/internal/config"
	"github.com/workzen-hq/workzen-backend-go/internal/pkg/validator"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// SlipLine is one payslip row in the email breakdown.
type SlipLine struct {
	Name        string
	Amount      decimal.Decimal
	IsDeduction bool
}

// SlipBreakdown carries the figures rendered into the salary slip email.
type SlipBreakdown struct {
	BasicWage       decimal.Decimal
	GrossWage       decimal.Decimal
	TotalDeductions decimal.Decimal
	NetWage         decimal.Decimal
	Lines           []SlipLine
}

// Notifier sends payroll notifications. Callers treat delivery as
// best-effort; a send failure never rolls back the state change that
// triggered it.
type Notifier interface {
	SendMonthlySalarySlip(to, employeeName string, month time.Month, year int, breakdown SlipBreakdown) error
}

type notifierImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewNotifier creates an SMTP-backed Notifier.
func NewNotifier(cfg config.SMTPConfig) (Notifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &notifierImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type salarySlipEmailData struct {
	EmployeeName    string
	Period          string
	BasicWage       string
	GrossWage       string
	TotalDeductions string
	NetWage         string
	Lines           []salarySlipLineData
}

type salarySlipLineData struct {
	Name        string
	Amount      string
	IsDeduction bool
}

// SendMonthlySalarySlip sends the finalized payslip breakdown to the employee.
func (s *notifierImpl) SendMonthlySalarySlip(to, employeeName string, month time.Month, year int, breakdown SlipBreakdown) error {
	if !validator.IsValidEmail(to) {
		return fmt.Errorf("invalid recipient address: %q", to)
	}

	data := salarySlipEmailData{
		EmployeeName:    employeeName,
		Period:          fmt.Sprintf("%s %d", month.String(), year),
		BasicWage:       breakdown.BasicWage.StringFixed(2),
		GrossWage:       breakdown.GrossWage.StringFixed(2),
		TotalDeductions: breakdown.TotalDeductions.StringFixed(2),
		NetWage:         breakdown.NetWage.StringFixed(2),
	}
	for _, line := range breakdown.Lines {
		data.Lines = append(data.Lines, salarySlipLineData{
			Name:        line.Name,
			Amount:      line.Amount.StringFixed(2),
			IsDeduction: line.IsDeduction,
		})
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "salary_slip.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your salary slip for %s", data.Period), body.String())
}

func (s *notifierImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
