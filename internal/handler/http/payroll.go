package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/workzen-hq/workzen-backend-go/internal/domain/payslip"
	"github.com/workzen-hq/workzen-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GeneratePayslip(w http.ResponseWriter, r *http.Request)
	GeneratePayrun(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	ValidatePayslip(w http.ResponseWriter, r *http.Request)
	CancelPayslip(w http.ResponseWriter, r *http.Request)
	DeletePayslip(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payslipService payslip.PayslipService
}

func NewPayrollHandler(payslipService payslip.PayslipService) PayrollHandler {
	return &PayrollHandlerImpl{payslipService: payslipService}
}

func (h *PayrollHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payslip.GeneratePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GeneratePayslip decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payslipService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payslip generated", resp)
}

func (h *PayrollHandlerImpl) GeneratePayrun(w http.ResponseWriter, r *http.Request) {
	var req payslip.PayrunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GeneratePayrun decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payslipService.GeneratePayrun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payrun completed", resp)
}

func (h *PayrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	resp, err := h.payslipService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *PayrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	filter := payslip.PayslipFilter{Page: 1, Limit: 20}

	if month := r.URL.Query().Get("month"); month != "" {
		if m, err := strconv.Atoi(month); err == nil {
			filter.Month = &m
		}
	}
	if year := r.URL.Query().Get("year"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			filter.Year = &y
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	resp, err := h.payslipService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((resp.TotalCount + int64(resp.Limit) - 1) / int64(resp.Limit))
	response.SuccessWithMeta(w, resp.Data, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *PayrollHandlerImpl) ValidatePayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	resp, err := h.payslipService.Validate(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip validated", resp)
}

func (h *PayrollHandlerImpl) CancelPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	resp, err := h.payslipService.Cancel(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip cancelled", resp)
}

func (h *PayrollHandlerImpl) DeletePayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	if err := h.payslipService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip deleted", nil)
}
