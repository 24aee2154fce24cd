package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	GetByEmployeeAndPeriod(w http.ResponseWriter, r *http.Request)
	ListByEmployeeAndYear(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	ExportYear(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	generated, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll generated", generated)
}

// GetByID implements PayrollHandler.
func (h *payrollHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.payrollService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rec)
}

// GetByEmployeeAndPeriod implements PayrollHandler.
func (h *payrollHandlerImpl) GetByEmployeeAndPeriod(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(r.URL.Query().Get("year"))
	month, errM := strconv.Atoi(r.URL.Query().Get("month"))
	if errY != nil || errM != nil {
		response.BadRequest(w, "year and month query parameters are required", nil)
		return
	}

	rec, err := h.payrollService.GetByEmployeeAndPeriod(r.Context(), chi.URLParam(r, "employeeId"), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rec)
}

// ListByEmployeeAndYear implements PayrollHandler.
func (h *payrollHandlerImpl) ListByEmployeeAndYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}

	records, err := h.payrollService.ListByEmployeeAndYear(r.Context(), chi.URLParam(r, "employeeId"), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// ListByEmployee implements PayrollHandler.
func (h *payrollHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	records, err := h.payrollService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// ExportYear implements PayrollHandler.
func (h *payrollHandlerImpl) ExportYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}

	file, err := h.payrollService.ExportYear(r.Context(), chi.URLParam(r, "employeeId"), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Content)
}

// Delete implements PayrollHandler.
func (h *payrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll record deleted", nil)
}
