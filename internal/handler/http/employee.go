package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/response"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/sse"
)

const sseKeepAlive = 30 * time.Second

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	CurrentQRCode(w http.ResponseWriter, r *http.Request)
	StreamQRCode(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

func (h *employeeHandlerImpl) list(w http.ResponseWriter, r *http.Request, filter employee.EmployeeFilter) {
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	employees, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, employees, &response.Meta{TotalItems: int64(len(employees))})
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter employee.EmployeeFilter

	if v := strings.TrimSpace(q.Get("status")); v != "" {
		status := employee.Status(strings.ToUpper(v))
		filter.Status = &status
	}
	if v := strings.TrimSpace(q.Get("department")); v != "" {
		filter.Department = &v
	}
	if v := strings.TrimSpace(q.Get("search")); v != "" {
		filter.Search = &v
	}

	h.list(w, r, filter)
}

// ListPending implements EmployeeHandler.
func (h *employeeHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	status := employee.StatusPending
	h.list(w, r, employee.EmployeeFilter{Status: &status})
}

// Get implements EmployeeHandler.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.employeeService.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

// Update implements EmployeeHandler.
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated", updated)
}

// Delete implements EmployeeHandler.
func (h *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted", nil)
}

// Approve implements EmployeeHandler.
func (h *employeeHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	approved, err := h.employeeService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee approved", approved)
}

// Reject implements EmployeeHandler.
func (h *employeeHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	rejected, err := h.employeeService.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee rejected", rejected)
}

// CurrentQRCode implements EmployeeHandler.
func (h *employeeHandlerImpl) CurrentQRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.employeeService.CurrentQRCode(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, qr)
}

// StreamQRCode pushes the caller's current token and then every rotation.
func (h *employeeHandlerImpl) StreamQRCode(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	current, err := h.employeeService.CurrentQRCode(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	events, unsubscribe := h.employeeService.SubscribeQRCode(session.EmployeeID)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := sse.Write(w, sse.Event{Event: "qr_code.current", Data: current}); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepAlive)
	defer keepalive.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sse.Write(w, ev); err != nil {
				slog.Debug("QR stream write failed", "employee_id", session.EmployeeID, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if err := sse.WriteComment(w, "ping"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
