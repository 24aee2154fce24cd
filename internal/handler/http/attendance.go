package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Check(w http.ResponseWriter, r *http.Request)
	KioskScan(w http.ResponseWriter, r *http.Request)

	Today(w http.ResponseWriter, r *http.Request)
	Weekly(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	Recent(w http.ResponseWriter, r *http.Request)
	TotalHours(w http.ResponseWriter, r *http.Request)

	SaveRecord(w http.ResponseWriter, r *http.Request)
	UpdateRecord(w http.ResponseWriter, r *http.Request)
	DeleteRecord(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService, now: time.Now}
}

// decodeCheck accepts an empty body as a request for the caller at server time.
func decodeCheck(r *http.Request) (attendance.CheckRequest, error) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

func (h *attendanceHandlerImpl) check(w http.ResponseWriter, r *http.Request, fn func(r *http.Request, req attendance.CheckRequest) (attendance.CheckResponse, error)) {
	req, err := decodeCheck(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := fn(r, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, func(r *http.Request, req attendance.CheckRequest) (attendance.CheckResponse, error) {
		return h.attendanceService.CheckIn(r.Context(), req)
	})
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, func(r *http.Request, req attendance.CheckRequest) (attendance.CheckResponse, error) {
		return h.attendanceService.CheckOut(r.Context(), req)
	})
}

// Check implements AttendanceHandler.
func (h *attendanceHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, func(r *http.Request, req attendance.CheckRequest) (attendance.CheckResponse, error) {
		return h.attendanceService.CheckInOrOut(r.Context(), req)
	})
}

// KioskScan implements AttendanceHandler.
func (h *attendanceHandlerImpl) KioskScan(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, func(r *http.Request, req attendance.CheckRequest) (attendance.CheckResponse, error) {
		return h.attendanceService.KioskScan(r.Context(), req)
	})
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.attendanceService.GetTodayStatus(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, today)
}

// Weekly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Weekly(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.GetWeeklyRecords(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Monthly implements AttendanceHandler. year and month default to the
// current month.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	q := attendance.MonthlyQuery{Year: now.Year(), Month: int(now.Month())}

	var ok bool
	if q.Year, ok = intQuery(r, "year", q.Year); !ok {
		response.BadRequest(w, "year must be a number", nil)
		return
	}
	if q.Month, ok = intQuery(r, "month", q.Month); !ok {
		response.BadRequest(w, "month must be a number", nil)
		return
	}

	records, err := h.attendanceService.GetMonthlyRecords(r.Context(), chi.URLParam(r, "employeeId"), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Recent implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recent(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(r, "limit", 0)
	if !ok {
		response.BadRequest(w, "limit must be a number", nil)
		return
	}

	records, err := h.attendanceService.GetRecentRecords(r.Context(), chi.URLParam(r, "employeeId"), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// TotalHours implements AttendanceHandler.
func (h *attendanceHandlerImpl) TotalHours(w http.ResponseWriter, r *http.Request) {
	totals, err := h.attendanceService.GetTotalHours(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, totals)
}

// SaveRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var req attendance.SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saved, err := h.attendanceService.SaveRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record saved", saved)
}

// UpdateRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.attendanceService.UpdateRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record updated", updated)
}

// DeleteRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// intQuery reads an optional integer query parameter.
func intQuery(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
