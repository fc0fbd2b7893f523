package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	RemoveEntry(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Submit implements AttendanceHandler.
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req attendance.SubmitAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Submit attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance recorded successfully", result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	day, err := h.attendanceService.GetDay(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "day"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, day)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteDay(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "day")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}

// RemoveEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	day, err := h.attendanceService.RemoveEntry(r.Context(),
		chi.URLParam(r, "employeeID"),
		chi.URLParam(r, "day"),
		chi.URLParam(r, "workplaceID"),
		r.URL.Query().Get("classification"),
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// The day record is deleted together with its last entry.
	if len(day.Entries) == 0 {
		response.SuccessWithMessage(w, "Attendance entry removed, day deleted", nil)
		return
	}
	response.SuccessWithMessage(w, "Attendance entry removed successfully", day)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.EntryFilter{
		WorkplaceID: getStringQueryParam(r, "workplace_id"),
		From:        getStringQueryParam(r, "from"),
		To:          getStringQueryParam(r, "to"),
	}

	rows, err := h.attendanceService.ListEntries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// getStringQueryParam returns nil for an absent or empty query parameter.
func getStringQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}
