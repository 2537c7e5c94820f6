package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	scheduleService ScheduleService
	logger          *zap.Logger
	now             func() time.Time
}

func NewScheduleHandler(scheduleService ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger,
		now:             time.Now,
	}
}

// List handles GET /api/schedules. With a student_id query parameter
// it lists that student's schedules, optionally filtered by status;
// without one it lists everything.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	studentParam := r.URL.Query().Get("student_id")
	if studentParam == "" {
		schedules, err := h.scheduleService.List(r.Context())
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(schedules))
		return
	}

	studentID, err := strconv.ParseInt(studentParam, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student_id")
		return
	}

	var state model.ScheduleState
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		state, err = model.ParseScheduleState(statusParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	schedules, err := h.scheduleService.ListByStudent(r.Context(), studentID, state)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(schedules))
}

// Current handles GET /api/schedules/current?student_id=
func (h *ScheduleHandler) Current(w http.ResponseWriter, r *http.Request) {
	studentParam := r.URL.Query().Get("student_id")
	if studentParam == "" {
		writeError(w, http.StatusBadRequest, "student_id query parameter is required")
		return
	}

	studentID, err := strconv.ParseInt(studentParam, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student_id")
		return
	}

	schedule, err := h.scheduleService.CurrentValid(r.Context(), studentID, h.now())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// Create handles POST /api/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.Create(r.Context(), req.StudentID, req.TurnID, h.now())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, schedule)
}

// MarkAttendance handles PATCH /api/schedules/attendance/mark
func (h *ScheduleHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.scheduleService.MarkAttendance)
}

// Cancel handles PATCH /api/schedules/attendance/cancel
func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.scheduleService.Cancel)
}

func (h *ScheduleHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, studentID int64, now time.Time) (*model.Schedule, error),
) {
	var req studentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := apply(r.Context(), req.StudentID, h.now())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

func emptyIfNil(schedules []*model.Schedule) []*model.Schedule {
	if schedules == nil {
		return []*model.Schedule{}
	}
	return schedules
}
