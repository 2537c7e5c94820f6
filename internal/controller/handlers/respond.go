package handlers

import (
	"errors"
	"net/http"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/UTPC-FIT/turns-management/internal/recurrence"
	"github.com/UTPC-FIT/turns-management/internal/service"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeServiceError maps a service error onto the boundary contract:
// malformed input is 400, a not-found outcome is 404, anything else is
// a storage failure and stays opaque behind a 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case isMalformed(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case isNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func isMalformed(err error) bool {
	return errors.Is(err, recurrence.ErrMalformedTime) ||
		errors.Is(err, recurrence.ErrUnknownWeekday) ||
		errors.Is(err, model.ErrInvalidCapacity) ||
		errors.Is(err, model.ErrInvalidTurnStatus) ||
		errors.Is(err, model.ErrInvalidTimeRange) ||
		errors.Is(err, model.ErrInvalidScheduleState) ||
		errors.Is(err, service.ErrNoFieldsToUpdate)
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrTurnNotFound) ||
		errors.Is(err, service.ErrNoCurrentSchedule) ||
		errors.Is(err, service.ErrNoActionableSchedule)
}
