package handlers

import (
	"net/http"
	"strconv"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type TurnHandler struct {
	turnService TurnService
	logger      *zap.Logger
}

func NewTurnHandler(turnService TurnService, logger *zap.Logger) *TurnHandler {
	return &TurnHandler{
		turnService: turnService,
		logger:      logger,
	}
}

// List handles GET /api/turns
func (h *TurnHandler) List(w http.ResponseWriter, r *http.Request) {
	turns, err := h.turnService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if turns == nil {
		turns = []*model.Turn{}
	}

	writeJSON(w, http.StatusOK, turns)
}

// Create handles POST /api/turns
func (h *TurnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	turn := &model.Turn{
		Day:         req.Day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: *req.MaxCapacity,
		Status:      model.TurnStatus(req.Status),
		Color:       req.Color,
	}

	created, err := h.turnService.Create(r.Context(), turn)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/turns/{id}
func (h *TurnHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	turn, err := h.turnService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, turn)
}

// Update handles PUT /api/turns/{id}
func (h *TurnHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var update model.TurnUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.turnService.Update(r.Context(), id, &update)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/turns/{id}. Turns are deactivated, never
// removed.
func (h *TurnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.turnService.Deactivate(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
