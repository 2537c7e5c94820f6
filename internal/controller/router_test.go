package controller

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UTPC-FIT/turns-management/internal/model"
	"github.com/UTPC-FIT/turns-management/internal/service"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTurnService struct {
	mock.Mock
}

func (m *mockTurnService) Create(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
	args := m.Called(ctx, turn)
	if t, ok := args.Get(0).(*model.Turn); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTurnService) List(ctx context.Context) ([]*model.Turn, error) {
	args := m.Called(ctx)
	if turns, ok := args.Get(0).([]*model.Turn); ok {
		return turns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTurnService) Get(ctx context.Context, id int64) (*model.Turn, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*model.Turn); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTurnService) Update(ctx context.Context, id int64, update *model.TurnUpdate) (*model.Turn, error) {
	args := m.Called(ctx, id, update)
	if t, ok := args.Get(0).(*model.Turn); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTurnService) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockScheduleService struct {
	mock.Mock
}

func (m *mockScheduleService) Create(ctx context.Context, studentID, turnID int64, now time.Time) (*model.Schedule, error) {
	args := m.Called(ctx, studentID, turnID, now)
	if s, ok := args.Get(0).(*model.Schedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleService) List(ctx context.Context) ([]*model.Schedule, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).([]*model.Schedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleService) ListByStudent(ctx context.Context, studentID int64, state model.ScheduleState) ([]*model.Schedule, error) {
	args := m.Called(ctx, studentID, state)
	if s, ok := args.Get(0).([]*model.Schedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleService) CurrentValid(ctx context.Context, studentID int64, now time.Time) (*model.ScheduleWithTurn, error) {
	args := m.Called(ctx, studentID, now)
	if s, ok := args.Get(0).(*model.ScheduleWithTurn); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleService) MarkAttendance(ctx context.Context, studentID int64, now time.Time) (*model.Schedule, error) {
	args := m.Called(ctx, studentID, now)
	if s, ok := args.Get(0).(*model.Schedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleService) Cancel(ctx context.Context, studentID int64, now time.Time) (*model.Schedule, error) {
	args := m.Called(ctx, studentID, now)
	if s, ok := args.Get(0).(*model.Schedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestRouter(t *testing.T) (*mockTurnService, *mockScheduleService, http.Handler) {
	t.Helper()
	turns := new(mockTurnService)
	schedules := new(mockScheduleService)
	return turns, schedules, NewRouter(turns, schedules, zap.NewNop())
}

func doRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListTurns(t *testing.T) {
	turns, _, router := newTestRouter(t)

	turns.On("List", mock.Anything).Return([]*model.Turn{
		{ID: 1, Day: "MONDAY", StartTime: "10:00", EndTime: "11:00", MaxCapacity: 20, Status: model.TurnStatusActive},
	}, nil)

	rec := doRequest(router, http.MethodGet, "/api/turns", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	turns.AssertExpectations(t)

	var payload []model.Turn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "MONDAY", payload[0].Day)
}

func TestCreateTurn(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Create", mock.Anything, mock.Anything).Return(&model.Turn{
			ID: 1, Day: "MONDAY", StartTime: "10:00", EndTime: "11:00",
			MaxCapacity: 20, Status: model.TurnStatusActive,
		}, nil)

		rec := doRequest(router, http.MethodPost, "/api/turns", map[string]interface{}{
			"day":          "MONDAY",
			"start_time":   "10:00",
			"end_time":     "11:00",
			"max_capacity": 20,
			"status":       "active",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		turns.AssertExpectations(t)
	})

	t.Run("missing fields rejected before the service", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		rec := doRequest(router, http.MethodPost, "/api/turns", map[string]interface{}{
			"day": "MONDAY",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		turns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("domain validation failure maps to 400", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Create", mock.Anything, mock.Anything).
			Return(nil, model.ErrInvalidTimeRange)

		rec := doRequest(router, http.MethodPost, "/api/turns", map[string]interface{}{
			"day":          "MONDAY",
			"start_time":   "11:00",
			"end_time":     "10:00",
			"max_capacity": 20,
			"status":       "active",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTurn(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Get", mock.Anything, int64(5)).Return(&model.Turn{ID: 5}, nil)

		rec := doRequest(router, http.MethodGet, "/api/turns/5", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Get", mock.Anything, int64(99)).Return(nil, service.ErrTurnNotFound)

		rec := doRequest(router, http.MethodGet, "/api/turns/99", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		_, _, router := newTestRouter(t)

		rec := doRequest(router, http.MethodGet, "/api/turns/abc", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateTurn(t *testing.T) {
	t.Run("no fields maps to 400", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Update", mock.Anything, int64(5), mock.Anything).
			Return(nil, service.ErrNoFieldsToUpdate)

		rec := doRequest(router, http.MethodPut, "/api/turns/5", map[string]interface{}{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("partial update succeeds", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(u *model.TurnUpdate) bool {
			return u.MaxCapacity != nil && *u.MaxCapacity == 25 && u.Day == nil
		})).Return(&model.Turn{ID: 5, MaxCapacity: 25}, nil)

		rec := doRequest(router, http.MethodPut, "/api/turns/5", map[string]interface{}{
			"max_capacity": 25,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		turns.AssertExpectations(t)
	})
}

func TestDeleteTurn(t *testing.T) {
	t.Run("deactivated", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Deactivate", mock.Anything, int64(5)).Return(nil)

		rec := doRequest(router, http.MethodDelete, "/api/turns/5", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("not found", func(t *testing.T) {
		turns, _, router := newTestRouter(t)

		turns.On("Deactivate", mock.Anything, int64(99)).Return(service.ErrTurnNotFound)

		rec := doRequest(router, http.MethodDelete, "/api/turns/99", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateSchedule(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("Create", mock.Anything, int64(7), int64(3), mock.Anything).
			Return(&model.Schedule{ID: 1, StudentID: 7, TurnID: 3, State: model.ScheduleStateScheduled}, nil)

		rec := doRequest(router, http.MethodPost, "/api/schedules", map[string]interface{}{
			"student_id": 7,
			"turn_id":    3,
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		schedules.AssertExpectations(t)
	})

	t.Run("unknown turn maps to 404", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("Create", mock.Anything, int64(7), int64(99), mock.Anything).
			Return(nil, service.ErrTurnNotFound)

		rec := doRequest(router, http.MethodPost, "/api/schedules", map[string]interface{}{
			"student_id": 7,
			"turn_id":    99,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing student rejected", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		rec := doRequest(router, http.MethodPost, "/api/schedules", map[string]interface{}{
			"turn_id": 3,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		schedules.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCurrentSchedule(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("CurrentValid", mock.Anything, int64(7), mock.Anything).
			Return(&model.ScheduleWithTurn{
				Schedule: model.Schedule{ID: 2, StudentID: 7},
				TurnDay:  "MONDAY",
			}, nil)

		rec := doRequest(router, http.MethodGet, "/api/schedules/current?student_id=7", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("none upcoming maps to 404", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("CurrentValid", mock.Anything, int64(7), mock.Anything).
			Return(nil, service.ErrNoCurrentSchedule)

		rec := doRequest(router, http.MethodGet, "/api/schedules/current?student_id=7", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing student_id", func(t *testing.T) {
		_, _, router := newTestRouter(t)

		rec := doRequest(router, http.MethodGet, "/api/schedules/current", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListSchedules(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("List", mock.Anything).Return([]*model.Schedule{{ID: 1}}, nil)

		rec := doRequest(router, http.MethodGet, "/api/schedules", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("by student with state filter", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("ListByStudent", mock.Anything, int64(7), model.ScheduleStateAttended).
			Return([]*model.Schedule{}, nil)

		rec := doRequest(router, http.MethodGet, "/api/schedules?student_id=7&status=attended", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("bad state filter", func(t *testing.T) {
		_, _, router := newTestRouter(t)

		rec := doRequest(router, http.MethodGet, "/api/schedules?student_id=7&status=done", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAttendanceTransitions(t *testing.T) {
	t.Run("mark attended", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("MarkAttendance", mock.Anything, int64(7), mock.Anything).
			Return(&model.Schedule{ID: 3, StudentID: 7, State: model.ScheduleStateAttended}, nil)

		rec := doRequest(router, http.MethodPatch, "/api/schedules/attendance/mark", map[string]interface{}{
			"student_id": 7,
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var payload model.Schedule
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, model.ScheduleStateAttended, payload.State)
	})

	t.Run("cancel", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("Cancel", mock.Anything, int64(7), mock.Anything).
			Return(&model.Schedule{ID: 3, StudentID: 7, State: model.ScheduleStateCancelled}, nil)

		rec := doRequest(router, http.MethodPatch, "/api/schedules/attendance/cancel", map[string]interface{}{
			"student_id": 7,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("nothing actionable maps to 404", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("MarkAttendance", mock.Anything, int64(7), mock.Anything).
			Return(nil, service.ErrNoActionableSchedule)

		rec := doRequest(router, http.MethodPatch, "/api/schedules/attendance/mark", map[string]interface{}{
			"student_id": 7,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage failure maps to 500", func(t *testing.T) {
		_, schedules, router := newTestRouter(t)

		schedules.On("MarkAttendance", mock.Anything, int64(7), mock.Anything).
			Return(nil, errors.New("connection reset"))

		rec := doRequest(router, http.MethodPatch, "/api/schedules/attendance/mark", map[string]interface{}{
			"student_id": 7,
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
