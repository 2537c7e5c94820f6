package controller

import (
	"net/http"
	"time"

	"github.com/UTPC-FIT/turns-management/internal/controller/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// NewRouter wires the API routes onto a chi mux
func NewRouter(
	turnService handlers.TurnService,
	scheduleService handlers.ScheduleService,
	logger *zap.Logger,
) http.Handler {
	turnHandler := handlers.NewTurnHandler(turnService, logger)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, logger)

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Welcome to the Turns API!",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/turns", func(r chi.Router) {
			r.Get("/", turnHandler.List)
			r.Post("/", turnHandler.Create)
			r.Get("/{id}", turnHandler.Get)
			r.Put("/{id}", turnHandler.Update)
			r.Delete("/{id}", turnHandler.Delete)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Post("/", scheduleHandler.Create)
			r.Get("/current", scheduleHandler.Current)
			r.Patch("/attendance/mark", scheduleHandler.MarkAttendance)
			r.Patch("/attendance/cancel", scheduleHandler.Cancel)
		})
	})

	return r
}
