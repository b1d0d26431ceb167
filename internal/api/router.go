package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/clinic-scheduling/internal/recommend"
	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

type RouterConfig struct {
	Service     *scheduling.Service
	Recommender *recommend.Recommender
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	JWTSecret   string
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints stay outside auth
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		// Provider schedule surface. Reads are open to any authenticated
		// caller; mutations are ownership-checked in the handlers.
		r.Route("/providers/{providerID}", func(r chi.Router) {
			r.Get("/windows", listWindowsHandler(cfg.Service))
			r.Get("/slots", listSlotsHandler(cfg.Service))
			r.Get("/slots/free", slotFreeHandler(cfg.Service))

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(scheduling.RoleProvider, scheduling.RoleAdmin))
				r.Post("/windows", addWindowHandler(cfg.Service))
				r.Put("/windows/{windowID}", updateWindowHandler(cfg.Service))
				r.Delete("/windows/{windowID}", deleteWindowHandler(cfg.Service))
				r.Get("/appointments", providerAppointmentsHandler(cfg.Service))
			})
		})

		// Appointment lifecycle
		r.Get("/appointments", myAppointmentsHandler(cfg.Service))
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(scheduling.RolePatient, scheduling.RoleAdmin))
			r.Post("/appointments", bookAppointmentHandler(cfg.Service))
		})
		r.Post("/appointments/{id}/confirm", transitionHandler(cfg.Service, scheduling.StatusConfirmed, false))
		r.Post("/appointments/{id}/reject", transitionHandler(cfg.Service, scheduling.StatusCancelled, true))
		r.Post("/appointments/{id}/cancel", transitionHandler(cfg.Service, scheduling.StatusCancelled, false))
		r.Post("/appointments/{id}/complete", transitionHandler(cfg.Service, scheduling.StatusCompleted, false))
		r.Post("/appointments/{id}/no-show", transitionHandler(cfg.Service, scheduling.StatusNoShow, false))

		r.Get("/recommendations", recommendationsHandler(cfg.Recommender))

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(scheduling.RoleAdmin))
			r.Get("/admin/stats", adminStatsHandler(cfg.Service))
		})
	})

	return r
}
