package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/timeclock/internal/auth"
	"github.com/frahmantamala/timeclock/internal/cashdrawer"
	"github.com/frahmantamala/timeclock/internal/payroll"
	"github.com/frahmantamala/timeclock/internal/schedule"
	"github.com/frahmantamala/timeclock/internal/timeentry"
	"github.com/frahmantamala/timeclock/internal/transport/middleware"
	"github.com/frahmantamala/timeclock/internal/transport/swagger"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	entryHandler *timeentry.Handler,
	shiftHandler *schedule.Handler,
	cashHandler *cashdrawer.Handler,
	payrollHandler *payroll.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", authHandler.Login)

		// Kiosk punch authenticates with the PIN in the body, no token.
		r.Post("/kiosk/punch", entryHandler.KioskPunch)

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.Middleware)

			pr.Post("/punch/in", entryHandler.PunchIn)
			pr.Post("/punch/out", entryHandler.PunchOut)
			pr.Route("/time-entries", func(er chi.Router) {
				er.Get("/", entryHandler.ListEntries)
				er.Get("/{id}", entryHandler.GetEntry)
				er.Patch("/{id}", entryHandler.EditEntry)
			})

			pr.Route("/shifts", func(sr chi.Router) {
				sr.Post("/", shiftHandler.CreateShift)
				sr.Get("/", shiftHandler.ListShifts)
				sr.Post("/validate", shiftHandler.ValidateShift)
				sr.Get("/{id}", shiftHandler.GetShift)
				sr.Patch("/{id}", shiftHandler.UpdateShift)
				sr.Post("/{id}/publish", shiftHandler.PublishShift)
				sr.Post("/{id}/approve", shiftHandler.ApproveShift)
				sr.Post("/{id}/cancel", shiftHandler.CancelShift)
			})

			pr.Route("/cash-sessions", func(cr chi.Router) {
				cr.Get("/", cashHandler.ListNeedingReview)
				cr.Get("/{id}", cashHandler.GetSession)
				cr.Post("/{id}/review", cashHandler.ReviewSession)
				cr.Patch("/{id}", cashHandler.EditSession)
			})

			pr.Route("/payroll/runs", func(yr chi.Router) {
				yr.Post("/", payrollHandler.ComputeRun)
				yr.Get("/", payrollHandler.ListRuns)
				yr.Get("/{id}", payrollHandler.GetRun)
				yr.Post("/{id}/finalize", payrollHandler.FinalizeRun)
			})
		})
	})
}
