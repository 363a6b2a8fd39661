package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/PengWorks1114/vocabularydb/internal/api/middleware"
	"github.com/PengWorks1114/vocabularydb/internal/api/shared"
)

// routes assembles the HTTP routing table.
func (a *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", a.authHandler.Register)
		r.Post("/auth/login", a.authHandler.Login)
		r.Post("/auth/refresh", a.authHandler.RefreshToken)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(a.authMiddleware.Authenticate)

			r.Get("/users/me", a.userHandler.Me)
			r.Put("/users/me/email", a.userHandler.UpdateEmail)
			r.Put("/users/me/password", a.userHandler.UpdatePassword)
			r.Delete("/users/me", a.userHandler.DeleteAccount)

			r.Post("/wordbooks", a.wordbookHandler.Create)
			r.Get("/wordbooks", a.wordbookHandler.List)
			r.Get("/wordbooks/{id}", a.wordbookHandler.Get)
			r.Put("/wordbooks/{id}", a.wordbookHandler.Rename)
			r.Delete("/wordbooks/{id}", a.wordbookHandler.Delete)

			r.Post("/wordbooks/{id}/words", a.wordHandler.Create)
			r.Get("/wordbooks/{id}/words", a.wordHandler.ListByWordbook)
			r.Get("/words/{id}", a.wordHandler.Get)
			r.Put("/words/{id}", a.wordHandler.Update)
			r.Patch("/words/{id}/favorite", a.wordHandler.SetFavorite)
			r.Delete("/words/{id}", a.wordHandler.Delete)
			r.Post("/words/{id}/example", a.wordHandler.GenerateExample)
			r.Post("/wordbooks/{id}/examples", a.wordHandler.QueueExamples)

			r.Get("/wordbooks/{id}/due", a.reviewHandler.GetDueWords)
			r.Post("/words/{id}/review", a.reviewHandler.SubmitAnswer)
			r.Get("/words/{id}/schedule", a.reviewHandler.GetSchedule)
			r.Delete("/words/{id}/schedule", a.reviewHandler.DeleteSchedule)
			r.Post("/words/{id}/postpone", a.reviewHandler.Postpone)
			r.Post("/words/{id}/reset", a.reviewHandler.ResetProgress)

			r.Post("/wordbooks/{id}/session", a.studyHandler.DrawSession)
			r.Post("/words/{id}/study", a.studyHandler.RecordStudy)

			r.Get("/stats/daily", a.statsHandler.DailyStats)
			r.Get("/words/{id}/history", a.statsHandler.WordHistory)
		})
	})

	return r
}
