package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all routes on the given router. Auth and request-ID
// middleware are mounted by the caller so tests can mount routes bare.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)
			r.Post("/logout", h.Logout)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Route("/task-categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/task-recurrence-rules", func(r chi.Router) {
			r.Get("/", h.ListRecurrenceRules)
			r.Post("/", h.CreateRecurrenceRule)
			r.Delete("/{id}", h.DeleteRecurrenceRule)
		})

		r.Route("/journal-entries", func(r chi.Router) {
			r.Get("/", h.ListJournalEntries)
			r.Post("/", h.CreateJournalEntry)
			r.Get("/by-date", h.ListJournalByDate)
			r.Get("/by-date-range", h.ListJournalByRange)
			r.Get("/today", h.ListJournalToday)
			r.Get("/focus-time", h.GetFocusTime)
			r.Post("/focus-time", h.AddFocusTime)
			r.Get("/evaluation", h.GetEvaluation)
			r.Put("/evaluation", h.UpsertEvaluation)
			r.Get("/{id}", h.GetJournalEntry)
			r.Put("/{id}", h.UpdateJournalEntry)
			r.Delete("/{id}", h.DeleteJournalEntry)
		})
	})

	r.Get("/ws", h.ServeWS)
}
