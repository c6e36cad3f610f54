package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/interview-session", func(r chi.Router) {
		r.Post("/", h.StartInterview)
		r.Get("/{id}", h.GetSession)
		r.Post("/{id}/answer", h.SubmitAnswer)
		r.Post("/{id}/continue", h.ContinueInterview)
		r.Post("/{id}/restart", h.RestartInterview)
		r.Get("/{id}/report", h.GetReport)
		r.Get("/{id}/report/file", h.GetReportFile)
	})
}
