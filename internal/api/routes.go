package api

import (
	"go-chi-calculator/internal/calculator"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", h.Evaluate)

		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions/{id}", h.GetSession)
		r.Post("/sessions/{id}/keys", h.PressKeys)
		r.Delete("/sessions/{id}", h.DeleteSession)

		r.Post("/add", h.binaryOp(calculator.Add))
		r.Post("/subtract", h.binaryOp(calculator.Subtract))
		r.Post("/multiply", h.binaryOp(calculator.Multiply))
		r.Post("/divide", h.binaryOp(calculator.Divide))
	})
}
