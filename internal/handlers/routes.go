package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Live event streams (public). SSE is the primary transport; the
	// WebSocket endpoint carries the same events for clients that prefer it.
	r.Get("/events", h.Hub.ServeSSE)
	r.Get("/ws", h.Hub.ServeWs)

	// Jury API (token-authenticated via the URL)
	r.Get("/api/jury/{token}/ballot", h.handleGetBallot)
	r.Post("/api/jury/{token}/vote", h.handleSubmitVote)

	// Auth routes (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)
	r.Get("/api/admin/session", h.handleAuthCheck)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Admin.RequireAuth)

		// Voting control
		r.Post("/api/admin/voting-control", h.handleVotingControl)

		// Categories
		r.Get("/api/admin/categories", h.handleListCategories)
		r.Post("/api/admin/categories", h.handleCreateCategory)
		r.Put("/api/admin/categories/{id}", h.handleUpdateCategory)
		r.Delete("/api/admin/categories/{id}", h.handleDeleteCategory)
		r.Get("/api/admin/categories/{id}/candidates", h.handleListCandidates)

		// Candidates
		r.Post("/api/admin/candidates", h.handleCreateCandidate)
		r.Put("/api/admin/candidates/{id}", h.handleUpdateCandidate)
		r.Delete("/api/admin/candidates/{id}", h.handleDeleteCandidate)

		// Jury members
		r.Get("/api/admin/jury", h.handleListJuryMembers)
		r.Post("/api/admin/jury", h.handleCreateJuryMember)
		r.Get("/api/admin/jury/{id}", h.handleGetJuryMember)
		r.Put("/api/admin/jury/{id}", h.handleUpdateJuryMember)
		r.Delete("/api/admin/jury/{id}", h.handleDeleteJuryMember)
		r.Post("/api/admin/jury/{id}/regenerate-token", h.handleRegenerateJuryToken)
		r.Get("/api/admin/jury/{id}/qr", h.handleJuryAccessQR)

		// Results
		r.Get("/api/admin/results/{categoryID}", h.handleCategoryResults)
		r.Get("/api/admin/voting-stats", h.handleVotingStats)
	})

	return r
}
