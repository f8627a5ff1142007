package handlers

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avogel/juryvote/internal/auth"
	"github.com/avogel/juryvote/internal/models"
	"github.com/avogel/juryvote/internal/services"
)

// juryFromRequest resolves the access token in the URL to a jury member and
// scope. Every failure mode responds with the same opaque 404 so clients
// cannot probe for valid tokens.
func (h *Handlers) juryFromRequest(w http.ResponseWriter, r *http.Request) (*models.JuryMember, auth.CategoryScope, bool) {
	token := chi.URLParam(r, "token")
	member, scope, err := h.Jury.ValidateToken(r.Context(), token)
	if err != nil {
		h.respondError(w, err)
		return nil, nil, false
	}
	return member, scope, true
}

// handleGetBallot returns the active category, its candidates and the jury
// member's own scores
func (h *Handlers) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	member, scope, ok := h.juryFromRequest(w, r)
	if !ok {
		return
	}

	ballot, err := h.Voting.GetBallot(r.Context(), member.ID, scope)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{
		"juryMember": map[string]string{"id": member.ID, "name": member.Name},
		"ballot":     ballot,
	})
}

// handleSubmitVote handles jury vote submissions
func (h *Handlers) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	member, scope, ok := h.juryFromRequest(w, r)
	if !ok {
		return
	}

	var req VoteSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if req.CandidateID == "" {
		h.respondError(w, BadRequest("Missing candidateId"))
		return
	}
	// Fractional scores are invalid, not truncated
	if req.Score != math.Trunc(req.Score) {
		h.respondError(w, services.ErrInvalidScore)
		return
	}

	vote, _, err := h.Voting.SubmitVote(r.Context(), member.ID, scope, req.CandidateID, int(req.Score))
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{
		"candidateId": vote.CandidateID,
		"score":       vote.Score,
	})
}
