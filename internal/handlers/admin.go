package handlers

import (
	"net/http"

	"github.com/avogel/juryvote/internal/services"
)

// handleVotingControl applies an administrative voting-state transition.
// Every successful transition also broadcasts a voting_status_changed event
// from inside the category service.
func (h *Handlers) handleVotingControl(w http.ResponseWriter, r *http.Request) {
	var req VotingControlRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if req.CategoryID == "" {
		h.respondError(w, BadRequest("Missing categoryId"))
		return
	}

	var err error
	var category interface{}
	switch req.Action {
	case "start":
		category, err = h.Category.StartVoting(r.Context(), req.CategoryID)
	case "stop":
		category, err = h.Category.StopVoting(r.Context(), req.CategoryID)
	case "complete":
		category, err = h.Category.CompleteVoting(r.Context(), req.CategoryID)
	case "reset":
		category, err = h.Category.ResetVoting(r.Context(), req.CategoryID)
	default:
		h.respondError(w, BadRequest("Invalid action: must be start, stop, complete or reset"))
		return
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, category)
}

// ==================== Categories ====================

func (h *Handlers) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Category.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, categories)
}

func (h *Handlers) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	category, err := h.Category.CreateCategory(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, category)
}

func (h *Handlers) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var input services.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Category.UpdateCategory(r.Context(), id, input); err != nil {
		h.respondError(w, err)
		return
	}
	respondSuccess(w, "Category updated")
}

func (h *Handlers) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Category.DeleteCategory(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Candidates ====================

func (h *Handlers) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	candidates, err := h.Candidate.ListCandidates(r.Context(), categoryID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, candidates)
}

func (h *Handlers) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var input services.CandidateInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	candidate, err := h.Candidate.CreateCandidate(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, candidate)
}

func (h *Handlers) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var input services.CandidateInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Candidate.UpdateCandidate(r.Context(), id, input); err != nil {
		h.respondError(w, err)
		return
	}
	respondSuccess(w, "Candidate updated")
}

func (h *Handlers) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Candidate.DeleteCandidate(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Jury Members ====================

func (h *Handlers) handleListJuryMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Jury.ListJuryMembers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, members)
}

func (h *Handlers) handleGetJuryMember(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	member, err := h.Jury.GetJuryMember(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, member)
}

func (h *Handlers) handleCreateJuryMember(w http.ResponseWriter, r *http.Request) {
	var input services.JuryMemberInput
	input.Active = true
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	member, err := h.Jury.CreateJuryMember(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, member)
}

func (h *Handlers) handleUpdateJuryMember(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var input services.JuryMemberInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Jury.UpdateJuryMember(r.Context(), id, input); err != nil {
		h.respondError(w, err)
		return
	}
	respondSuccess(w, "Jury member updated")
}

func (h *Handlers) handleDeleteJuryMember(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Jury.DeleteJuryMember(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleRegenerateJuryToken(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	token, err := h.Jury.RegenerateToken(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, map[string]string{"access_token": token})
}

func (h *Handlers) handleJuryAccessQR(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	png, err := h.Jury.AccessQR(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// ==================== Results & Stats ====================

func (h *Handlers) handleCategoryResults(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlParam(r, "categoryID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	results, err := h.Results.CandidateResults(r.Context(), categoryID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, results)
}

func (h *Handlers) handleVotingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Results.VotingStats(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, stats)
}
