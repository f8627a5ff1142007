package handlers

import (
	"github.com/avogel/juryvote/internal/auth"
	"github.com/avogel/juryvote/internal/live"
	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/services"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Category  services.CategoryServicer
	Candidate services.CandidateServicer
	Jury      services.JuryServicer
	Voting    services.VotingServicer
	Results   services.ResultsServicer
	Admin     *auth.Admin
	Hub       *live.Hub
	Log       logger.Logger
}

// New creates a new Handlers instance with all dependencies
func New(
	category services.CategoryServicer,
	candidate services.CandidateServicer,
	jury services.JuryServicer,
	voting services.VotingServicer,
	results services.ResultsServicer,
	admin *auth.Admin,
	hub *live.Hub,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Category:  category,
		Candidate: candidate,
		Jury:      jury,
		Voting:    voting,
		Results:   results,
		Admin:     admin,
		Hub:       hub,
		Log:       log,
	}
}
