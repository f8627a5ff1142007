package services

import (
	"context"

	"github.com/avogel/juryvote/internal/auth"
	"github.com/avogel/juryvote/internal/models"
)

// Broadcaster delivers domain events to all connected live subscribers
type Broadcaster interface {
	Broadcast(event models.Event)
}

// CategoryServicer defines the interface for category operations,
// including the voting state machine
type CategoryServicer interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, input CategoryInput) error
	DeleteCategory(ctx context.Context, id string) error
	StartVoting(ctx context.Context, categoryID string) (*models.Category, error)
	StopVoting(ctx context.Context, categoryID string) (*models.Category, error)
	CompleteVoting(ctx context.Context, categoryID string) (*models.Category, error)
	ResetVoting(ctx context.Context, categoryID string) (*models.Category, error)
}

// CandidateServicer defines the interface for candidate operations
type CandidateServicer interface {
	ListCandidates(ctx context.Context, categoryID string) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, input CandidateInput) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, id string, input CandidateInput) error
	DeleteCandidate(ctx context.Context, id string) error
}

// JuryServicer defines the interface for jury member operations
type JuryServicer interface {
	ListJuryMembers(ctx context.Context) ([]models.JuryMember, error)
	GetJuryMember(ctx context.Context, id string) (*models.JuryMember, error)
	CreateJuryMember(ctx context.Context, input JuryMemberInput) (*models.JuryMember, error)
	UpdateJuryMember(ctx context.Context, id string, input JuryMemberInput) error
	DeleteJuryMember(ctx context.Context, id string) error
	RegenerateToken(ctx context.Context, id string) (string, error)
	ValidateToken(ctx context.Context, token string) (*models.JuryMember, auth.CategoryScope, error)
	AccessQR(ctx context.Context, id string) ([]byte, error)
}

// VotingServicer defines the interface for vote submission
type VotingServicer interface {
	SubmitVote(ctx context.Context, juryMemberID string, scope auth.CategoryScope, candidateID string, score int) (*models.Vote, string, error)
	GetBallot(ctx context.Context, juryMemberID string, scope auth.CategoryScope) (*Ballot, error)
}

// ResultsServicer defines the interface for results and statistics
type ResultsServicer interface {
	CandidateResults(ctx context.Context, categoryID string) ([]CandidateResult, error)
	VotingStats(ctx context.Context) ([]CategoryStats, error)
}

// Ensure concrete types implement interfaces
var (
	_ CategoryServicer  = (*CategoryService)(nil)
	_ CandidateServicer = (*CandidateService)(nil)
	_ JuryServicer      = (*JuryService)(nil)
	_ VotingServicer    = (*VotingService)(nil)
	_ ResultsServicer   = (*ResultsService)(nil)
)
