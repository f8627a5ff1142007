package repository

import (
	"context"

	"github.com/avogel/juryvote/internal/models"
)

// CategoryRepository defines category data operations
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, name, description string, sortOrder int) (string, error)
	UpdateCategory(ctx context.Context, id, name, description string, sortOrder int) error
	DeleteCategory(ctx context.Context, id string) error
	SetVotingStatus(ctx context.Context, id string, status models.VotingStatus) (*models.Category, error)
	ActivateCategory(ctx context.Context, id string) (*models.Category, []models.Category, error)
	GetActiveCategory(ctx context.Context) (*models.Category, error)
}

// CandidateRepository defines candidate data operations
type CandidateRepository interface {
	ListCandidates(ctx context.Context, categoryID string) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, categoryID, name, description string, sortOrder int) (string, error)
	UpdateCandidate(ctx context.Context, id, name, description string, sortOrder int) error
	DeleteCandidate(ctx context.Context, id string) error
}

// JuryRepository defines jury member data operations
type JuryRepository interface {
	ListJuryMembers(ctx context.Context) ([]models.JuryMember, error)
	GetJuryMember(ctx context.Context, id string) (*models.JuryMember, error)
	GetJuryMemberByToken(ctx context.Context, token string) (*models.JuryMember, error)
	CreateJuryMember(ctx context.Context, name string, juryType models.JuryType, token string) (string, error)
	UpdateJuryMember(ctx context.Context, id, name string, juryType models.JuryType, active bool) error
	SetAccessToken(ctx context.Context, id, token string) error
	DeleteJuryMember(ctx context.Context, id string) error
	ListAssignedCategoryIDs(ctx context.Context, juryMemberID string) ([]string, error)
	SetCategoryAssignments(ctx context.Context, juryMemberID string, categoryIDs []string) error
	CountEligibleJury(ctx context.Context, categoryID string) (int, error)
}

// VoteResultRow is one vote joined with its candidate and jury member
type VoteResultRow struct {
	CandidateID    string
	CandidateName  string
	JuryMemberID   string
	JuryMemberName string
	Score          int
}

// VoteRepository defines vote data operations
type VoteRepository interface {
	UpsertVote(ctx context.Context, juryMemberID, candidateID string, score int) (*models.Vote, error)
	GetVotesForJuryMember(ctx context.Context, juryMemberID, categoryID string) (map[string]int, error)
	GetCategoryVoteRows(ctx context.Context, categoryID string) ([]VoteResultRow, error)
	DeleteVotesForCategory(ctx context.Context, categoryID string) (int64, error)
	CountVotesForCategory(ctx context.Context, categoryID string) (int, error)
}

// FullRepository combines all repository interfaces.
// Use this when a service needs access to multiple domains
type FullRepository interface {
	CategoryRepository
	CandidateRepository
	JuryRepository
	VoteRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
