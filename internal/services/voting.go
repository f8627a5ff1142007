package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/avogel/juryvote/internal/auth"
	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/models"
	"github.com/avogel/juryvote/internal/repository"
)

// defaultStoreTimeout bounds persistence calls during vote submission
const defaultStoreTimeout = 5 * time.Second

// VotingServiceRepository defines the repository methods needed by VotingService
type VotingServiceRepository interface {
	repository.CategoryRepository
	repository.CandidateRepository
	repository.VoteRepository
}

// VotingService coordinates a vote submission end-to-end: validation,
// authorization, the durable upsert and the vote_received broadcast
type VotingService struct {
	log          logger.Logger
	repo         VotingServiceRepository
	broadcaster  Broadcaster
	storeTimeout time.Duration
}

// NewVotingService creates a new VotingService
func NewVotingService(log logger.Logger, repo VotingServiceRepository, broadcaster Broadcaster) *VotingService {
	return &VotingService{
		log:          log,
		repo:         repo,
		broadcaster:  broadcaster,
		storeTimeout: defaultStoreTimeout,
	}
}

// Ballot contains everything a jury member needs to vote: the active
// category, its candidates and the member's own scores so far. Category is
// nil when no category is active or the member is not eligible for it.
type Ballot struct {
	Category   *models.Category   `json:"category"`
	Candidates []models.Candidate `json:"candidates"`
	Votes      map[string]int     `json:"votes"`
}

// SubmitVote validates and persists one vote, then broadcasts it.
// Check order is fixed: score, candidate existence, category active, scope.
// The first failing check wins and nothing is persisted or broadcast on
// failure. Returns the stored vote and its category id.
func (s *VotingService) SubmitVote(ctx context.Context, juryMemberID string, scope auth.CategoryScope, candidateID string, score int) (*models.Vote, string, error) {
	if score < 1 || score > 10 {
		return nil, "", ErrInvalidScore
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	candidate, err := s.repo.GetCandidate(ctx, candidateID)
	if err == repository.ErrNotFound {
		return nil, "", ErrCandidateNotFound
	}
	if err != nil {
		return nil, "", s.storeErr(err)
	}

	category, err := s.repo.GetCategory(ctx, candidate.CategoryID)
	if err == repository.ErrNotFound {
		return nil, "", ErrCategoryNotFound
	}
	if err != nil {
		return nil, "", s.storeErr(err)
	}
	if category.VotingStatus != models.StatusActive {
		return nil, "", ErrVotingNotActive
	}

	if !scope.Allows(candidate.CategoryID) {
		return nil, "", ErrNotAuthorized
	}

	vote, err := s.repo.UpsertVote(ctx, juryMemberID, candidateID, score)
	if err != nil {
		return nil, "", s.storeErr(err)
	}

	s.broadcaster.Broadcast(models.VoteReceived(candidate.CategoryID, candidateID, juryMemberID))

	s.log.Info("Vote recorded",
		"jury_member_id", juryMemberID,
		"candidate_id", candidateID,
		"category_id", candidate.CategoryID,
		"score", score)

	return vote, candidate.CategoryID, nil
}

// GetBallot returns the voting data for a jury member. When no category is
// active, or the member's scope does not cover the active one, the ballot
// carries no category and the client shows a waiting screen.
func (s *VotingService) GetBallot(ctx context.Context, juryMemberID string, scope auth.CategoryScope) (*Ballot, error) {
	ballot := &Ballot{Votes: map[string]int{}}

	category, err := s.repo.GetActiveCategory(ctx)
	if err == repository.ErrNotFound {
		return ballot, nil
	}
	if err != nil {
		return nil, err
	}

	if !scope.Allows(category.ID) {
		return ballot, nil
	}

	candidates, err := s.repo.ListCandidates(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	votes, err := s.repo.GetVotesForJuryMember(ctx, juryMemberID, category.ID)
	if err != nil {
		return nil, err
	}

	ballot.Category = category
	ballot.Candidates = candidates
	ballot.Votes = votes
	return ballot, nil
}

// storeErr maps a deadline expiry on a persistence call to the retryable
// unavailable error instead of letting the request hang or fail opaquely
func (s *VotingService) storeErr(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return ErrStoreUnavailable
	}
	return err
}
