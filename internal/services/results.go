package services

import (
	"context"
	"math"

	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/repository"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.CategoryRepository
	repository.CandidateRepository
	repository.JuryRepository
	repository.VoteRepository
}

// ResultsService handles score aggregation and voting statistics
type ResultsService struct {
	log  logger.Logger
	repo ResultsServiceRepository
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository) *ResultsService {
	return &ResultsService{log: log, repo: repo}
}

// JuryScore is one jury member's score within a candidate's result
type JuryScore struct {
	JuryMemberID   string `json:"jury_member_id"`
	JuryMemberName string `json:"jury_member_name"`
	Score          int    `json:"score"`
}

// CandidateResult is the aggregated result for one candidate
type CandidateResult struct {
	CandidateID   string      `json:"candidate_id"`
	CandidateName string      `json:"candidate_name"`
	AverageScore  float64     `json:"average_score"`
	TotalVotes    int         `json:"total_votes"`
	Votes         []JuryScore `json:"votes"`
}

// CategoryStats summarizes voting progress for one category
type CategoryStats struct {
	CategoryID           string `json:"category_id"`
	CategoryName         string `json:"category_name"`
	VotingStatus         string `json:"voting_status"`
	TotalVotes           int    `json:"total_votes"`
	ExpectedVotes        int    `json:"expected_votes"`
	CompletionPercentage int    `json:"completion_percentage"`
	JuryCount            int    `json:"jury_count"`
	CandidateCount       int    `json:"candidate_count"`
}

// CandidateResults aggregates scores for every candidate in a category,
// ordered by candidate sort order then name. Average is computed over
// existing votes only and rounded to 2 decimal places; a candidate with no
// votes reports average 0 with 0 votes.
func (s *ResultsService) CandidateResults(ctx context.Context, categoryID string) ([]CandidateResult, error) {
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	candidates, err := s.repo.ListCandidates(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetCategoryVoteRows(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	votesByCandidate := make(map[string][]JuryScore)
	for _, row := range rows {
		votesByCandidate[row.CandidateID] = append(votesByCandidate[row.CandidateID], JuryScore{
			JuryMemberID:   row.JuryMemberID,
			JuryMemberName: row.JuryMemberName,
			Score:          row.Score,
		})
	}

	results := make([]CandidateResult, 0, len(candidates))
	for _, candidate := range candidates {
		votes := votesByCandidate[candidate.ID]
		if votes == nil {
			votes = []JuryScore{}
		}

		total := 0
		for _, v := range votes {
			total += v.Score
		}
		average := 0.0
		if len(votes) > 0 {
			average = math.Round(float64(total)/float64(len(votes))*100) / 100
		}

		results = append(results, CandidateResult{
			CandidateID:   candidate.ID,
			CandidateName: candidate.Name,
			AverageScore:  average,
			TotalVotes:    len(votes),
			Votes:         votes,
		})
	}

	return results, nil
}

// VotingStats returns per-category voting progress. Expected votes are the
// eligible jury count times the candidate count.
func (s *ResultsService) VotingStats(ctx context.Context) ([]CategoryStats, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]CategoryStats, 0, len(categories))
	for _, category := range categories {
		totalVotes, err := s.repo.CountVotesForCategory(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		candidates, err := s.repo.ListCandidates(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		juryCount, err := s.repo.CountEligibleJury(ctx, category.ID)
		if err != nil {
			return nil, err
		}

		expected := juryCount * len(candidates)
		completion := 0
		if expected > 0 {
			completion = int(math.Round(float64(totalVotes) / float64(expected) * 100))
		}

		stats = append(stats, CategoryStats{
			CategoryID:           category.ID,
			CategoryName:         category.Name,
			VotingStatus:         string(category.VotingStatus),
			TotalVotes:           totalVotes,
			ExpectedVotes:        expected,
			CompletionPercentage: completion,
			JuryCount:            juryCount,
			CandidateCount:       len(candidates),
		})
	}

	return stats, nil
}
