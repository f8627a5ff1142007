package services

import (
	"context"
	"strings"

	"github.com/avogel/juryvote/internal/errors"
	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/models"
	"github.com/avogel/juryvote/internal/repository"
)

// CandidateServiceRepository defines the repository methods needed by CandidateService
type CandidateServiceRepository interface {
	repository.CandidateRepository
	repository.CategoryRepository
}

// CandidateService handles candidate management
type CandidateService struct {
	log  logger.Logger
	repo CandidateServiceRepository
}

// NewCandidateService creates a new CandidateService
func NewCandidateService(log logger.Logger, repo CandidateServiceRepository) *CandidateService {
	return &CandidateService{log: log, repo: repo}
}

// CandidateInput carries the editable fields of a candidate
type CandidateInput struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// ListCandidates returns a category's candidates
func (s *CandidateService) ListCandidates(ctx context.Context, categoryID string) ([]models.Candidate, error) {
	return s.repo.ListCandidates(ctx, categoryID)
}

// GetCandidate returns a single candidate
func (s *CandidateService) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	candidate, err := s.repo.GetCandidate(ctx, id)
	if err == repository.ErrNotFound {
		return nil, ErrCandidateNotFound
	}
	return candidate, err
}

// CreateCandidate creates a candidate in an existing category
func (s *CandidateService) CreateCandidate(ctx context.Context, input CandidateInput) (*models.Candidate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.Validation("candidate name is required")
	}

	if _, err := s.repo.GetCategory(ctx, input.CategoryID); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	id, err := s.repo.CreateCandidate(ctx, input.CategoryID, strings.TrimSpace(input.Name), input.Description, input.SortOrder)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCandidate(ctx, id)
}

// UpdateCandidate updates a candidate's editable fields
func (s *CandidateService) UpdateCandidate(ctx context.Context, id string, input CandidateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.Validation("candidate name is required")
	}

	err := s.repo.UpdateCandidate(ctx, id, strings.TrimSpace(input.Name), input.Description, input.SortOrder)
	if err == repository.ErrNotFound {
		return ErrCandidateNotFound
	}
	return err
}

// DeleteCandidate deletes a candidate; its votes cascade
func (s *CandidateService) DeleteCandidate(ctx context.Context, id string) error {
	err := s.repo.DeleteCandidate(ctx, id)
	if err == repository.ErrNotFound {
		return ErrCandidateNotFound
	}
	return err
}
