package services

import (
	"context"
	"strings"
	"sync"

	"github.com/avogel/juryvote/internal/errors"
	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/models"
	"github.com/avogel/juryvote/internal/repository"
)

// CategoryServiceRepository defines the repository methods needed by CategoryService
type CategoryServiceRepository interface {
	repository.CategoryRepository
	repository.VoteRepository
}

// CategoryService handles category management and owns the voting state
// machine. All status transitions are serialized through one mutex and each
// successful transition broadcasts a voting_status_changed event inline after
// the durable write, so subscribers observe transitions in store order.
type CategoryService struct {
	log         logger.Logger
	repo        CategoryServiceRepository
	broadcaster Broadcaster
	mu          sync.Mutex
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(log logger.Logger, repo CategoryServiceRepository, broadcaster Broadcaster) *CategoryService {
	return &CategoryService{log: log, repo: repo, broadcaster: broadcaster}
}

// CategoryInput carries the editable fields of a category
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// ListCategories returns all categories
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// GetCategory returns a single category
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err == repository.ErrNotFound {
		return nil, ErrCategoryNotFound
	}
	return category, err
}

// CreateCategory creates a new category in the idle state
func (s *CategoryService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.Validation("category name is required")
	}

	id, err := s.repo.CreateCategory(ctx, strings.TrimSpace(input.Name), input.Description, input.SortOrder)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCategory(ctx, id)
}

// UpdateCategory updates a category's editable fields
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input CategoryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.Validation("category name is required")
	}

	err := s.repo.UpdateCategory(ctx, id, strings.TrimSpace(input.Name), input.Description, input.SortOrder)
	if err == repository.ErrNotFound {
		return ErrCategoryNotFound
	}
	return err
}

// DeleteCategory deletes a category; candidates and votes cascade
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	err := s.repo.DeleteCategory(ctx, id)
	if err == repository.ErrNotFound {
		return ErrCategoryNotFound
	}
	return err
}

// StartVoting activates the target category. Any other active category is
// forced back to idle in the same transaction, so at most one category is
// active afterwards. Broadcasts one event per deactivated category followed
// by the activation event.
func (s *CategoryService) StartVoting(ctx context.Context, categoryID string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, deactivated, err := s.repo.ActivateCategory(ctx, categoryID)
	if err == repository.ErrNotFound {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, d := range deactivated {
		s.broadcaster.Broadcast(models.VotingStatusChanged(d.ID, d.Name, models.StatusIdle))
	}
	s.broadcaster.Broadcast(models.VotingStatusChanged(category.ID, category.Name, models.StatusActive))

	s.log.Info("Voting started", "category_id", category.ID, "category", category.Name)
	return category, nil
}

// StopVoting transitions a category back to idle
func (s *CategoryService) StopVoting(ctx context.Context, categoryID string) (*models.Category, error) {
	return s.transition(ctx, categoryID, models.StatusIdle, "Voting stopped")
}

// CompleteVoting transitions a category to completed
func (s *CategoryService) CompleteVoting(ctx context.Context, categoryID string) (*models.Category, error) {
	return s.transition(ctx, categoryID, models.StatusCompleted, "Voting completed")
}

// ResetVoting deletes all votes for the category's candidates and forces the
// status back to idle
func (s *CategoryService) ResetVoting(ctx context.Context, categoryID string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.repo.DeleteVotesForCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.SetVotingStatus(ctx, categoryID, models.StatusIdle)
	if err == repository.ErrNotFound {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(models.VotingStatusChanged(category.ID, category.Name, category.VotingStatus))

	s.log.Info("Voting reset", "category_id", category.ID, "votes_deleted", deleted)
	return category, nil
}

// transition applies a plain status change and broadcasts it. Transitions are
// permissive: the state machine tracks administrative intent and does not
// validate operator sequencing.
func (s *CategoryService) transition(ctx context.Context, categoryID string, status models.VotingStatus, logMsg string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.repo.SetVotingStatus(ctx, categoryID, status)
	if err == repository.ErrNotFound {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(models.VotingStatusChanged(category.ID, category.Name, category.VotingStatus))

	s.log.Info(logMsg, "category_id", category.ID, "category", category.Name)
	return category, nil
}
