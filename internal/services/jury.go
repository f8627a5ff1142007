package services

import (
	"context"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/avogel/juryvote/internal/auth"
	"github.com/avogel/juryvote/internal/errors"
	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/models"
	"github.com/avogel/juryvote/internal/repository"
)

// minTokenLength is the shortest access token ever considered for lookup.
// Shorter strings are rejected before touching the store.
const minTokenLength = 32

// JuryService handles jury member management and access-token authentication
type JuryService struct {
	log     logger.Logger
	repo    repository.JuryRepository
	baseURL string
}

// NewJuryService creates a new JuryService. baseURL is used to build the
// access links encoded into QR images.
func NewJuryService(log logger.Logger, repo repository.JuryRepository, baseURL string) *JuryService {
	return &JuryService{log: log, repo: repo, baseURL: strings.TrimRight(baseURL, "/")}
}

// JuryMemberInput carries the editable fields of a jury member
type JuryMemberInput struct {
	Name        string          `json:"name"`
	JuryType    models.JuryType `json:"jury_type"`
	Active      bool            `json:"active"`
	CategoryIDs []string        `json:"category_ids"`
}

func (input JuryMemberInput) validate() error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.Validation("jury member name is required")
	}
	if input.JuryType != models.JuryTypeCore && input.JuryType != models.JuryTypeCategory {
		return errors.Validation("jury type must be core or category")
	}
	return nil
}

// ListJuryMembers returns all jury members with their category assignments
func (s *JuryService) ListJuryMembers(ctx context.Context) ([]models.JuryMember, error) {
	members, err := s.repo.ListJuryMembers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].JuryType != models.JuryTypeCategory {
			continue
		}
		ids, err := s.repo.ListAssignedCategoryIDs(ctx, members[i].ID)
		if err != nil {
			return nil, err
		}
		members[i].CategoryIDs = ids
	}
	return members, nil
}

// GetJuryMember returns a single jury member with assignments
func (s *JuryService) GetJuryMember(ctx context.Context, id string) (*models.JuryMember, error) {
	member, err := s.repo.GetJuryMember(ctx, id)
	if err == repository.ErrNotFound {
		return nil, ErrJuryMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	if member.JuryType == models.JuryTypeCategory {
		ids, err := s.repo.ListAssignedCategoryIDs(ctx, member.ID)
		if err != nil {
			return nil, err
		}
		member.CategoryIDs = ids
	}
	return member, nil
}

// CreateJuryMember creates a jury member with a fresh access token and, for
// category-type members, the given category assignments
func (s *JuryService) CreateJuryMember(ctx context.Context, input JuryMemberInput) (*models.JuryMember, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	token := auth.GenerateToken()
	id, err := s.repo.CreateJuryMember(ctx, strings.TrimSpace(input.Name), input.JuryType, token)
	if err != nil {
		return nil, err
	}

	if input.JuryType == models.JuryTypeCategory && len(input.CategoryIDs) > 0 {
		if err := s.repo.SetCategoryAssignments(ctx, id, input.CategoryIDs); err != nil {
			return nil, err
		}
	}

	s.log.Info("Jury member created", "jury_member_id", id, "jury_type", input.JuryType)
	return s.GetJuryMember(ctx, id)
}

// UpdateJuryMember updates a jury member and replaces its assignments
func (s *JuryService) UpdateJuryMember(ctx context.Context, id string, input JuryMemberInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	err := s.repo.UpdateJuryMember(ctx, id, strings.TrimSpace(input.Name), input.JuryType, input.Active)
	if err == repository.ErrNotFound {
		return ErrJuryMemberNotFound
	}
	if err != nil {
		return err
	}

	assignments := input.CategoryIDs
	if input.JuryType == models.JuryTypeCore {
		assignments = nil
	}
	return s.repo.SetCategoryAssignments(ctx, id, assignments)
}

// DeleteJuryMember deletes a jury member; assignments and votes cascade
func (s *JuryService) DeleteJuryMember(ctx context.Context, id string) error {
	err := s.repo.DeleteJuryMember(ctx, id)
	if err == repository.ErrNotFound {
		return ErrJuryMemberNotFound
	}
	return err
}

// RegenerateToken replaces a jury member's access token, invalidating the
// old access link
func (s *JuryService) RegenerateToken(ctx context.Context, id string) (string, error) {
	token := auth.GenerateToken()
	err := s.repo.SetAccessToken(ctx, id, token)
	if err == repository.ErrNotFound {
		return "", ErrJuryMemberNotFound
	}
	if err != nil {
		return "", err
	}
	s.log.Info("Access token regenerated", "jury_member_id", id)
	return token, nil
}

// ValidateToken resolves an access token to a jury member and its category
// scope. Unknown, inactive and too-short tokens all fail the same way so a
// probing client learns nothing about token validity.
func (s *JuryService) ValidateToken(ctx context.Context, token string) (*models.JuryMember, auth.CategoryScope, error) {
	if len(token) < minTokenLength {
		return nil, nil, ErrInvalidJuryToken
	}

	member, err := s.repo.GetJuryMemberByToken(ctx, token)
	if err == repository.ErrNotFound {
		return nil, nil, ErrInvalidJuryToken
	}
	if err != nil {
		return nil, nil, err
	}
	if !member.Active {
		return nil, nil, ErrInvalidJuryToken
	}

	if member.JuryType == models.JuryTypeCore {
		return member, auth.AllCategories, nil
	}

	ids, err := s.repo.ListAssignedCategoryIDs(ctx, member.ID)
	if err != nil {
		return nil, nil, err
	}
	return member, auth.RestrictedTo(ids...), nil
}

// AccessQR renders a jury member's access link as a QR code PNG
func (s *JuryService) AccessQR(ctx context.Context, id string) ([]byte, error) {
	member, err := s.repo.GetJuryMember(ctx, id)
	if err == repository.ErrNotFound {
		return nil, ErrJuryMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	url := s.baseURL + "/jury/" + member.AccessToken
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return png, nil
}
