package rule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	ListRules(ctx context.Context, userID uuid.UUID) ([]*Rule, error)
	CreateRule(ctx context.Context, r *Rule) error
	DeleteRule(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Rule, error) {
	return s.repo.ListRules(ctx, userID)
}

// CreateParams carries a new rule. Position zero appends the rule after the
// owner's existing rules.
type CreateParams struct {
	Pattern            string
	CategoryID         uuid.UUID
	DeductibleOverride *bool
	Position           int
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, p CreateParams) (*Rule, error) {
	if p.Pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}

	r := &Rule{
		UserID:             userID,
		Pattern:            p.Pattern,
		CategoryID:         p.CategoryID,
		DeductibleOverride: p.DeductibleOverride,
		Position:           p.Position,
	}

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, fmt.Errorf("creating rule: %w", err)
	}

	return r, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, userID, id)
}
