package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	EnsureDefaults(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the owner's categories, seeding the default set on first use.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	if err := s.repo.EnsureDefaults(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensuring default categories: %w", err)
	}

	return s.repo.ListCategories(ctx, userID)
}
