package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/category"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

var ErrNotFound = errors.New("summary not found")

// Repository persists generated summaries keyed by upload.
type Repository interface {
	UpsertSummary(ctx context.Context, userID, uploadID uuid.UUID, s *Summary) error
	GetSummary(ctx context.Context, userID, uploadID uuid.UUID) (*Summary, error)
}

// TransactionLister is the slice of the transaction service the summary
// needs.
type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// CategoryLister resolves the owner's categories for display names.
type CategoryLister interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

type Service struct {
	repo         Repository
	transactions TransactionLister
	categories   CategoryLister
}

func NewService(repo Repository, transactions TransactionLister, categories CategoryLister) *Service {
	return &Service{repo: repo, transactions: transactions, categories: categories}
}

// Generate recomputes the upload's summary from its full ledger and persists
// it, replacing any earlier rollup.
func (s *Service) Generate(ctx context.Context, userID, uploadID uuid.UUID) (*Summary, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{UserID: &userID, UploadID: &uploadID})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	cats, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	sum := Aggregate(txs, names)
	sum.TaxEstimate = EstimateTax(sum.IncomeTotal, sum.DeductibleTotal)

	if err := s.repo.UpsertSummary(ctx, userID, uploadID, sum); err != nil {
		return nil, fmt.Errorf("storing summary: %w", err)
	}

	return sum, nil
}

func (s *Service) Get(ctx context.Context, userID, uploadID uuid.UUID) (*Summary, error) {
	return s.repo.GetSummary(ctx, userID, uploadID)
}
