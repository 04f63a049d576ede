package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/category"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

// TransactionLister is the slice of the transaction service the export uses.
type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// CategoryLister resolves category names for the exported rows.
type CategoryLister interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

// Service renders a ledger as CSV for handoff to an accountant or tax
// preparer.
type Service struct {
	transactions TransactionLister
	categories   CategoryLister
}

func NewService(transactions TransactionLister, categories CategoryLister) *Service {
	return &Service{transactions: transactions, categories: categories}
}

var header = []string{
	"date", "description", "type", "amount", "currency",
	"category", "deductible", "status", "confidence",
}

// CSV exports the transactions matching the filter as CSV. Amounts are
// rendered as decimal currency units, not kobo, because the output is for
// humans and spreadsheets.
func (s *Service) CSV(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]byte, error) {
	filter.UserID = &userID

	txs, err := s.transactions.List(ctx, filter)
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

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		categoryName := ""
		if tx.CategoryID != nil {
			categoryName = names[*tx.CategoryID]
		}

		record := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			string(tx.Type),
			formatAmount(tx.Amount),
			tx.Currency,
			categoryName,
			strconv.FormatBool(tx.IsDeductible),
			string(tx.Status),
			strconv.FormatFloat(tx.Confidence, 'f', 2, 64),
		}

		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}

func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
