package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwiseapp/taxwise/internal/category"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

type stubTransactions struct {
	txs []*transaction.Transaction
}

func (s *stubTransactions) List(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, error) {
	return s.txs, nil
}

type stubCategories struct {
	cats []*category.Category
}

func (s *stubCategories) ListCategories(_ context.Context, _ uuid.UUID) ([]*category.Category, error) {
	return s.cats, nil
}

func TestCSV(t *testing.T) {
	catID := uuid.New()

	txs := []*transaction.Transaction{
		{
			ID:           uuid.New(),
			Amount:       1250000,
			Type:         transaction.TypeExpense,
			Description:  "POS PURCHASE SHOPRITE",
			Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Currency:     "NGN",
			CategoryID:   &catID,
			IsDeductible: false,
			Confidence:   0.75,
			Status:       transaction.StatusClassified,
		},
		{
			ID:          uuid.New(),
			Amount:      85000000,
			Type:        transaction.TypeIncome,
			Description: "SALARY MARCH",
			Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Currency:    "NGN",
			Status:      transaction.StatusPendingReview,
		},
	}

	cats := []*category.Category{{ID: catID, Name: "Groceries"}}

	svc := NewService(&stubTransactions{txs: txs}, &stubCategories{cats: cats})

	data, err := svc.CSV(context.Background(), uuid.New(), transaction.ListFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "date,description,type,amount,currency,category,deductible,status,confidence", lines[0])
	assert.Equal(t, "2024-03-01,POS PURCHASE SHOPRITE,expense,12500.00,NGN,Groceries,false,classified,0.75", lines[1])
	assert.Equal(t, "2024-03-05,SALARY MARCH,income,850000.00,NGN,,false,pending_review,0.00", lines[2])
}

func TestCSVEmpty(t *testing.T) {
	svc := NewService(&stubTransactions{}, &stubCategories{})

	data, err := svc.CSV(context.Background(), uuid.New(), transaction.ListFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1)
}
