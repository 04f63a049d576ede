package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/taxwiseapp/taxwise/internal/category"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

func defaultCategories(t *testing.T) ([]*category.Category, map[string]uuid.UUID) {
	t.Helper()

	ids := make(map[string]uuid.UUID)

	var cats []*category.Category

	for _, d := range category.Defaults {
		id := uuid.New()
		ids[d.Name] = id

		cats = append(cats, &category.Category{
			ID:           id,
			Name:         d.Name,
			Type:         d.Type,
			IsDeductible: d.IsDeductible,
		})
	}

	return cats, ids
}

func TestRunDeterministicOnly(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	cats, ids := defaultCategories(t)

	pending := []*transaction.Transaction{
		{ID: uuid.New(), Type: transaction.TypeExpense, Description: "MTN DATA RENEWAL", Amount: 1500000},
	}

	catRepo := NewMockCategoryRepository(ctrl)
	catRepo.EXPECT().EnsureDefaults(gomock.Any(), userID).Return(nil)
	catRepo.EXPECT().ListCategories(gomock.Any(), userID).Return(cats, nil)

	ruleRepo := NewMockRuleRepository(ctrl)
	ruleRepo.EXPECT().ListRules(gomock.Any(), userID).Return(nil, nil)

	txAccess := NewMockTransactionAccess(ctrl)
	txAccess.EXPECT().ListPending(gomock.Any(), uploadID).Return(pending, nil)
	txAccess.EXPECT().ApplyClassifications(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cls []transaction.Classification) int {
			require.Len(t, cls, 1)
			assert.Equal(t, pending[0].ID, cls[0].TransactionID)
			assert.Equal(t, ids["Internet & Utilities"], cls[0].CategoryID)
			assert.Equal(t, transaction.MethodKeyword, cls[0].Method)
			return 1
		})

	classifier := NewMockClassifier(ctrl)

	svc := NewService(catRepo, ruleRepo, txAccess, classifier, 15, 1)

	require.NoError(t, svc.Run(context.Background(), userID, uploadID))
}

func TestRunAIBatch(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	cats, ids := defaultCategories(t)

	pending := []*transaction.Transaction{
		{ID: uuid.New(), Type: transaction.TypeExpense, Description: "NIP TRF 0023981", Amount: 500000},
		{ID: uuid.New(), Type: transaction.TypeExpense, Description: "POS 11223 UNKNOWN VENDOR", Amount: 200000},
	}

	catRepo := NewMockCategoryRepository(ctrl)
	catRepo.EXPECT().EnsureDefaults(gomock.Any(), userID).Return(nil)
	catRepo.EXPECT().ListCategories(gomock.Any(), userID).Return(cats, nil)

	ruleRepo := NewMockRuleRepository(ctrl)
	ruleRepo.EXPECT().ListRules(gomock.Any(), userID).Return(nil, nil)

	txAccess := NewMockTransactionAccess(ctrl)
	txAccess.EXPECT().ListPending(gomock.Any(), uploadID).Return(pending, nil)

	classifier := NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any(), gomock.Len(2)).Return([]Result{
		{Index: 0, Category: "groceries", IsDeductible: false, Confidence: 0.8},
		{Index: 1, Category: "Not A Real Category", IsDeductible: true, Confidence: 1.5},
	}, nil)

	txAccess.EXPECT().ApplyClassifications(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cls []transaction.Classification) int {
			// The unknown category verdict is dropped, the known one is
			// matched case-insensitively.
			require.Len(t, cls, 1)
			assert.Equal(t, pending[0].ID, cls[0].TransactionID)
			assert.Equal(t, ids["Groceries"], cls[0].CategoryID)
			assert.Equal(t, transaction.MethodAI, cls[0].Method)
			assert.InDelta(t, 0.8, cls[0].Confidence, 1e-9)
			return 1
		})

	svc := NewService(catRepo, ruleRepo, txAccess, classifier, 15, 1)

	require.NoError(t, svc.Run(context.Background(), userID, uploadID))
}

func TestRunAIBatchFailureContained(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	cats, _ := defaultCategories(t)

	pending := []*transaction.Transaction{
		{ID: uuid.New(), Type: transaction.TypeExpense, Description: "NIP TRF 111", Amount: 100},
		{ID: uuid.New(), Type: transaction.TypeExpense, Description: "NIP TRF 222", Amount: 200},
	}

	catRepo := NewMockCategoryRepository(ctrl)
	catRepo.EXPECT().EnsureDefaults(gomock.Any(), userID).Return(nil)
	catRepo.EXPECT().ListCategories(gomock.Any(), userID).Return(cats, nil)

	ruleRepo := NewMockRuleRepository(ctrl)
	ruleRepo.EXPECT().ListRules(gomock.Any(), userID).Return(nil, nil)

	txAccess := NewMockTransactionAccess(ctrl)
	txAccess.EXPECT().ListPending(gomock.Any(), uploadID).Return(pending, nil)

	// Batch size 1 so the two transactions go out as separate batches. The
	// first fails, the second still lands.
	classifier := NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any(), gomock.Len(1)).
		Return(nil, errors.New("model unavailable"))
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any(), gomock.Len(1)).
		Return([]Result{{Index: 0, Category: "Groceries", Confidence: 0.7}}, nil)

	txAccess.EXPECT().ApplyClassifications(gomock.Any(), gomock.Len(1)).Return(1)

	svc := NewService(catRepo, ruleRepo, txAccess, classifier, 1, 1)

	require.NoError(t, svc.Run(context.Background(), userID, uploadID))
}

func TestRunNoPendingTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	cats, _ := defaultCategories(t)

	catRepo := NewMockCategoryRepository(ctrl)
	catRepo.EXPECT().EnsureDefaults(gomock.Any(), userID).Return(nil)
	catRepo.EXPECT().ListCategories(gomock.Any(), userID).Return(cats, nil)

	ruleRepo := NewMockRuleRepository(ctrl)
	ruleRepo.EXPECT().ListRules(gomock.Any(), userID).Return(nil, nil)

	txAccess := NewMockTransactionAccess(ctrl)
	txAccess.EXPECT().ListPending(gomock.Any(), uploadID).Return(nil, nil)

	svc := NewService(catRepo, ruleRepo, txAccess, NewMockClassifier(ctrl), 15, 1)

	require.NoError(t, svc.Run(context.Background(), userID, uploadID))
}
