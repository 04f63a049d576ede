package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

func TestService_CreateBatch(t *testing.T) {
	type testCase struct {
		name        string
		paramsCount int
		setupMock   func(m *transaction.MockRepository)
		wantCreated int
		wantErr     bool
	}

	tests := []testCase{
		{
			name:        "SingleChunk",
			paramsCount: 3,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransactions(gomock.Any(), gomock.Len(3)).
					Return(nil)
			},
			wantCreated: 3,
			wantErr:     false,
		},
		{
			name:        "SecondChunkFailsKeepsFirst",
			paramsCount: 501,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransactions(gomock.Any(), gomock.Len(500)).
					Return(nil)
				m.EXPECT().
					CreateTransactions(gomock.Any(), gomock.Len(1)).
					Return(errors.New("db error"))
			},
			wantCreated: 500,
			wantErr:     true,
		},
		{
			name:        "Empty",
			paramsCount: 0,
			wantCreated: 0,
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			params := make([]transaction.CreateParams, tt.paramsCount)
			for i := range params {
				params[i] = transaction.CreateParams{
					Amount:      1000,
					Type:        transaction.TypeExpense,
					Description: "Coffee",
					Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				}
			}

			svc := transaction.NewService(repo)
			created, err := svc.CreateBatch(context.Background(), params)

			assert.Equal(t, tt.wantCreated, created)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_CreateBatchStatus(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			require.Len(t, txs, 1)
			assert.Equal(t, transaction.StatusPendingReview, txs[0].Status)
			return nil
		})

	svc := transaction.NewService(repo)

	_, err := svc.CreateBatch(context.Background(), []transaction.CreateParams{
		{Amount: 1000, Type: transaction.TypeExpense, Description: "Coffee"},
	})
	require.NoError(t, err)
}

func TestService_ListPending(t *testing.T) {
	ctrl := gomock.NewController(t)

	uploadID := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, filter.UploadID)
			assert.Equal(t, uploadID, *filter.UploadID)
			require.NotNil(t, filter.Status)
			assert.Equal(t, transaction.StatusPendingReview, *filter.Status)
			return []*transaction.Transaction{{ID: uuid.New()}}, nil
		})

	svc := transaction.NewService(repo)

	txs, err := svc.ListPending(context.Background(), uploadID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestService_ApplyClassifications(t *testing.T) {
	ctrl := gomock.NewController(t)

	good := transaction.Classification{TransactionID: uuid.New(), CategoryID: uuid.New()}
	bad := transaction.Classification{TransactionID: uuid.New(), CategoryID: uuid.New()}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().ApplyClassification(gomock.Any(), good).Return(nil)
	repo.EXPECT().ApplyClassification(gomock.Any(), bad).Return(errors.New("db error"))

	svc := transaction.NewService(repo)

	applied := svc.ApplyClassifications(context.Background(), []transaction.Classification{good, bad})

	// A failed row is skipped, not fatal.
	assert.Equal(t, 1, applied)
}

func TestService_Override(t *testing.T) {
	ctrl := gomock.NewController(t)

	id := uuid.New()
	categoryID := uuid.New()
	override := transaction.Override{CategoryID: &categoryID}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().OverrideTransaction(gomock.Any(), id, override).Return(nil)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{
		ID:         id,
		CategoryID: &categoryID,
		Status:     transaction.StatusClassified,
		Method:     transaction.MethodManual,
		Confidence: 1.0,
	}, nil)

	svc := transaction.NewService(repo)

	tx, err := svc.Override(context.Background(), id, override)
	require.NoError(t, err)

	assert.Equal(t, transaction.StatusClassified, tx.Status)
	assert.Equal(t, transaction.MethodManual, tx.Method)
}
