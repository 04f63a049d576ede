package upload

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/taxwiseapp/taxwise/internal/importer/generic"
	"github.com/taxwiseapp/taxwise/internal/summary"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

const csvStatement = "Date,Description,Amount\n2024-03-01,MTN DATA RENEWAL,-15000\n2024-03-05,SALARY MARCH,850000\n"

func expectCreate(repo *MockRepository, uploadID uuid.UUID) {
	repo.EXPECT().CreateUpload(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *Upload) error {
			u.ID = uploadID
			return nil
		})
}

func TestProcessCSV(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	repo := NewMockRepository(ctrl)
	expectCreate(repo, uploadID)
	repo.EXPECT().UpdateUpload(gomock.Any(), uploadID, StatusCompleted, gomock.Not(gomock.Nil())).Return(nil)

	creator := NewMockTransactionCreator(ctrl)
	creator.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params []transaction.CreateParams) (int, error) {
			require.Len(t, params, 2)

			for _, p := range params {
				assert.Equal(t, userID, p.UserID)
				assert.Equal(t, uploadID, p.UploadID)
				assert.Equal(t, "NGN", p.Currency)
				assert.NotEmpty(t, p.Fingerprint)
			}

			return len(params), nil
		})

	cascade := NewMockCascade(ctrl)
	cascade.EXPECT().Run(gomock.Any(), userID, uploadID).Return(nil)

	summaries := NewMockSummaryGenerator(ctrl)
	summaries.EXPECT().Generate(gomock.Any(), userID, uploadID).Return(&summary.Summary{}, nil)

	svc := NewService(repo, creator, cascade, summaries, "NGN")

	res, err := svc.Process(context.Background(), ProcessParams{
		UserID:   userID,
		Filename: "statement.csv",
		Format:   FormatCSV,
		Data:     []byte(csvStatement),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TransactionCount)
	assert.Equal(t, StatusCompleted, res.Upload.Status)
	require.NotNil(t, res.Upload.ParsingProfile)
	assert.Equal(t, "Amount", res.Upload.ParsingProfile.Amount)
	assert.NotNil(t, res.Summary)
}

func TestProcessCSVMappingIncomplete(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	repo := NewMockRepository(ctrl)
	expectCreate(repo, uploadID)
	repo.EXPECT().UpdateUpload(gomock.Any(), uploadID, StatusFailed, gomock.Nil()).Return(nil)

	svc := NewService(repo, NewMockTransactionCreator(ctrl), NewMockCascade(ctrl), NewMockSummaryGenerator(ctrl), "NGN")

	_, err := svc.Process(context.Background(), ProcessParams{
		UserID:   userID,
		Filename: "weird.csv",
		Format:   FormatCSV,
		Data:     []byte("When,What,How Much\n2024-03-01,Coffee,1200\n"),
	})

	var incomplete *generic.MappingIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"When", "What", "How Much"}, incomplete.Headers)
}

func TestProcessCreateBatchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	repo := NewMockRepository(ctrl)
	expectCreate(repo, uploadID)
	repo.EXPECT().UpdateUpload(gomock.Any(), uploadID, StatusFailed, gomock.Nil()).Return(nil)

	creator := NewMockTransactionCreator(ctrl)
	creator.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(1, errors.New("db down"))

	svc := NewService(repo, creator, NewMockCascade(ctrl), NewMockSummaryGenerator(ctrl), "NGN")

	_, err := svc.Process(context.Background(), ProcessParams{
		UserID:   userID,
		Filename: "statement.csv",
		Format:   FormatCSV,
		Data:     []byte(csvStatement),
	})

	require.ErrorContains(t, err, "persisting transactions")
}

func TestProcessClassificationFailureStillSummarizes(t *testing.T) {
	ctrl := gomock.NewController(t)

	userID := uuid.New()
	uploadID := uuid.New()

	repo := NewMockRepository(ctrl)
	expectCreate(repo, uploadID)
	repo.EXPECT().UpdateUpload(gomock.Any(), uploadID, StatusCompleted, gomock.Any()).Return(nil)

	creator := NewMockTransactionCreator(ctrl)
	creator.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(2, nil)

	cascade := NewMockCascade(ctrl)
	cascade.EXPECT().Run(gomock.Any(), userID, uploadID).Return(errors.New("model unavailable"))

	summaries := NewMockSummaryGenerator(ctrl)
	summaries.EXPECT().Generate(gomock.Any(), userID, uploadID).Return(&summary.Summary{}, nil)

	svc := NewService(repo, creator, cascade, summaries, "NGN")

	res, err := svc.Process(context.Background(), ProcessParams{
		UserID:   userID,
		Filename: "statement.csv",
		Format:   FormatCSV,
		Data:     []byte(csvStatement),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, res.Upload.Status)
}

func TestProcessUnsupportedFormat(t *testing.T) {
	ctrl := gomock.NewController(t)

	uploadID := uuid.New()

	repo := NewMockRepository(ctrl)
	expectCreate(repo, uploadID)
	repo.EXPECT().UpdateUpload(gomock.Any(), uploadID, StatusFailed, gomock.Nil()).Return(nil)

	svc := NewService(repo, NewMockTransactionCreator(ctrl), NewMockCascade(ctrl), NewMockSummaryGenerator(ctrl), "NGN")

	_, err := svc.Process(context.Background(), ProcessParams{
		UserID:   uuid.New(),
		Filename: "statement.xlsx",
		Format:   Format("xlsx"),
		Data:     []byte("whatever"),
	})

	require.ErrorContains(t, err, "unsupported format")
}
