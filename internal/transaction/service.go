package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// createChunkSize bounds the number of rows written per insert batch.
const createChunkSize = 500

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	ApplyClassification(ctx context.Context, c Classification) error
	OverrideTransaction(ctx context.Context, id uuid.UUID, o Override) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams carries the ingestion-time fields of a transaction.
type CreateParams struct {
	UserID      uuid.UUID
	UploadID    uuid.UUID
	AccountID   string
	Amount      int64
	Type        Type
	Description string
	RawSource   string
	Date        time.Time
	Currency    string
	Fingerprint string
}

type ListFilter struct {
	UserID    *uuid.UUID
	UploadID  *uuid.UUID
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// Classification is one row-level classification write. Writes are
// last-write-wins at the row level; the cascade targets disjoint ids.
type Classification struct {
	TransactionID uuid.UUID
	CategoryID    uuid.UUID
	IsDeductible  bool
	Confidence    float64
	Method        Method
}

// Override is a user-supplied correction of classification fields.
type Override struct {
	CategoryID   *uuid.UUID
	IsDeductible *bool
}

// CreateBatch persists transactions in chunks. A failed chunk aborts the
// remaining writes and returns the number of rows already persisted; earlier
// chunks are not rolled back.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) (int, error) {
	created := 0

	for start := 0; start < len(params); start += createChunkSize {
		end := min(start+createChunkSize, len(params))

		txs := paramsToTransactions(params[start:end])
		if err := s.repo.CreateTransactions(ctx, txs); err != nil {
			return created, fmt.Errorf("create transactions chunk at %d: %w", start, err)
		}

		created += len(txs)
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListPending returns the upload's transactions still awaiting classification.
func (s *Service) ListPending(ctx context.Context, uploadID uuid.UUID) ([]*Transaction, error) {
	status := StatusPendingReview

	return s.repo.ListTransactions(ctx, ListFilter{UploadID: &uploadID, Status: &status})
}

// ApplyClassifications writes a batch of row-level classification results.
// Each write targets a distinct transaction id; a failed row is logged and
// skipped so one bad row cannot sink the rest of the batch.
func (s *Service) ApplyClassifications(ctx context.Context, cs []Classification) int {
	applied := 0

	for _, c := range cs {
		if err := s.repo.ApplyClassification(ctx, c); err != nil {
			slog.Error("failed to apply classification", "transaction_id", c.TransactionID, "error", err)
			continue
		}

		applied++
	}

	return applied
}

// Override applies a user correction and marks the row classified with full
// confidence.
func (s *Service) Override(ctx context.Context, id uuid.UUID, o Override) (*Transaction, error) {
	if err := s.repo.OverrideTransaction(ctx, id, o); err != nil {
		return nil, fmt.Errorf("override transaction: %w", err)
	}

	return s.repo.GetTransaction(ctx, id)
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			UserID:      p.UserID,
			UploadID:    p.UploadID,
			AccountID:   p.AccountID,
			Amount:      p.Amount,
			Type:        p.Type,
			Description: p.Description,
			RawSource:   p.RawSource,
			Date:        p.Date,
			Currency:    p.Currency,
			Fingerprint: p.Fingerprint,
			Status:      StatusPendingReview,
		}
	}

	return txs
}
