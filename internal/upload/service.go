package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/fingerprint"
	"github.com/taxwiseapp/taxwise/internal/importer/generic"
	"github.com/taxwiseapp/taxwise/internal/importer/pdfstatement"
	"github.com/taxwiseapp/taxwise/internal/summary"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=upload

// Repository persists upload records.
type Repository interface {
	CreateUpload(ctx context.Context, u *Upload) error
	UpdateUpload(ctx context.Context, id uuid.UUID, status Status, profile *generic.Mapping) error
	GetUpload(ctx context.Context, userID, id uuid.UUID) (*Upload, error)
	ListUploads(ctx context.Context, userID uuid.UUID) ([]*Upload, error)
}

// TransactionCreator is the slice of the transaction service ingestion uses.
type TransactionCreator interface {
	CreateBatch(ctx context.Context, params []transaction.CreateParams) (int, error)
}

// Cascade classifies an upload's pending transactions.
type Cascade interface {
	Run(ctx context.Context, userID, uploadID uuid.UUID) error
}

// SummaryGenerator recomputes the upload's rollup.
type SummaryGenerator interface {
	Generate(ctx context.Context, userID, uploadID uuid.UUID) (*summary.Summary, error)
}

type Service struct {
	repo         Repository
	transactions TransactionCreator
	cascade      Cascade
	summaries    SummaryGenerator
	csv          *generic.Parser
	pdf          *pdfstatement.Parser
	currency     string
}

func NewService(repo Repository, transactions TransactionCreator, cascade Cascade, summaries SummaryGenerator, currency string) *Service {
	return &Service{
		repo:         repo,
		transactions: transactions,
		cascade:      cascade,
		summaries:    summaries,
		csv:          generic.NewParser(),
		pdf:          pdfstatement.NewParser(),
		currency:     currency,
	}
}

// ProcessParams is one statement file submission.
type ProcessParams struct {
	UserID   uuid.UUID
	Filename string
	Format   Format
	Data     []byte
	Mapping  *generic.Mapping
}

// ProcessResult reports what one submission produced.
type ProcessResult struct {
	Upload           *Upload          `json:"upload"`
	TransactionCount int              `json:"transaction_count"`
	Summary          *summary.Summary `json:"summary,omitempty"`
}

// Process ingests one statement file end to end: parse, fingerprint, persist,
// classify, summarize. A mapping the parser cannot complete surfaces as
// *generic.MappingIncompleteError with the upload marked failed, so the
// caller can collect a manual mapping and resubmit. Transactions persisted
// before a mid-batch failure are kept.
func (s *Service) Process(ctx context.Context, p ProcessParams) (*ProcessResult, error) {
	up := &Upload{
		UserID:   p.UserID,
		Filename: p.Filename,
		Format:   p.Format,
		Status:   StatusProcessing,
	}

	if err := s.repo.CreateUpload(ctx, up); err != nil {
		return nil, fmt.Errorf("creating upload: %w", err)
	}

	params, profile, err := s.parse(p)
	if err != nil {
		s.markFailed(ctx, up.ID)

		return nil, err
	}

	for i := range params {
		params[i].UserID = p.UserID
		params[i].UploadID = up.ID
		params[i].Currency = s.currency
		params[i].Fingerprint = fingerprint.Ingest(params[i].AccountID, params[i].Date, params[i].Amount, params[i].Description)
	}

	created, err := s.transactions.CreateBatch(ctx, params)
	if err != nil {
		// Chunks persisted before the failure stand; the failed status tells
		// the owner the upload is incomplete.
		s.markFailed(ctx, up.ID)

		return nil, fmt.Errorf("persisting transactions: %w", err)
	}

	up.Status = StatusCompleted
	up.ParsingProfile = profile

	if err := s.repo.UpdateUpload(ctx, up.ID, StatusCompleted, profile); err != nil {
		return nil, fmt.Errorf("completing upload: %w", err)
	}

	if err := s.cascade.Run(ctx, p.UserID, up.ID); err != nil {
		slog.Error("classification failed, transactions stay pending",
			"upload_id", up.ID, "error", err)
	}

	sum, err := s.summaries.Generate(ctx, p.UserID, up.ID)
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	return &ProcessResult{Upload: up, TransactionCount: created, Summary: sum}, nil
}

func (s *Service) parse(p ProcessParams) ([]transaction.CreateParams, *generic.Mapping, error) {
	switch p.Format {
	case FormatCSV:
		res, err := s.csv.Parse(bytes.NewReader(p.Data), p.Mapping)
		if err != nil {
			var incomplete *generic.MappingIncompleteError
			if errors.As(err, &incomplete) {
				return nil, nil, incomplete
			}

			return nil, nil, fmt.Errorf("parsing csv: %w", err)
		}

		return res.Transactions, &res.Mapping, nil

	case FormatPDF:
		txs, err := s.pdf.Parse(p.Data)
		if err != nil {
			return nil, nil, err
		}

		return txs, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported format %q", p.Format)
	}
}

func (s *Service) markFailed(ctx context.Context, id uuid.UUID) {
	if err := s.repo.UpdateUpload(ctx, id, StatusFailed, nil); err != nil {
		slog.Error("failed to mark upload failed", "upload_id", id, "error", err)
	}
}

// Reclassify reruns the cascade over the upload's pending transactions and
// regenerates the rollup, typically after the owner added rules or
// overrides.
func (s *Service) Reclassify(ctx context.Context, userID, id uuid.UUID) (*summary.Summary, error) {
	if _, err := s.repo.GetUpload(ctx, userID, id); err != nil {
		return nil, err
	}

	if err := s.cascade.Run(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("classifying upload: %w", err)
	}

	sum, err := s.summaries.Generate(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	return sum, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Upload, error) {
	return s.repo.GetUpload(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Upload, error) {
	return s.repo.ListUploads(ctx, userID)
}
