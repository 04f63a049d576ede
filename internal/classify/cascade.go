package classify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/category"
	"github.com/taxwiseapp/taxwise/internal/rule"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

const (
	defaultBatchSize = 15
	defaultWorkers   = 1
)

//go:generate mockgen -source=cascade.go -destination=cascade_mock.go -package=classify

// CategoryRepository is the category access the cascade needs.
type CategoryRepository interface {
	EnsureDefaults(ctx context.Context, userID uuid.UUID) error
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

// RuleRepository is the rule access the cascade needs.
type RuleRepository interface {
	ListRules(ctx context.Context, userID uuid.UUID) ([]*rule.Rule, error)
}

// TransactionAccess is the slice of the transaction service the cascade uses.
type TransactionAccess interface {
	ListPending(ctx context.Context, uploadID uuid.UUID) ([]*transaction.Transaction, error)
	ApplyClassifications(ctx context.Context, classifications []transaction.Classification) int
}

// Service runs the classification cascade over an upload's pending
// transactions: owner rules, then the keyword vocabulary, then the AI
// classifier for whatever is left.
type Service struct {
	categories   CategoryRepository
	rules        RuleRepository
	transactions TransactionAccess
	classifier   Classifier
	keywords     []KeywordRule
	batchSize    int
	workers      int
}

func NewService(categories CategoryRepository, rules RuleRepository, transactions TransactionAccess, classifier Classifier, batchSize, workers int) *Service {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Service{
		categories:   categories,
		rules:        rules,
		transactions: transactions,
		classifier:   classifier,
		keywords:     KeywordRules,
		batchSize:    batchSize,
		workers:      workers,
	}
}

// Run classifies every pending transaction of the upload. Deterministic
// verdicts are applied first in one pass; the remainder goes to the AI in
// batches. A failed batch is logged and skipped, its transactions stay
// pending for review, and Run still succeeds.
func (s *Service) Run(ctx context.Context, userID, uploadID uuid.UUID) error {
	if err := s.categories.EnsureDefaults(ctx, userID); err != nil {
		return fmt.Errorf("ensuring default categories: %w", err)
	}

	cats, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}

	catalog := NewCatalog(cats)

	rules, err := s.rules.ListRules(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing rules: %w", err)
	}

	pending, err := s.transactions.ListPending(ctx, uploadID)
	if err != nil {
		return fmt.Errorf("listing pending transactions: %w", err)
	}

	var (
		resolved   []transaction.Classification
		unresolved []*transaction.Transaction
	)

	for _, tx := range pending {
		decision, ok := Decide(tx, rules, s.keywords, catalog)
		if !ok {
			unresolved = append(unresolved, tx)
			continue
		}

		resolved = append(resolved, transaction.Classification{
			TransactionID: tx.ID,
			CategoryID:    decision.CategoryID,
			IsDeductible:  decision.IsDeductible,
			Confidence:    decision.Confidence,
			Method:        decision.Method,
		})
	}

	if len(resolved) > 0 {
		applied := s.transactions.ApplyClassifications(ctx, resolved)

		slog.Info("applied deterministic classifications",
			"upload_id", uploadID, "resolved", len(resolved), "applied", applied)
	}

	if len(unresolved) == 0 || s.classifier == nil {
		return nil
	}

	s.runAI(ctx, catalog, cats, unresolved)

	return nil
}

// runAI classifies the remainder in batches through a bounded worker pool.
// Batch failures are contained: the affected transactions simply stay
// pending.
func (s *Service) runAI(ctx context.Context, catalog *Catalog, cats []*category.Category, txs []*transaction.Transaction) {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}

	batches := make(chan []*transaction.Transaction)

	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for batch := range batches {
				s.classifyBatch(ctx, catalog, names, batch)
			}
		}()
	}

	for start := 0; start < len(txs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(txs) {
			end = len(txs)
		}

		batches <- txs[start:end]
	}

	close(batches)
	wg.Wait()
}

func (s *Service) classifyBatch(ctx context.Context, catalog *Catalog, names []string, batch []*transaction.Transaction) {
	reqs := make([]Request, len(batch))
	for i, tx := range batch {
		reqs[i] = Request{
			Index:       i,
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Date:        tx.Date,
		}
	}

	results, err := s.classifier.Classify(ctx, names, reqs)
	if err != nil {
		slog.Error("ai classification batch failed, transactions stay pending",
			"batch_size", len(batch), "error", err)

		return
	}

	var classifications []transaction.Classification

	for _, res := range results {
		if res.Index < 0 || res.Index >= len(batch) {
			slog.Warn("ai result index out of range", "index", res.Index)
			continue
		}

		cat, ok := catalog.Lookup(res.Category)
		if !ok {
			slog.Warn("ai returned unknown category, dropping", "category", res.Category)
			continue
		}

		tx := batch[res.Index]

		classifications = append(classifications, transaction.Classification{
			TransactionID: tx.ID,
			CategoryID:    cat.ID,
			IsDeductible:  res.IsDeductible && tx.Type == transaction.TypeExpense,
			Confidence:    clamp(res.Confidence),
			Method:        transaction.MethodAI,
		})
	}

	if len(classifications) == 0 {
		return
	}

	s.transactions.ApplyClassifications(ctx, classifications)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
