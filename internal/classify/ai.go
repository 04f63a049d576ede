package classify

import (
	"context"
	"time"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

//go:generate mockgen -source=ai.go -destination=classifier_mock.go -package=classify

// Classifier resolves transactions no deterministic stage could, typically
// by asking a language model. Implementations must return one result per
// resolvable request; requests they cannot resolve are simply omitted.
type Classifier interface {
	Classify(ctx context.Context, categories []string, reqs []Request) ([]Result, error)
}

// Request describes one transaction for the model. Index ties the result
// back to the caller's batch.
type Request struct {
	Index       int              `json:"index"`
	Description string           `json:"description"`
	Amount      int64            `json:"amount"`
	Type        transaction.Type `json:"type"`
	Date        time.Time        `json:"date"`
}

// Result is the model's verdict for one request.
type Result struct {
	Index        int     `json:"index"`
	Category     string  `json:"category"`
	IsDeductible bool    `json:"is_deductible"`
	Confidence   float64 `json:"confidence"`
}
