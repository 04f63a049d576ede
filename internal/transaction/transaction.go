package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Status represents the classification lifecycle state of a transaction.
type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusClassified    Status = "classified"
)

// Method records which stage of the classification cascade resolved a transaction.
type Method string

const (
	MethodUserRule Method = "user_rule"
	MethodKeyword  Method = "keyword"
	MethodAI       Method = "ai"
	MethodManual   Method = "manual"
)

var ErrNotFound = errors.New("transaction not found")

// Transaction is the canonical record produced by any ingestion adapter.
// Amount is in cents and always non-negative; Type carries the sign.
// Ingestion fields are immutable after creation; only the classification
// fields (CategoryID, IsDeductible, Confidence, Method, Status) change.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	UploadID    uuid.UUID
	AccountID   string
	Amount      int64 // cents
	Type        Type
	Description string
	RawSource   string // original row or line, kept for audit
	Date        time.Time
	Currency    string
	Fingerprint string

	CategoryID   *uuid.UUID
	IsDeductible bool
	Confidence   float64
	Method       Method
	Status       Status

	CreatedAt time.Time
	UpdatedAt *time.Time
}
