package rule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("rule not found")

// Rule is a user-owned classification rule. Pattern matches as a
// case-insensitive substring of the transaction description. Position is the
// explicit evaluation order (lowest first); ties break on creation time so
// evaluation never depends on incidental fetch order.
type Rule struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Pattern            string    `json:"pattern"`
	CategoryID         uuid.UUID `json:"category_id"`
	DeductibleOverride *bool     `json:"deductible_override,omitempty"`
	Position           int       `json:"position"`
	CreatedAt          time.Time `json:"created_at"`
}
