// Package fingerprint derives deterministic duplicate-detection keys from
// transaction attributes. Keys are heuristic identity, not cryptographic:
// two legitimate transactions with the same account, day, amount and
// description are indistinguishable by design of the inputs.
package fingerprint

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Ingest computes the fingerprint stored at ingestion time, used for
// cross-upload duplicate lookups. Amount is in cents.
func Ingest(accountID string, date time.Time, amountCents int64, description string) string {
	return digest(accountID, date.Format("2006-01-02"), formatAmount(amountCents), normalize(description))
}

// Analysis computes the fingerprint used at aggregation time to flag
// probable duplicates within one scope. It omits the account and adds the
// transaction type.
func Analysis(date time.Time, amountCents int64, description, txType string) string {
	return digest(date.Format("2006-01-02"), formatAmount(amountCents), normalize(description), txType)
}

func digest(parts ...string) string {
	h := xxhash.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.WriteString("|")
		}

		_, _ = h.WriteString(p)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

// formatAmount renders cents at fixed 2-decimal precision.
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// normalize reduces a description to lowercase alphanumerics so that
// formatting noise (case, spacing, punctuation) does not split duplicates.
func normalize(description string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(description) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}
