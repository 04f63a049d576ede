package generic

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

// dateLayouts to try, most common in bank exports first. Day-first layouts
// precede month-first because the supported banks export day-first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"02/01/06",
}

// normalizeRow converts one raw CSV row into canonical transaction fields
// using a complete mapping. A bad date never aborts the batch: it is logged
// and defaulted to the processing date. A row that yields amount zero is
// reported via ok=false and must be discarded by the caller.
func normalizeRow(row map[string]string, m Mapping, now time.Time) (transaction.CreateParams, bool) {
	date, parsed := parseDate(row[m.Date])
	if !parsed {
		slog.Warn("unparseable date cell, defaulting to processing date", "value", row[m.Date])

		date = now.UTC().Truncate(24 * time.Hour)
	}

	var (
		amount int64
		txType transaction.Type
	)

	switch {
	case m.Amount != "":
		raw := cleanAmount(row[m.Amount])
		amount = abs(raw)
		txType = deriveType(row[m.Type], raw)
	case m.Debit != "" && m.Credit != "":
		if debit := abs(cleanAmount(row[m.Debit])); debit != 0 {
			amount = debit
			txType = transaction.TypeExpense
		} else if credit := abs(cleanAmount(row[m.Credit])); credit != 0 {
			amount = credit
			txType = transaction.TypeIncome
		}
	}

	if amount == 0 {
		return transaction.CreateParams{}, false
	}

	return transaction.CreateParams{
		Amount:      amount,
		Type:        txType,
		Description: strings.TrimSpace(row[m.Description]),
		Date:        date,
	}, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() < 100 {
				t = t.AddDate(2000, 0, 0)
			}

			return t, true
		}
	}

	return time.Time{}, false
}

// deriveType resolves income vs expense. An explicit type column wins when
// its value matches a known debit/credit synonym; otherwise the sign of the
// raw amount decides (negative means money out).
func deriveType(typeCell string, rawAmount int64) transaction.Type {
	v := strings.ToLower(strings.TrimSpace(typeCell))

	switch {
	case v == "":
	case strings.Contains(v, "debit") || strings.Contains(v, "dr") ||
		strings.Contains(v, "withdrawal") || v == "expense":
		return transaction.TypeExpense
	case strings.Contains(v, "credit") || strings.Contains(v, "cr") ||
		strings.Contains(v, "deposit") || v == "income":
		return transaction.TypeIncome
	}

	if rawAmount < 0 {
		return transaction.TypeExpense
	}

	return transaction.TypeIncome
}

// cleanAmount parses a currency cell into signed cents, tolerating symbols,
// commas and whitespace. Unparseable cells yield zero.
func cleanAmount(s string) int64 {
	var b strings.Builder

	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	val, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}

	return int64(math.Round(val * 100))
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
