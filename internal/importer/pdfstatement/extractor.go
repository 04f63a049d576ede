package pdfstatement

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

var (
	// dateRe matches the three date spellings bank statement PDFs use:
	// 01/03/2024, 2024-03-01 and 01 Mar 2024.
	dateRe = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2} [A-Za-z]{3} \d{4})\b`)

	// amountRe matches money tokens with optional thousands separators.
	// Decimal form is preferred so "12,500.00" is not read as "12" and "500".
	amountRe = regexp.MustCompile(`[\d,]+\.\d{2}|[\d,]+`)

	creditMarkerRe = regexp.MustCompile(`(?i)\b(cr|credit)\b`)
	debitMarkerRe  = regexp.MustCompile(`(?i)\b(dr|debit)\b`)

	descNoiseRe = regexp.MustCompile(`[^a-zA-Z0-9 &/.'-]`)
	multiSpace  = regexp.MustCompile(`\s+`)
)

var lineDateLayouts = []string{"02/01/2006", "2006-01-02", "2 Jan 2006", "02 Jan 2006"}

// Extract parses statement lines into transactions. A line only counts when
// it carries both a date and at least one non-zero amount; everything else
// (headers, footers, page furniture) is skipped. On lines with a running
// balance the first amount token is the transaction amount.
func Extract(lines []string) []transaction.CreateParams {
	var txs []transaction.CreateParams

	for _, line := range lines {
		tx, ok := extractLine(line)
		if !ok {
			continue
		}

		txs = append(txs, tx)
	}

	return txs
}

func extractLine(line string) (transaction.CreateParams, bool) {
	dateToken := dateRe.FindString(line)
	if dateToken == "" {
		return transaction.CreateParams{}, false
	}

	date, ok := parseLineDate(dateToken)
	if !ok {
		return transaction.CreateParams{}, false
	}

	rest := strings.Replace(line, dateToken, "", 1)

	amountTokens := amountRe.FindAllString(rest, -1)
	if len(amountTokens) == 0 {
		return transaction.CreateParams{}, false
	}

	amount := parseAmount(amountTokens[0])
	if amount == 0 {
		return transaction.CreateParams{}, false
	}

	txType := transaction.TypeExpense
	if creditMarkerRe.MatchString(rest) {
		txType = transaction.TypeIncome
	} else if !debitMarkerRe.MatchString(rest) {
		// No Cr/Dr marker: treat as money out, the common case for
		// statements that only annotate credits.
		txType = transaction.TypeExpense
	}

	desc := rest
	for _, token := range amountTokens {
		desc = strings.Replace(desc, token, "", 1)
	}

	desc = creditMarkerRe.ReplaceAllString(desc, "")
	desc = debitMarkerRe.ReplaceAllString(desc, "")
	desc = descNoiseRe.ReplaceAllString(desc, " ")
	desc = strings.TrimSpace(multiSpace.ReplaceAllString(desc, " "))

	if desc == "" {
		desc = "Unknown transaction"
	}

	return transaction.CreateParams{
		Amount:      amount,
		Type:        txType,
		Description: desc,
		RawSource:   line,
		Date:        date,
	}, true
}

func parseLineDate(token string) (time.Time, bool) {
	for _, layout := range lineDateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseAmount(token string) int64 {
	cleaned := strings.ReplaceAll(token, ",", "")

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}

	return int64(math.Round(val * 100))
}
