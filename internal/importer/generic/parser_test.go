package generic

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

func newTestParser() *Parser {
	p := NewParser()
	p.now = fixedNow

	return p
}

func TestParseSignedAmountColumn(t *testing.T) {
	csv := strings.Join([]string{
		"Date,Description,Amount",
		"2024-03-01,MTN DATA RENEWAL,-15000",
		"2024-03-05,SALARY MARCH,850000",
	}, "\n")

	res, err := newTestParser().Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, int64(1500000), res.Transactions[0].Amount)
	assert.Equal(t, transaction.TypeExpense, res.Transactions[0].Type)
	assert.Equal(t, "MTN DATA RENEWAL", res.Transactions[0].Description)

	assert.Equal(t, int64(85000000), res.Transactions[1].Amount)
	assert.Equal(t, transaction.TypeIncome, res.Transactions[1].Type)
}

func TestParseDebitCreditColumns(t *testing.T) {
	csv := strings.Join([]string{
		"Narration,Value Date,Debit,Credit",
		"POS PURCHASE SHOPRITE,01/03/2024,5000,",
		"NIP TRANSFER IN,02/03/2024,,25000",
	}, "\n")

	res, err := newTestParser().Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, int64(500000), res.Transactions[0].Amount)
	assert.Equal(t, transaction.TypeExpense, res.Transactions[0].Type)
	assert.Equal(t, "POS PURCHASE SHOPRITE", res.Transactions[0].Description)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), res.Transactions[0].Date)

	assert.Equal(t, int64(2500000), res.Transactions[1].Amount)
	assert.Equal(t, transaction.TypeIncome, res.Transactions[1].Type)
}

func TestParseIncompleteMapping(t *testing.T) {
	csv := strings.Join([]string{
		"When,What,How Much",
		"2024-03-01,Coffee,1200",
		"2024-03-02,Books,5000",
	}, "\n")

	_, err := newTestParser().Parse(strings.NewReader(csv), nil)

	var incomplete *MappingIncompleteError
	require.True(t, errors.As(err, &incomplete))

	assert.Equal(t, []string{"When", "What", "How Much"}, incomplete.Headers)
	assert.Len(t, incomplete.Preview, 2)
	assert.False(t, incomplete.Detected.Complete())
}

func TestParseManualMappingMerge(t *testing.T) {
	csv := strings.Join([]string{
		"When,Description,How Much",
		"2024-03-01,Coffee,-1200",
	}, "\n")

	manual := &Mapping{Date: "When", Amount: "How Much"}

	res, err := newTestParser().Parse(strings.NewReader(csv), manual)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	assert.Equal(t, int64(120000), res.Transactions[0].Amount)
	assert.Equal(t, transaction.TypeExpense, res.Transactions[0].Type)
	assert.Equal(t, "Coffee", res.Transactions[0].Description)

	// Heuristic detection survives the merge for fields the manual mapping
	// leaves empty.
	assert.Equal(t, "Description", res.Mapping.Description)
	assert.Equal(t, "When", res.Mapping.Date)
}

func TestParseBadDateDefaultsToProcessingDate(t *testing.T) {
	csv := strings.Join([]string{
		"Date,Description,Amount",
		"not-a-date,AIRTIME,-500",
	}, "\n")

	res, err := newTestParser().Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	assert.Equal(t, fixedNow().Truncate(24*time.Hour), res.Transactions[0].Date)
}

func TestParseSkipsZeroAmountRows(t *testing.T) {
	csv := strings.Join([]string{
		"Date,Description,Amount",
		"2024-03-01,PENDING HOLD,0",
		"2024-03-02,AIRTIME,-500",
	}, "\n")

	res, err := newTestParser().Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	assert.Equal(t, "AIRTIME", res.Transactions[0].Description)
}

func TestParseKeepsRawRow(t *testing.T) {
	csv := strings.Join([]string{
		"Date,Description,Amount",
		"2024-03-01,MTN DATA RENEWAL,-15000",
	}, "\n")

	res, err := newTestParser().Parse(strings.NewReader(csv), nil)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	assert.Equal(t, "2024-03-01,MTN DATA RENEWAL,-15000", res.Transactions[0].RawSource)
}

func TestMapColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    Mapping
	}{
		{
			name:    "standard export",
			headers: []string{"Date", "Description", "Amount"},
			want:    Mapping{Date: "Date", Description: "Description", Amount: "Amount"},
		},
		{
			name:    "bank vocabulary",
			headers: []string{"Narration", "Value Date", "Debit", "Credit"},
			want:    Mapping{Date: "Value Date", Description: "Narration", Debit: "Debit", Credit: "Credit"},
		},
		{
			name:    "bom and casing",
			headers: []string{"\uFEFFDATE", "NARRATION", "AMOUNT"},
			want:    Mapping{Date: "\uFEFFDATE", Description: "NARRATION", Amount: "AMOUNT"},
		},
		{
			name:    "exact match only",
			headers: []string{"date of birth", "description", "amount"},
			want:    Mapping{Description: "description", Amount: "amount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapColumns(tt.headers, DefaultSynonyms))
		})
	}
}
