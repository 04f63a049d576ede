package pdfstatement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		line string
		want transaction.CreateParams
		skip bool
	}{
		{
			name: "debit line with running balance",
			line: "01/03/2024 POS PURCHASE SHOPRITE 12,500.00 Dr 340,000.00",
			want: transaction.CreateParams{
				Amount:      1250000,
				Type:        transaction.TypeExpense,
				Description: "POS PURCHASE SHOPRITE",
				RawSource:   "01/03/2024 POS PURCHASE SHOPRITE 12,500.00 Dr 340,000.00",
				Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "credit line",
			line: "2024-03-05 SALARY MARCH 850,000.00 Cr 1,190,000.00",
			want: transaction.CreateParams{
				Amount:      85000000,
				Type:        transaction.TypeIncome,
				Description: "SALARY MARCH",
				RawSource:   "2024-03-05 SALARY MARCH 850,000.00 Cr 1,190,000.00",
				Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "textual month date without marker defaults to expense",
			line: "12 Mar 2024 TRANSFER TO JOHN 40,000.00",
			want: transaction.CreateParams{
				Amount:      4000000,
				Type:        transaction.TypeExpense,
				Description: "TRANSFER TO JOHN",
				RawSource:   "12 Mar 2024 TRANSFER TO JOHN 40,000.00",
				Date:        time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "header line without date",
			line: "Date Description Amount Balance",
			skip: true,
		},
		{
			name: "date without amount",
			line: "01/03/2024 Statement period opening",
			skip: true,
		},
		{
			name: "zero amount",
			line: "01/03/2024 REVERSAL 0.00 Dr",
			skip: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract([]string{tt.line})

			if tt.skip {
				assert.Empty(t, got)
				return
			}

			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestExtractMultipleLines(t *testing.T) {
	lines := []string{
		"STANBIC BANK PLC",
		"Statement of Account",
		"01/03/2024 POS PURCHASE SHOPRITE 12,500.00 Dr 340,000.00",
		"02/03/2024 MTN AIRTIME 1,000.00 Dr 339,000.00",
		"Page 1 of 3",
	}

	got := Extract(lines)

	require.Len(t, got, 2)
	assert.Equal(t, "POS PURCHASE SHOPRITE", got[0].Description)
	assert.Equal(t, "MTN AIRTIME", got[1].Description)
}
