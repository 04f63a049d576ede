package fingerprint_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taxwiseapp/taxwise/internal/fingerprint"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestIngest_Stable(t *testing.T) {
	a := fingerprint.Ingest("acct-1", day(2024, 3, 1), 1500000, "Uber Ride")
	b := fingerprint.Ingest("acct-1", day(2024, 3, 1), 1500000, "uber ride")
	c := fingerprint.Ingest("acct-1", day(2024, 3, 1), 1500000, "  UBER-RIDE ")

	assert.Equal(t, a, b, "case must not change the fingerprint")
	assert.Equal(t, a, c, "punctuation and spacing must not change the fingerprint")
}

func TestIngest_SensitiveToEachInput(t *testing.T) {
	base := fingerprint.Ingest("acct-1", day(2024, 3, 1), 1500000, "MTN Data Bundle")

	tests := []struct {
		name string
		got  string
	}{
		{"account", fingerprint.Ingest("acct-2", day(2024, 3, 1), 1500000, "MTN Data Bundle")},
		{"date", fingerprint.Ingest("acct-1", day(2024, 3, 2), 1500000, "MTN Data Bundle")},
		{"amount", fingerprint.Ingest("acct-1", day(2024, 3, 1), 1500001, "MTN Data Bundle")},
		{"description", fingerprint.Ingest("acct-1", day(2024, 3, 1), 1500000, "MTN Airtime")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.got)
		})
	}
}

func TestAnalysis_IncludesType(t *testing.T) {
	exp := fingerprint.Analysis(day(2024, 3, 1), 500000, "Transfer", "expense")
	inc := fingerprint.Analysis(day(2024, 3, 1), 500000, "Transfer", "income")

	assert.NotEqual(t, exp, inc)
}

func TestAnalysis_DuplicatePair(t *testing.T) {
	a := fingerprint.Analysis(day(2024, 3, 5), 120050, "Uber Ride", "expense")
	b := fingerprint.Analysis(day(2024, 3, 5), 120050, "uber ride", "expense")

	assert.Equal(t, a, b)
}
