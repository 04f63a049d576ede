package generic

import (
	"fmt"
	"strings"
)

// Field is a semantic column of a bank statement export.
type Field string

const (
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldType        Field = "type"
	FieldAmount      Field = "amount"
	FieldDebit       Field = "debit"
	FieldCredit      Field = "credit"
	FieldBalance     Field = "balance"
)

// SynonymSet binds one semantic field to the header spellings banks use for
// it. Matching is exact on the normalized header, never substring, so
// "transaction date" cannot shadow "date of birth".
type SynonymSet struct {
	Field    Field
	Synonyms []string
}

// SynonymTable is the ordered detection table. Order is the resolution
// priority: earlier fields claim their header before later ones are
// considered.
type SynonymTable []SynonymSet

// DefaultSynonyms covers the column spellings seen across Nigerian bank CSV
// exports. Injected into the parser so precedence stays auditable and
// testable.
var DefaultSynonyms = SynonymTable{
	{Field: FieldDate, Synonyms: []string{"date", "transaction date", "value date", "posting date"}},
	{Field: FieldDescription, Synonyms: []string{"description", "narration", "remarks", "details", "memo", "particulars"}},
	{Field: FieldType, Synonyms: []string{"type", "transaction type", "cr/dr", "dr/cr"}},
	{Field: FieldAmount, Synonyms: []string{"amount", "transaction amount", "value"}},
	{Field: FieldDebit, Synonyms: []string{"debit", "withdrawal", "dr"}},
	{Field: FieldCredit, Synonyms: []string{"credit", "deposit", "cr"}},
	{Field: FieldBalance, Synonyms: []string{"balance", "running balance", "available balance"}},
}

// Mapping is the resolved binding of semantic fields to raw CSV headers.
// Unset fields are empty strings.
type Mapping struct {
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Debit       string `json:"debit,omitempty"`
	Credit      string `json:"credit,omitempty"`
	Balance     string `json:"balance,omitempty"`
}

// Complete reports whether the mapping can drive row normalization: date and
// description must be bound, plus either a single amount column or the
// debit/credit pair.
func (m Mapping) Complete() bool {
	if m.Date == "" || m.Description == "" {
		return false
	}

	return m.Amount != "" || (m.Debit != "" && m.Credit != "")
}

// Merge overlays the override onto m field-by-field, keeping detected
// bindings for fields the override leaves empty.
func (m Mapping) Merge(override Mapping) Mapping {
	if override.Date != "" {
		m.Date = override.Date
	}

	if override.Description != "" {
		m.Description = override.Description
	}

	if override.Type != "" {
		m.Type = override.Type
	}

	if override.Amount != "" {
		m.Amount = override.Amount
	}

	if override.Debit != "" {
		m.Debit = override.Debit
	}

	if override.Credit != "" {
		m.Credit = override.Credit
	}

	if override.Balance != "" {
		m.Balance = override.Balance
	}

	return m
}

func (m *Mapping) set(f Field, header string) {
	switch f {
	case FieldDate:
		m.Date = header
	case FieldDescription:
		m.Description = header
	case FieldType:
		m.Type = header
	case FieldAmount:
		m.Amount = header
	case FieldDebit:
		m.Debit = header
	case FieldCredit:
		m.Credit = header
	case FieldBalance:
		m.Balance = header
	}
}

// MapColumns resolves raw CSV headers to semantic fields. Each header is
// normalized (BOM stripped, trimmed, lowercased) and compared for exact
// equality against the table's synonyms; for each field the first matching
// header wins, so duplicate headers resolve deterministically.
func MapColumns(headers []string, table SynonymTable) Mapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	var mapping Mapping

	for _, set := range table {
		for i, n := range normalized {
			if containsExact(set.Synonyms, n) {
				mapping.set(set.Field, headers[i])
				break
			}
		}
	}

	return mapping
}

// NormalizeHeader strips a leading byte-order mark, trims whitespace and
// lowercases the header.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")

	return strings.ToLower(strings.TrimSpace(h))
}

func containsExact(synonyms []string, s string) bool {
	for _, syn := range synonyms {
		if syn == s {
			return true
		}
	}

	return false
}

// MappingIncompleteError is the recoverable "ask the user" condition: the
// heuristic could not bind enough columns, so the caller should request a
// manual mapping rather than fail the upload.
type MappingIncompleteError struct {
	Headers  []string
	Detected Mapping
	Preview  [][]string
}

func (e *MappingIncompleteError) Error() string {
	return fmt.Sprintf("column mapping incomplete: detected %+v from headers %v", e.Detected, e.Headers)
}
