package generic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/taxwiseapp/taxwise/internal/encoding"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

const previewRows = 3

// Parser reads arbitrary-column bank CSV exports. Headers are resolved to
// semantic fields by synonym matching; rows that survive normalization come
// back as canonical transaction params.
type Parser struct {
	synonyms SynonymTable
	now      func() time.Time
}

func NewParser() *Parser {
	return &Parser{synonyms: DefaultSynonyms, now: time.Now}
}

// NewParserWithTable builds a parser over a custom synonym table. Used by
// tests and by deployments with bank-specific header vocabularies.
func NewParserWithTable(table SynonymTable) *Parser {
	return &Parser{synonyms: table, now: time.Now}
}

// Result carries the normalized rows and the effective mapping that produced
// them.
type Result struct {
	Transactions []transaction.CreateParams
	Mapping      Mapping
}

// Parse reads the CSV and normalizes its rows. The manual mapping, when
// non-nil, is merged field-by-field over heuristic detection. An incomplete
// effective mapping returns *MappingIncompleteError carrying the headers and
// a row preview so the caller can ask the user instead of failing.
func (p *Parser) Parse(r io.Reader, manual *Mapping) (*Result, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	headers := rows[0]
	dataRows := rows[1:]

	mapping := MapColumns(headers, p.synonyms)
	if manual != nil {
		mapping = mapping.Merge(*manual)
	}

	if !mapping.Complete() {
		return nil, &MappingIncompleteError{
			Headers:  headers,
			Detected: mapping,
			Preview:  preview(dataRows),
		}
	}

	// First occurrence wins on duplicate headers.
	headerIdx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := headerIdx[h]; !ok {
			headerIdx[h] = i
		}
	}

	now := p.now()

	var txs []transaction.CreateParams

	for _, row := range dataRows {
		cells := make(map[string]string, len(headerIdx))
		for h, i := range headerIdx {
			if i < len(row) {
				cells[h] = row[i]
			}
		}

		params, ok := normalizeRow(cells, mapping, now)
		if !ok {
			continue
		}

		params.RawSource = strings.Join(row, ",")
		txs = append(txs, params)
	}

	return &Result{Transactions: txs, Mapping: mapping}, nil
}

func preview(rows [][]string) [][]string {
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}

	out := make([][]string, len(rows))
	copy(out, rows)

	return out
}
