package pdfstatement

import (
	"fmt"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

// Parser turns a digital PDF bank statement into transactions by walking the
// text layer line by line.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts transactions from the PDF bytes. A scanned or image-only
// document returns ErrNoExtractableText; readable text with no recognizable
// transaction lines returns an empty slice and no error.
func (p *Parser) Parse(data []byte) ([]transaction.CreateParams, error) {
	lines, err := extractLines(data)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return Extract(lines), nil
}
