package pdfstatement

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// maxTextBytes caps extracted text so a pathological PDF cannot balloon
	// memory.
	maxTextBytes = 100 * 1024

	// scannedThreshold is chars per page below which the document is treated
	// as a scanned image with no usable text layer.
	scannedThreshold = 50
)

// ErrNoExtractableText marks a PDF with no usable text layer (scanned or
// image-only). Callers surface it separately from "no transactions found in
// readable text" so the user knows a different file type is needed, not a
// retry.
var ErrNoExtractableText = errors.New("pdf has no extractable text")

// extractLines pulls the text layer out of a digital PDF and returns its
// non-empty lines. The pdf library panics on some malformed documents, so
// the whole extraction is wrapped in recover.
func extractLines(data []byte) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered from pdf library panic", "panic", r)

			lines = nil
			err = fmt.Errorf("analyze pdf: %w", ErrNoExtractableText)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pages := reader.NumPage()
	if pages < 1 {
		pages = 1
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	textBytes, err := io.ReadAll(io.LimitReader(plainText, maxTextBytes))
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	text := string(textBytes)
	if len(text)/pages < scannedThreshold {
		return nil, ErrNoExtractableText
	}

	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	return lines, nil
}
