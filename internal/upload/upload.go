package upload

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/importer/generic"
)

var ErrNotFound = errors.New("upload not found")

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Format is the statement file type being ingested.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Upload is one statement ingestion attempt. ParsingProfile records the
// effective column mapping for CSV uploads so reprocessing and audit can see
// how columns were interpreted.
type Upload struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	Filename       string           `json:"filename"`
	Format         Format           `json:"format"`
	Status         Status           `json:"status"`
	ParsingProfile *generic.Mapping `json:"parsing_profile,omitempty"`
	CreatedAt      *time.Time       `json:"created_at,omitempty"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
}
