package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/summary"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertSummary stores the rollup as a JSON document keyed by upload, so
// regeneration after reclassification replaces the old rollup in place.
func (s *Store) UpsertSummary(ctx context.Context, userID, uploadID uuid.UUID, sum *summary.Summary) error {
	payload, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	query := `
		INSERT INTO summaries (user_id, upload_id, payload, generated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (upload_id) DO UPDATE
		SET payload = EXCLUDED.payload, generated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, userID, uploadID, payload); err != nil {
		return fmt.Errorf("upserting summary: %w", err)
	}

	return nil
}

func (s *Store) GetSummary(ctx context.Context, userID, uploadID uuid.UUID) (*summary.Summary, error) {
	query := `
		SELECT payload
		FROM summaries
		WHERE user_id = $1 AND upload_id = $2
	`

	var payload []byte

	err := s.db.QueryRowContext(ctx, query, userID, uploadID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, summary.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting summary: %w", err)
	}

	var sum summary.Summary
	if err := json.Unmarshal(payload, &sum); err != nil {
		return nil, fmt.Errorf("unmarshaling summary: %w", err)
	}

	return &sum, nil
}
