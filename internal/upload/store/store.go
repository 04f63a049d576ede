package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/importer/generic"
	"github.com/taxwiseapp/taxwise/internal/upload"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUpload(ctx context.Context, u *upload.Upload) error {
	query := `
		INSERT INTO uploads (user_id, filename, format, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, u.UserID, u.Filename, u.Format, u.Status).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating upload: %w", err)
	}

	return nil
}

func (s *Store) UpdateUpload(ctx context.Context, id uuid.UUID, status upload.Status, profile *generic.Mapping) error {
	var profileJSON []byte

	if profile != nil {
		var err error

		profileJSON, err = json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("marshaling parsing profile: %w", err)
		}
	}

	query := `
		UPDATE uploads
		SET status = $2, parsing_profile = COALESCE($3, parsing_profile), updated_at = NOW()
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, id, status, profileJSON)
	if err != nil {
		return fmt.Errorf("updating upload: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return upload.ErrNotFound
	}

	return nil
}

func (s *Store) GetUpload(ctx context.Context, userID, id uuid.UUID) (*upload.Upload, error) {
	query := `
		SELECT id, user_id, filename, format, status, parsing_profile, created_at, updated_at
		FROM uploads
		WHERE id = $1 AND user_id = $2
	`

	u, err := scanUpload(s.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, upload.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting upload: %w", err)
	}

	return u, nil
}

func (s *Store) ListUploads(ctx context.Context, userID uuid.UUID) ([]*upload.Upload, error) {
	query := `
		SELECT id, user_id, filename, format, status, parsing_profile, created_at, updated_at
		FROM uploads
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*upload.Upload

	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}

		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating upload rows: %w", err)
	}

	return uploads, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(row scanner) (*upload.Upload, error) {
	var (
		u           upload.Upload
		profileJSON []byte
	)

	err := row.Scan(&u.ID, &u.UserID, &u.Filename, &u.Format, &u.Status, &profileJSON, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(profileJSON) > 0 {
		var m generic.Mapping
		if err := json.Unmarshal(profileJSON, &m); err != nil {
			return nil, fmt.Errorf("unmarshaling parsing profile: %w", err)
		}

		u.ParsingProfile = &m
	}

	return &u, nil
}
