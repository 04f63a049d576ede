package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/category"
	"github.com/taxwiseapp/taxwise/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `
		SELECT id, user_id, name, type, is_deductible, is_system_default, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		var c category.Category

		var typeStr string

		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &typeStr, &c.IsDeductible, &c.IsSystemDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Type = transaction.Type(typeStr)
		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cats, nil
}

// EnsureDefaults inserts any missing system default categories for the owner.
// It is idempotent: existing names are left untouched.
func (s *Store) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO categories (user_id, name, type, is_deductible, is_system_default, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW())
		ON CONFLICT (user_id, name) DO NOTHING
	`

	for _, d := range category.Defaults {
		if _, err := s.db.ExecContext(ctx, query, userID, d.Name, d.Type, d.IsDeductible); err != nil {
			return fmt.Errorf("seeding category %q: %w", d.Name, err)
		}
	}

	return nil
}
