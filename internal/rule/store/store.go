package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/rule"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListRules returns the owner's rules in evaluation order.
func (s *Store) ListRules(ctx context.Context, userID uuid.UUID) ([]*rule.Rule, error) {
	query := `
		SELECT id, user_id, pattern, category_id, deductible_override, position, created_at
		FROM rules
		WHERE user_id = $1
		ORDER BY position ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*rule.Rule

	for rows.Next() {
		var r rule.Rule

		if err := rows.Scan(&r.ID, &r.UserID, &r.Pattern, &r.CategoryID, &r.DeductibleOverride, &r.Position, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule rows: %w", err)
	}

	return rules, nil
}

func (s *Store) CreateRule(ctx context.Context, r *rule.Rule) error {
	query := `
		INSERT INTO rules (user_id, pattern, category_id, deductible_override, position, created_at)
		VALUES ($1, $2, $3, $4,
			COALESCE($5, (SELECT COALESCE(MAX(position), 0) + 1 FROM rules WHERE user_id = $1)),
			NOW())
		RETURNING id, position, created_at
	`

	var position *int
	if r.Position > 0 {
		position = &r.Position
	}

	err := s.db.QueryRowContext(ctx, query,
		r.UserID, r.Pattern, r.CategoryID, r.DeductibleOverride, position,
	).Scan(&r.ID, &r.Position, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) DeleteRule(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rule.ErrNotFound
	}

	return nil
}
