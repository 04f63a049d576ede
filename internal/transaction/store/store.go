package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.user_id, t.upload_id, t.account_id, t.amount, t.type, t.description,
	t.raw_source, t.date, t.currency, t.fingerprint, t.category_id, t.is_deductible,
	t.confidence, t.method, t.status, t.created_at, t.updated_at
`

// scanTransaction reads a transaction row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, statusStr string

	var method sql.NullString

	var accountID, rawSource sql.NullString

	var categoryID *uuid.UUID

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.UploadID, &accountID, &tx.Amount, &typeStr, &tx.Description,
		&rawSource, &tx.Date, &tx.Currency, &tx.Fingerprint, &categoryID, &tx.IsDeductible,
		&tx.Confidence, &method, &statusStr, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Status = transaction.Status(statusStr)
	tx.Method = transaction.Method(method.String)
	tx.AccountID = accountID.String
	tx.RawSource = rawSource.String
	tx.CategoryID = categoryID

	return &tx, nil
}

func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	query := `
		INSERT INTO transactions
			(user_id, upload_id, account_id, amount, type, description, raw_source,
			 date, currency, fingerprint, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	for _, tx := range txs {
		err := s.db.QueryRowContext(ctx, query,
			tx.UserID,
			tx.UploadID,
			tx.AccountID,
			tx.Amount,
			tx.Type,
			tx.Description,
			tx.RawSource,
			tx.Date,
			tx.Currency,
			tx.Fingerprint,
			tx.Status,
		).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND t.user_id = $%d", argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.UploadID != nil {
		query += fmt.Sprintf(" AND t.upload_id = $%d", argIdx)

		args = append(args, *filter.UploadID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) ApplyClassification(ctx context.Context, c transaction.Classification) error {
	query := `
		UPDATE transactions
		SET category_id = $1, is_deductible = $2, confidence = $3, method = $4,
			status = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		c.CategoryID,
		c.IsDeductible,
		c.Confidence,
		c.Method,
		transaction.StatusClassified,
		c.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("applying classification: %w", err)
	}

	return nil
}

func (s *Store) OverrideTransaction(ctx context.Context, id uuid.UUID, o transaction.Override) error {
	query := `
		UPDATE transactions
		SET category_id = COALESCE($1, category_id),
			is_deductible = COALESCE($2, is_deductible),
			confidence = 1.0, method = $3, status = $4, updated_at = NOW()
		WHERE id = $5
	`

	_, err := s.db.ExecContext(ctx, query,
		o.CategoryID,
		o.IsDeductible,
		transaction.MethodManual,
		transaction.StatusClassified,
		id,
	)
	if err != nil {
		return fmt.Errorf("overriding transaction: %w", err)
	}

	return nil
}
