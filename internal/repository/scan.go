package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linuxoverapi/scangate/internal/model"
)

// Common errors for scan record repository operations.
var (
	ErrScanNotFound = errors.New("scan record not found")
)

// CreateScanRecord inserts an immutable scan record.
func (r *Repository) CreateScanRecord(ctx context.Context, record *model.ScanRecord) error {
	query := `
		INSERT INTO scan_results (id, api_key_token, domain, tool, output, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Token,
		record.Domain,
		record.Tool,
		record.Output,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scan record: %w", err)
	}
	return nil
}

// ListScanRecords returns up to limit most-recent records for a token,
// newest first. The output blob is included; callers trim to summaries.
func (r *Repository) ListScanRecords(ctx context.Context, token string, limit int) ([]*model.ScanRecord, error) {
	query := `
		SELECT id, api_key_token, domain, tool, output, created_at
		FROM scan_results
		WHERE api_key_token = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, token, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan records: %w", err)
	}
	defer rows.Close()

	var records []*model.ScanRecord
	for rows.Next() {
		record, err := scanScanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan records: %w", err)
	}
	return records, nil
}

// GetScanRecord retrieves one record by id AND owning token in a single
// conjunctive query, so a record owned by another key is indistinguishable
// from a missing one.
func (r *Repository) GetScanRecord(ctx context.Context, token, id string) (*model.ScanRecord, error) {
	query := `
		SELECT id, api_key_token, domain, tool, output, created_at
		FROM scan_results
		WHERE id = $1 AND api_key_token = $2
	`

	record, err := scanScanRecord(r.pool.QueryRow(ctx, query, id, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScanNotFound
		}
		return nil, fmt.Errorf("failed to get scan record: %w", err)
	}
	return record, nil
}

// CountScanRecords returns the number of records owned by a token.
func (r *Repository) CountScanRecords(ctx context.Context, token string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM scan_results WHERE api_key_token = $1`, token,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scan records: %w", err)
	}
	return count, nil
}

// scanScanRecord scans a single row into a ScanRecord model.
func scanScanRecord(row pgx.Row) (*model.ScanRecord, error) {
	var record model.ScanRecord
	err := row.Scan(
		&record.ID,
		&record.Token,
		&record.Domain,
		&record.Tool,
		&record.Output,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
