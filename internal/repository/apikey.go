package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linuxoverapi/scangate/internal/model"
)

// Common errors for API key repository operations.
var (
	ErrAPIKeyNotFound = errors.New("API key not found")
	ErrAPIKeyExists   = errors.New("API key already exists for this tier")
)

// CreateAPIKey inserts a new API key and marks the owning account's
// api_key_issued flag in the same transaction. The (username, tier) unique
// constraint makes concurrent duplicate issuance impossible.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO api_keys (id, username, token, tier, usage_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		key.ID,
		key.Username,
		key.Token,
		key.Tier,
		key.UsageCount,
		key.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAPIKeyExists
		}
		return fmt.Errorf("failed to create API key: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE accounts SET api_key_issued = TRUE WHERE username = $1
	`, key.Username)
	if err != nil {
		return fmt.Errorf("failed to flag account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetAPIKeyByToken retrieves an API key by its token without mutating it.
func (r *Repository) GetAPIKeyByToken(ctx context.Context, token string) (*model.APIKey, error) {
	query := `
		SELECT id, username, token, tier, usage_count, created_at
		FROM api_keys
		WHERE token = $1
	`

	key, err := scanAPIKey(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}
	return key, nil
}

// ChargeAPIKey atomically increments the key's usage counter, refusing the
// increment when a metered key has reached the ceiling. The conditional
// UPDATE is a single statement, so two concurrent callers can never both
// consume the last ceiling slot. A zero-row result means either the token is
// unknown or the quota is exhausted; callers disambiguate with a read.
func (r *Repository) ChargeAPIKey(ctx context.Context, token string, ceiling int64) (*model.APIKey, error) {
	query := `
		UPDATE api_keys
		SET usage_count = usage_count + 1
		WHERE token = $1 AND (tier <> $2 OR usage_count < $3)
		RETURNING id, username, token, tier, usage_count, created_at
	`

	key, err := scanAPIKey(r.pool.QueryRow(ctx, query, token, model.TierFree, ceiling))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to charge API key: %w", err)
	}
	return key, nil
}

// IncrementAPIKeyCount unconditionally bumps the usage counter.
// Admin-only escape hatch; ignores tier ceilings.
func (r *Repository) IncrementAPIKeyCount(ctx context.Context, token string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE api_keys SET usage_count = usage_count + 1 WHERE token = $1
	`, token)
	if err != nil {
		return fmt.Errorf("failed to increment API key count: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// ListAPIKeysByUsername retrieves all API keys for an account in
// issuance order.
func (r *Repository) ListAPIKeysByUsername(ctx context.Context, username string) ([]*model.APIKey, error) {
	query := `
		SELECT id, username, token, tier, usage_count, created_at
		FROM api_keys
		WHERE username = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	return collectAPIKeys(rows)
}

// ListAllAPIKeys retrieves every API key in the system. Admin use only.
func (r *Repository) ListAllAPIKeys(ctx context.Context) ([]*model.APIKey, error) {
	query := `
		SELECT id, username, token, tier, usage_count, created_at
		FROM api_keys
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all API keys: %w", err)
	}
	defer rows.Close()

	return collectAPIKeys(rows)
}

// scanAPIKey scans a single row into an APIKey model.
func scanAPIKey(row pgx.Row) (*model.APIKey, error) {
	var key model.APIKey
	err := row.Scan(
		&key.ID,
		&key.Username,
		&key.Token,
		&key.Tier,
		&key.UsageCount,
		&key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// collectAPIKeys drains rows into APIKey models.
func collectAPIKeys(rows pgx.Rows) ([]*model.APIKey, error) {
	var keys []*model.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API keys: %w", err)
	}
	return keys, nil
}
