package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/linuxoverapi/scangate/internal/model"
)

// Common errors for account repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("username or email already exists")
	ErrLoginNotFound   = errors.New("login not found")
	ErrAlreadyPaid     = errors.New("account already has paid status")
)

// CreateAccount inserts an account together with its login row in one
// transaction, so a half-registered account can never be observed.
func (r *Repository) CreateAccount(ctx context.Context, account *model.Account, login *model.Login) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (id, username, first_name, last_name, email, mobile_no, api_key_issued, paid, bill_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		account.ID,
		account.Username,
		account.FirstName,
		account.LastName,
		account.Email,
		account.MobileNo,
		account.APIKeyIssued,
		account.Paid,
		account.BillAmount,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO logins (id, username, password_hash, session_token, last_login_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		login.ID,
		login.Username,
		login.PasswordHash,
		nullableString(login.SessionToken),
		login.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create login: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetAccountByUsername retrieves an account by its username.
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	query := `
		SELECT id, username, first_name, last_name, email, mobile_no, api_key_issued, paid, bill_amount, created_at
		FROM accounts
		WHERE username = $1
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts retrieves all accounts, oldest first. Admin use only.
func (r *Repository) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	query := `
		SELECT id, username, first_name, last_name, email, mobile_no, api_key_issued, paid, bill_amount, created_at
		FROM accounts
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// MarkPaid flips the account's paid flag and records the billed amount.
// Returns ErrAlreadyPaid if the flag was already set.
func (r *Repository) MarkPaid(ctx context.Context, username string, amount float64) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET paid = TRUE, bill_amount = $2
		WHERE username = $1 AND paid = FALSE
	`, username, amount)
	if err != nil {
		return fmt.Errorf("failed to mark account paid: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish missing account from an already-paid one.
		if _, err := r.GetAccountByUsername(ctx, username); err != nil {
			return err
		}
		return ErrAlreadyPaid
	}
	return nil
}

// GetLoginByUsername retrieves the login row for an account.
func (r *Repository) GetLoginByUsername(ctx context.Context, username string) (*model.Login, error) {
	query := `
		SELECT id, username, password_hash, session_token, last_login_at
		FROM logins
		WHERE username = $1
	`

	var login model.Login
	var sessionToken *string
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&login.ID,
		&login.Username,
		&login.PasswordHash,
		&sessionToken,
		&login.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoginNotFound
		}
		return nil, fmt.Errorf("failed to get login: %w", err)
	}
	if sessionToken != nil {
		login.SessionToken = *sessionToken
	}
	return &login, nil
}

// UpdateSessionToken stores the freshly issued session token and login time.
func (r *Repository) UpdateSessionToken(ctx context.Context, username, token string, loginAt time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE logins
		SET session_token = $2, last_login_at = $3
		WHERE username = $1
	`, username, token, loginAt)
	if err != nil {
		return fmt.Errorf("failed to update session token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLoginNotFound
	}
	return nil
}

// scanAccount scans a single row into an Account model.
func scanAccount(row pgx.Row) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.MobileNo,
		&account.APIKeyIssued,
		&account.Paid,
		&account.BillAmount,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// nullableString converts an empty string to a NULL parameter.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
