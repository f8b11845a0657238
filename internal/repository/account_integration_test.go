//go:build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/linuxoverapi/scangate/internal/testutil"
)

func TestIntegrationAccount_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	username := testutil.UniqueUsername("alice")
	account, login := testutil.NewTestAccount(t, username)
	if err := repo.CreateAccount(ctx, account, login); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	retrieved, err := repo.GetAccountByUsername(ctx, username)
	if err != nil {
		t.Fatalf("GetAccountByUsername failed: %v", err)
	}

	if retrieved.Username != username {
		t.Errorf("Username mismatch: got %q, want %q", retrieved.Username, username)
	}
	if retrieved.Email != account.Email {
		t.Errorf("Email mismatch: got %q, want %q", retrieved.Email, account.Email)
	}
	if retrieved.Paid {
		t.Error("fresh account should not be paid")
	}
	if retrieved.BillAmount != 0 {
		t.Errorf("fresh account should carry no bill, got %f", retrieved.BillAmount)
	}
}

func TestIntegrationAccount_GetByUsername_NotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	_, err := repo.GetAccountByUsername(ctx, "nobody")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got: %v", err)
	}
}

func TestIntegrationAccount_DuplicateRejected(t *testing.T) {
	ctx, repo := newTestEnv(t)

	username := testutil.UniqueUsername("alice")
	account, login := testutil.NewTestAccount(t, username)
	if err := repo.CreateAccount(ctx, account, login); err != nil {
		t.Fatalf("first CreateAccount failed: %v", err)
	}

	dupe, dupeLogin := testutil.NewTestAccount(t, username)
	err := repo.CreateAccount(ctx, dupe, dupeLogin)
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("Expected ErrAccountExists, got: %v", err)
	}
}

func TestIntegrationAccount_MarkPaid(t *testing.T) {
	ctx, repo := newTestEnv(t)

	username := testutil.UniqueUsername("alice")
	account, login := testutil.NewTestAccount(t, username)
	if err := repo.CreateAccount(ctx, account, login); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	if err := repo.MarkPaid(ctx, username, 99.99); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	retrieved, err := repo.GetAccountByUsername(ctx, username)
	if err != nil {
		t.Fatalf("GetAccountByUsername failed: %v", err)
	}
	if !retrieved.Paid {
		t.Error("account should be marked paid")
	}
	if retrieved.BillAmount != 99.99 {
		t.Errorf("expected bill amount 99.99, got %f", retrieved.BillAmount)
	}

	// Paying again is refused and the recorded amount stands.
	if err := repo.MarkPaid(ctx, username, 50.00); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("Expected ErrAlreadyPaid on second payment, got: %v", err)
	}

	retrieved, err = repo.GetAccountByUsername(ctx, username)
	if err != nil {
		t.Fatalf("GetAccountByUsername failed: %v", err)
	}
	if retrieved.BillAmount != 99.99 {
		t.Errorf("bill amount changed after refused payment: got %f", retrieved.BillAmount)
	}
}

func TestIntegrationAccount_MarkPaid_NotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if err := repo.MarkPaid(ctx, "nobody", 10.0); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got: %v", err)
	}
}

func TestIntegrationAccount_UpdateSessionToken(t *testing.T) {
	ctx, repo := newTestEnv(t)

	username := testutil.UniqueUsername("alice")
	account, login := testutil.NewTestAccount(t, username)
	if err := repo.CreateAccount(ctx, account, login); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	loginAt := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateSessionToken(ctx, username, "session-token-1", loginAt); err != nil {
		t.Fatalf("UpdateSessionToken failed: %v", err)
	}

	stored, err := repo.GetLoginByUsername(ctx, username)
	if err != nil {
		t.Fatalf("GetLoginByUsername failed: %v", err)
	}
	if stored.SessionToken != "session-token-1" {
		t.Errorf("expected session token to be stored, got %q", stored.SessionToken)
	}
	if stored.LastLoginAt == nil || stored.LastLoginAt.Before(loginAt) {
		t.Errorf("expected last login at >= %v, got %v", loginAt, stored.LastLoginAt)
	}

	// A later login replaces the stored session.
	if err := repo.UpdateSessionToken(ctx, username, "session-token-2", time.Now().UTC()); err != nil {
		t.Fatalf("second UpdateSessionToken failed: %v", err)
	}
	stored, err = repo.GetLoginByUsername(ctx, username)
	if err != nil {
		t.Fatalf("GetLoginByUsername failed: %v", err)
	}
	if stored.SessionToken != "session-token-2" {
		t.Errorf("expected superseding session token, got %q", stored.SessionToken)
	}
}

func TestIntegrationAccount_List(t *testing.T) {
	ctx, repo := newTestEnv(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		account, login := testutil.NewTestAccount(t, testutil.UniqueUsername(name))
		if err := repo.CreateAccount(ctx, account, login); err != nil {
			t.Fatalf("CreateAccount %s failed: %v", name, err)
		}
	}

	accounts, err := repo.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("expected 3 accounts, got %d", len(accounts))
	}
}
