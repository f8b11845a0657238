package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/linuxoverapi/scangate/internal/identity"
	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/repository"
)

type output struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Tier     string `json:"tier"`
	APIKey   string `json:"api_key"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "system", "Username to own the API key")
		email       = flag.String("email", "system@scangate.local", "Account email")
		password    = flag.String("password", "", "Account password (required when the account does not exist yet)")
		tier        = flag.String("tier", model.TierFree, "API key tier (free or paid)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if !model.ValidTier(*tier) {
		fmt.Fprintf(os.Stderr, "invalid tier: %s\n", *tier)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := ensureAccount(ctx, repo, *username, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	// Paid keys are only issued against paid accounts, so settle the
	// bootstrap account first. A zero bill marks the payment as seeded.
	if *tier == model.TierPaid {
		if err := repo.MarkPaid(ctx, *username, 0); err != nil && !errors.Is(err, repository.ErrAlreadyPaid) {
			fmt.Fprintln(os.Stderr, "mark paid:", err)
			os.Exit(1)
		}
	}

	key := &model.APIKey{
		ID:        ulid.Make().String(),
		Username:  *username,
		Token:     uuid.NewString(),
		Tier:      *tier,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateAPIKey(ctx, key); err != nil {
		fmt.Fprintln(os.Stderr, "create api key:", err)
		os.Exit(1)
	}

	out := output{
		Username: *username,
		Email:    *email,
		Tier:     *tier,
		APIKey:   key.Token,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.APIKey)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func ensureAccount(ctx context.Context, repo *repository.Repository, username, email, password string) error {
	existing, err := repo.GetAccountByUsername(ctx, username)
	if err == nil {
		if existing.Email != email {
			return fmt.Errorf("account %s exists with different email: %s", username, existing.Email)
		}
		return nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return fmt.Errorf("look up account: %w", err)
	}

	if password == "" {
		return fmt.Errorf("account %s does not exist; -password is required to create it", username)
	}
	hash, err := identity.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &model.Account{
		ID:        ulid.Make().String(),
		Username:  username,
		FirstName: "System",
		LastName:  "Bootstrap",
		Email:     email,
		MobileNo:  "0000000000",
		CreatedAt: now,
	}
	login := &model.Login{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := repo.CreateAccount(ctx, account, login); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}
