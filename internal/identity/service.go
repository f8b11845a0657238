package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/repository"
)

// Service errors.
var (
	ErrAccountExists      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrAccountNotFound    = errors.New("account not found")
)

// TokenValidator is the contract the credential store consumes: proof that a
// presented session token belongs to the named account right now.
type TokenValidator interface {
	ValidateToken(ctx context.Context, username, token string) error
}

// Store is the subset of the repository the identity provider needs.
type Store interface {
	CreateAccount(ctx context.Context, account *model.Account, login *model.Login) error
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	GetLoginByUsername(ctx context.Context, username string) (*model.Login, error)
	UpdateSessionToken(ctx context.Context, username, token string, loginAt time.Time) error
}

// Service issues and validates account sessions.
type Service struct {
	store  Store
	issuer *TokenIssuer
}

// NewService creates an identity Service.
func NewService(store Store, issuer *TokenIssuer) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
	}
}

// RegisterInput holds registration data for a new account.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	MobileNo  string
	Password  string
}

// Register validates input and creates the account plus its login row.
// Uniqueness is left to the database constraints so concurrent duplicate
// registrations cannot both succeed.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.Account, error) {
	if err := ValidateRegistration(input.Username, input.Email, input.Password, input.MobileNo); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &model.Account{
		ID:        ulid.Make().String(),
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		MobileNo:  input.MobileNo,
		CreatedAt: now,
	}
	login := &model.Login{
		ID:           ulid.Make().String(),
		Username:     input.Username,
		PasswordHash: hash,
	}

	if err := s.store.CreateAccount(ctx, account, login); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// Login verifies the password and issues a session token, replacing any
// previous session for the account.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	login, err := s.store.GetLoginByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrLoginNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("query login: %w", err)
	}

	match, err := VerifyPassword(password, login.PasswordHash)
	if err != nil || !match {
		return "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := s.issuer.Issue(username, now)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.store.UpdateSessionToken(ctx, username, token, now); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}
	return token, nil
}

// ValidateToken checks that the token is well formed, unexpired, subject to
// the claimed username, and is the account's current stored session.
func (s *Service) ValidateToken(ctx context.Context, username, token string) error {
	login, err := s.store.GetLoginByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrLoginNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("query login: %w", err)
	}

	subject, err := s.issuer.Verify(token)
	if err != nil {
		return ErrInvalidToken
	}
	if subject != username {
		return ErrTokenMismatch
	}
	if login.SessionToken == "" || login.SessionToken != token {
		return ErrTokenMismatch
	}
	return nil
}

// AccountForToken resolves the account owning a bare session token.
// Used by the profile endpoint where only the bearer token is presented.
func (s *Service) AccountForToken(ctx context.Context, token string) (*model.Account, error) {
	subject, err := s.issuer.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.ValidateToken(ctx, subject, token); err != nil {
		return nil, err
	}

	account, err := s.store.GetAccountByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return account, nil
}
