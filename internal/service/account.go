package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/linuxoverapi/scangate/internal/identity"
	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/repository"
)

// AccountStore is the repository subset account operations need.
type AccountStore interface {
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	MarkPaid(ctx context.Context, username string, amount float64) error
	ListAccounts(ctx context.Context) ([]*model.Account, error)
}

// AccountService handles payment status and profile reads.
type AccountService struct {
	store     AccountStore
	validator identity.TokenValidator
}

// NewAccountService creates an AccountService.
func NewAccountService(store AccountStore, validator identity.TokenValidator) *AccountService {
	return &AccountService{
		store:     store,
		validator: validator,
	}
}

// MakePayment upgrades the account to paid status and records the amount.
func (s *AccountService) MakePayment(ctx context.Context, username, sessionProof string, amount float64) error {
	if err := s.validator.ValidateToken(ctx, username, sessionProof); err != nil {
		return ErrUnauthenticated
	}

	if err := s.store.MarkPaid(ctx, username, amount); err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			return ErrAccountNotFound
		case errors.Is(err, repository.ErrAlreadyPaid):
			return ErrAlreadyPaid
		default:
			return fmt.Errorf("mark paid: %w", err)
		}
	}
	return nil
}

// PaidStatus reports whether the account holds paid status.
func (s *AccountService) PaidStatus(ctx context.Context, username, sessionProof string) (bool, error) {
	account, err := s.getValidated(ctx, username, sessionProof)
	if err != nil {
		return false, err
	}
	return account.Paid, nil
}

// BillAmount returns the account's recorded billing amount.
func (s *AccountService) BillAmount(ctx context.Context, username, sessionProof string) (float64, error) {
	account, err := s.getValidated(ctx, username, sessionProof)
	if err != nil {
		return 0, err
	}
	return account.BillAmount, nil
}

// ListAccounts returns every account. Callers must gate this behind the
// admin secret; the service itself does not check it.
func (s *AccountService) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *AccountService) getValidated(ctx context.Context, username, sessionProof string) (*model.Account, error) {
	if err := s.validator.ValidateToken(ctx, username, sessionProof); err != nil {
		return nil, ErrUnauthenticated
	}

	account, err := s.store.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}
