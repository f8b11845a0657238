package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/linuxoverapi/scangate/internal/identity"
	"github.com/linuxoverapi/scangate/internal/metrics"
	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/repository"
)

// KeyStore is the repository subset the credential store needs.
type KeyStore interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	ListAPIKeysByUsername(ctx context.Context, username string) ([]*model.APIKey, error)
	ListAllAPIKeys(ctx context.Context) ([]*model.APIKey, error)
	GetAPIKeyByToken(ctx context.Context, token string) (*model.APIKey, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	IncrementAPIKeyCount(ctx context.Context, token string) error
}

// KeyService issues and lists API keys.
type KeyService struct {
	store     KeyStore
	validator identity.TokenValidator
	metrics   metrics.Recorder
}

// NewKeyService creates a KeyService.
func NewKeyService(store KeyStore, validator identity.TokenValidator, recorder metrics.Recorder) *KeyService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &KeyService{
		store:     store,
		validator: validator,
		metrics:   recorder,
	}
}

// Issue generates a new API key for (username, tier). The session proof must
// validate for the account; paid tier additionally requires the account's
// paid flag. Uniqueness per (username, tier) is enforced by the store, so
// concurrent duplicate requests yield exactly one success.
func (s *KeyService) Issue(ctx context.Context, username, tier, sessionProof string) (*model.APIKey, error) {
	if err := s.validator.ValidateToken(ctx, username, sessionProof); err != nil {
		return nil, ErrUnauthenticated
	}
	if !model.ValidTier(tier) {
		return nil, ErrInvalidTier
	}

	if tier == model.TierPaid {
		account, err := s.store.GetAccountByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return nil, ErrAccountNotFound
			}
			return nil, fmt.Errorf("get account: %w", err)
		}
		if !account.Paid {
			return nil, ErrNotEligible
		}
	}

	key := &model.APIKey{
		ID:        ulid.Make().String(),
		Username:  username,
		Token:     uuid.NewString(),
		Tier:      tier,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		if errors.Is(err, repository.ErrAPIKeyExists) {
			return nil, ErrKeyExists
		}
		return nil, fmt.Errorf("create API key: %w", err)
	}

	s.metrics.IncKeyIssued(tier)
	return key, nil
}

// List returns all keys owned by the account, issuance order. Requires a
// valid session proof; an account with zero keys is reported as ErrNoKeys.
func (s *KeyService) List(ctx context.Context, username, sessionProof string) ([]*model.APIKey, error) {
	if err := s.validator.ValidateToken(ctx, username, sessionProof); err != nil {
		return nil, ErrUnauthenticated
	}

	keys, err := s.store.ListAPIKeysByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list API keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	return keys, nil
}

// UsageCount returns the usage counter for a token. Pure read; no session
// proof required, knowing the token is the capability.
func (s *KeyService) UsageCount(ctx context.Context, token string) (int64, error) {
	key, err := s.store.GetAPIKeyByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return 0, ErrKeyNotFound
		}
		return 0, fmt.Errorf("get API key: %w", err)
	}
	return key.UsageCount, nil
}

// ListAll returns every key in the system. Admin-only; the caller gates it.
func (s *KeyService) ListAll(ctx context.Context) ([]*model.APIKey, error) {
	keys, err := s.store.ListAllAPIKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all API keys: %w", err)
	}
	return keys, nil
}

// IncrementCount bumps a key's usage counter by one regardless of tier or
// ceiling. Admin-only; the caller gates it.
func (s *KeyService) IncrementCount(ctx context.Context, token string) error {
	if err := s.store.IncrementAPIKeyCount(ctx, token); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("increment usage count: %w", err)
	}
	return nil
}
