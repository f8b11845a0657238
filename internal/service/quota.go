package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/linuxoverapi/scangate/internal/metrics"
	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/repository"
)

// QuotaStore is the repository subset the quota enforcer needs.
type QuotaStore interface {
	ChargeAPIKey(ctx context.Context, token string, ceiling int64) (*model.APIKey, error)
	GetAPIKeyByToken(ctx context.Context, token string) (*model.APIKey, error)
}

// QuotaService authenticates API key tokens and enforces tier ceilings.
// Every call reads authoritative database state; nothing is cached across
// requests.
type QuotaService struct {
	store   QuotaStore
	ceiling int64
	metrics metrics.Recorder
}

// NewQuotaService creates a QuotaService with the given free-tier ceiling.
func NewQuotaService(store QuotaStore, ceiling int64, recorder metrics.Recorder) *QuotaService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &QuotaService{
		store:   store,
		ceiling: ceiling,
		metrics: recorder,
	}
}

// AuthenticateAndCharge validates the token and consumes one quota slot in a
// single atomic store operation. Free keys at the ceiling are rejected with
// ErrQuotaExceeded and no state change; unknown tokens fail with
// ErrKeyUnauthorized.
func (s *QuotaService) AuthenticateAndCharge(ctx context.Context, token string) (*model.APIKey, error) {
	key, err := s.store.ChargeAPIKey(ctx, token, s.ceiling)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, repository.ErrAPIKeyNotFound) {
		return nil, fmt.Errorf("charge API key: %w", err)
	}

	// The conditional update matched nothing: either the token is unknown
	// or a metered key is out of quota. A plain read disambiguates; the
	// charge itself already refused, so this read cannot overshoot.
	if _, err := s.store.GetAPIKeyByToken(ctx, token); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			s.metrics.IncAuthFailure()
			return nil, ErrKeyUnauthorized
		}
		return nil, fmt.Errorf("get API key: %w", err)
	}
	s.metrics.IncQuotaExceeded()
	return nil, ErrQuotaExceeded
}

// AuthenticateOnly validates the token without consuming quota. Used by the
// read-only history paths so browsing never charges.
func (s *QuotaService) AuthenticateOnly(ctx context.Context, token string) (*model.APIKey, error) {
	key, err := s.store.GetAPIKeyByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			s.metrics.IncAuthFailure()
			return nil, ErrKeyUnauthorized
		}
		return nil, fmt.Errorf("get API key: %w", err)
	}
	return key, nil
}

// Ceiling returns the configured free-tier ceiling.
func (s *QuotaService) Ceiling() int64 {
	return s.ceiling
}
