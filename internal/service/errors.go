// Package service provides business logic for the application.
package service

import "errors"

// Business-rule errors. Handlers map these to HTTP statuses; nothing below
// this layer knows about transports.
var (
	// ErrUnauthenticated indicates the session proof failed validation.
	ErrUnauthenticated = errors.New("session validation failed")
	// ErrInvalidTier indicates an unknown tier name was requested.
	ErrInvalidTier = errors.New("invalid tier, use 'free' or 'paid'")
	// ErrNotEligible indicates a paid-tier key was requested by an unpaid account.
	ErrNotEligible = errors.New("account is not a paid account")
	// ErrKeyExists indicates a key for the (account, tier) pair already exists.
	ErrKeyExists = errors.New("API key already issued for this tier")
	// ErrKeyNotFound indicates no key matches the token on a read path.
	ErrKeyNotFound = errors.New("API key not found")
	// ErrKeyUnauthorized indicates an unknown token on an enforced path.
	ErrKeyUnauthorized = errors.New("invalid API key")
	// ErrQuotaExceeded indicates the free-tier usage ceiling is exhausted.
	ErrQuotaExceeded = errors.New("usage limit exceeded for free API key")
	// ErrNoKeys indicates the account owns no keys at all.
	ErrNoKeys = errors.New("no API keys found for account")
	// ErrScanTimeout indicates the scan exceeded its wall-clock budget.
	ErrScanTimeout = errors.New("scan timed out")
	// ErrExecution indicates the scan process could not be run.
	ErrExecution = errors.New("error during scan execution")
	// ErrScanNotFound indicates no scan record matches (id, token).
	ErrScanNotFound = errors.New("scan result not found")
	// ErrAccountNotFound indicates the named account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAlreadyPaid indicates the account already holds paid status.
	ErrAlreadyPaid = errors.New("account already has paid status")
)
