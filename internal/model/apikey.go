// Package model defines domain entities for the application.
package model

import "time"

// API key tier constants.
const (
	TierFree = "free"
	TierPaid = "paid"
)

// ValidTier reports whether tier is one of the supported tier names.
func ValidTier(tier string) bool {
	return tier == TierFree || tier == TierPaid
}

// APIKey represents an issued scan credential.
// At most one key exists per (username, tier) pair.
type APIKey struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Token      string    `json:"token"`
	Tier       string    `json:"tier"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Metered returns true if the key's usage is bounded by the free ceiling.
func (k *APIKey) Metered() bool {
	return k.Tier == TierFree
}

// Remaining returns how many more scans the key may run under the given
// ceiling. Paid keys always report -1 (unlimited).
func (k *APIKey) Remaining(ceiling int64) int64 {
	if !k.Metered() {
		return -1
	}
	left := ceiling - k.UsageCount
	if left < 0 {
		return 0
	}
	return left
}

// APIKeyResponse is the API representation of an issued key.
type APIKeyResponse struct {
	Token      string    `json:"api_key"`
	Username   string    `json:"username"`
	Tier       string    `json:"tier"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts an APIKey to its API representation.
func (k *APIKey) ToResponse() APIKeyResponse {
	return APIKeyResponse{
		Token:      k.Token,
		Username:   k.Username,
		Tier:       k.Tier,
		UsageCount: k.UsageCount,
		CreatedAt:  k.CreatedAt,
	}
}
