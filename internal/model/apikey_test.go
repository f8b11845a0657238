package model

import (
	"testing"
	"time"
)

func TestValidTier(t *testing.T) {
	tests := []struct {
		tier string
		want bool
	}{
		{TierFree, true},
		{TierPaid, true},
		{"premium", false},
		{"FREE", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidTier(tt.tier); got != tt.want {
			t.Errorf("ValidTier(%q) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestAPIKey_Metered(t *testing.T) {
	free := &APIKey{Tier: TierFree}
	if !free.Metered() {
		t.Error("free key should be metered")
	}

	paid := &APIKey{Tier: TierPaid}
	if paid.Metered() {
		t.Error("paid key should not be metered")
	}
}

func TestAPIKey_Remaining(t *testing.T) {
	tests := []struct {
		name    string
		tier    string
		usage   int64
		ceiling int64
		want    int64
	}{
		{"fresh free key", TierFree, 0, 15, 15},
		{"partially used", TierFree, 10, 15, 5},
		{"at ceiling", TierFree, 15, 15, 0},
		{"over ceiling", TierFree, 20, 15, 0},
		{"paid key unlimited", TierPaid, 1000, 15, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := &APIKey{Tier: tt.tier, UsageCount: tt.usage}
			if got := key.Remaining(tt.ceiling); got != tt.want {
				t.Errorf("Remaining(%d) = %d, want %d", tt.ceiling, got, tt.want)
			}
		})
	}
}

func TestAPIKey_ToResponse(t *testing.T) {
	now := time.Now().UTC()
	key := &APIKey{
		ID:         "key-1",
		Username:   "alice",
		Token:      "tok-abc",
		Tier:       TierFree,
		UsageCount: 3,
		CreatedAt:  now,
	}

	resp := key.ToResponse()

	if resp.Token != "tok-abc" {
		t.Errorf("expected token tok-abc, got %s", resp.Token)
	}
	if resp.Username != "alice" {
		t.Errorf("expected username alice, got %s", resp.Username)
	}
	if resp.UsageCount != 3 {
		t.Errorf("expected usage count 3, got %d", resp.UsageCount)
	}
}
