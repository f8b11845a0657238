package identity

import (
	"errors"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	valid := struct {
		username, email, password, mobile string
	}{"alice_01", "alice@example.com", "Passw0rdOk", "5550001234"}

	tests := []struct {
		name     string
		username string
		email    string
		password string
		mobile   string
		wantErr  error
	}{
		{"valid input", valid.username, valid.email, valid.password, valid.mobile, nil},
		{"username too short", "ab", valid.email, valid.password, valid.mobile, ErrUsernameLength},
		{"username too long", "a_very_long_username_over_thirty_chars", valid.email, valid.password, valid.mobile, ErrUsernameLength},
		{"username bad chars", "alice-01", valid.email, valid.password, valid.mobile, ErrUsernameInvalid},
		{"email missing at", valid.username, "aliceexample.com", valid.password, valid.mobile, ErrEmailInvalid},
		{"email missing tld", valid.username, "alice@example", valid.password, valid.mobile, ErrEmailInvalid},
		{"mobile too short", valid.username, valid.email, valid.password, "555123", ErrMobileInvalid},
		{"mobile has letters", valid.username, valid.email, valid.password, "555000abcd", ErrMobileInvalid},
		{"password too short", valid.username, valid.email, "Pw0rd", valid.mobile, ErrPasswordTooWeak},
		{"password no digit", valid.username, valid.email, "PasswordOk", valid.mobile, ErrPasswordTooWeak},
		{"password no upper", valid.username, valid.email, "passw0rdok", valid.mobile, ErrPasswordTooWeak},
		{"password no lower", valid.username, valid.email, "PASSW0RDOK", valid.mobile, ErrPasswordTooWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.email, tt.password, tt.mobile)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
