package model

import "time"

// Account represents a registered tenant of the gateway.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	MobileNo     string    `json:"mobile_no"`
	APIKeyIssued bool      `json:"api_key_issued"`
	Paid         bool      `json:"paid"`
	BillAmount   float64   `json:"bill_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

// Login holds an account's password hash and current session token.
// Owned by the identity provider; the session token is replaced on each login.
type Login struct {
	ID           string
	Username     string
	PasswordHash string
	SessionToken string
	LastLoginAt  *time.Time
}

// AccountResponse is the API representation of an account profile.
type AccountResponse struct {
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	MobileNo     string    `json:"mobile_no"`
	APIKeyIssued bool      `json:"api_key_issued"`
	Paid         bool      `json:"paid"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts an Account to its API representation.
// BillAmount is intentionally omitted; it has a dedicated endpoint.
func (a *Account) ToResponse() AccountResponse {
	return AccountResponse{
		Username:     a.Username,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		MobileNo:     a.MobileNo,
		APIKeyIssued: a.APIKeyIssued,
		Paid:         a.Paid,
		CreatedAt:    a.CreatedAt,
	}
}
