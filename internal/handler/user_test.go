package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/linuxoverapi/scangate/internal/identity"
	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/service"
)

type fakeAccountReader struct {
	account *model.Account
	err     error
}

func (f *fakeAccountReader) AccountForToken(ctx context.Context, token string) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

type fakeAccountManager struct {
	paymentErr error
	paid       bool
	statusErr  error
	bill       float64
	billErr    error
}

func (f *fakeAccountManager) MakePayment(ctx context.Context, username, sessionProof string, amount float64) error {
	return f.paymentErr
}

func (f *fakeAccountManager) PaidStatus(ctx context.Context, username, sessionProof string) (bool, error) {
	if f.statusErr != nil {
		return false, f.statusErr
	}
	return f.paid, nil
}

func (f *fakeAccountManager) BillAmount(ctx context.Context, username, sessionProof string) (float64, error) {
	if f.billErr != nil {
		return 0, f.billErr
	}
	return f.bill, nil
}

func userRouter(reader AccountReader, accounts AccountManager) *chi.Mux {
	h := NewUserHandler(reader, accounts, testHandlerLogger())
	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Get("/me", h.Me)
		r.Post("/payment", h.Payment)
		r.Get("/paid-status/{username}", h.PaidStatus)
		r.Get("/bill/{username}", h.Bill)
	})
	return r
}

func TestUserHandler_Me(t *testing.T) {
	reader := &fakeAccountReader{account: &model.Account{Username: "alice", Email: "alice@example.com"}}
	r := userRouter(reader, &fakeAccountManager{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer signed.jwt.token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response model.AccountResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Username != "alice" {
		t.Errorf("expected alice, got %s", response.Username)
	}
}

func TestUserHandler_Me_NoBearer(t *testing.T) {
	r := userRouter(&fakeAccountReader{}, &fakeAccountManager{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without bearer, got %d", rec.Code)
	}
}

func TestUserHandler_Me_InvalidToken(t *testing.T) {
	r := userRouter(&fakeAccountReader{err: identity.ErrInvalidToken}, &fakeAccountManager{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_Payment(t *testing.T) {
	r := userRouter(&fakeAccountReader{}, &fakeAccountManager{})

	body, _ := json.Marshal(PaymentRequest{Username: "alice", JWTToken: "session", Amount: 49.99})
	req := httptest.NewRequest(http.MethodPost, "/users/payment", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Payment_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		err        error
		wantStatus int
	}{
		{"zero amount", 0, nil, http.StatusBadRequest},
		{"negative amount", -5, nil, http.StatusBadRequest},
		{"already paid", 49.99, service.ErrAlreadyPaid, http.StatusBadRequest},
		{"bad session", 49.99, service.ErrUnauthenticated, http.StatusUnauthorized},
		{"unknown account", 49.99, service.ErrAccountNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := userRouter(&fakeAccountReader{}, &fakeAccountManager{paymentErr: tt.err})

			body, _ := json.Marshal(PaymentRequest{Username: "alice", JWTToken: "session", Amount: tt.amount})
			req := httptest.NewRequest(http.MethodPost, "/users/payment", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestUserHandler_PaidStatus(t *testing.T) {
	r := userRouter(&fakeAccountReader{}, &fakeAccountManager{paid: true})

	req := httptest.NewRequest(http.MethodGet, "/users/paid-status/alice?jwt_token=session", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !response["paid"] {
		t.Error("expected paid true")
	}
}

func TestUserHandler_Bill(t *testing.T) {
	r := userRouter(&fakeAccountReader{}, &fakeAccountManager{bill: 120.50})

	req := httptest.NewRequest(http.MethodGet, "/users/bill/alice?jwt_token=session", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response["bill_amount"] != 120.50 {
		t.Errorf("expected 120.50, got %f", response["bill_amount"])
	}
}
