package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/service"
)

type fakeAdminKeys struct {
	keys         []*model.APIKey
	listErr      error
	incremented  []string
	incrementErr error
}

func (f *fakeAdminKeys) ListAll(ctx context.Context) ([]*model.APIKey, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.keys, nil
}

func (f *fakeAdminKeys) IncrementCount(ctx context.Context, token string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.incremented = append(f.incremented, token)
	return nil
}

type fakeAdminAccounts struct {
	accounts []*model.Account
	err      error
}

func (f *fakeAdminAccounts) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func adminRouter(keys AdminKeyStore, accounts AdminAccountLister) *chi.Mux {
	h := NewAdminHandler(keys, accounts, testHandlerLogger())
	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Get("/apikeys", h.ListAPIKeys)
		r.Post("/apikeys/{token}/increment", h.IncrementCount)
		r.Get("/accounts", h.ListAccounts)
	})
	return r
}

func TestAdminHandler_ListAPIKeys(t *testing.T) {
	keys := &fakeAdminKeys{
		keys: []*model.APIKey{
			{Username: "alice", Token: "tok-1", Tier: model.TierFree},
			{Username: "bob", Token: "tok-2", Tier: model.TierPaid},
		},
	}
	r := adminRouter(keys, &fakeAdminAccounts{})

	req := httptest.NewRequest(http.MethodGet, "/admin/apikeys", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response struct {
		Keys  []model.APIKeyResponse `json:"keys"`
		Total int                    `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Total != 2 || len(response.Keys) != 2 {
		t.Errorf("expected 2 keys, got total=%d len=%d", response.Total, len(response.Keys))
	}
}

func TestAdminHandler_IncrementCount(t *testing.T) {
	keys := &fakeAdminKeys{}
	r := adminRouter(keys, &fakeAdminAccounts{})

	req := httptest.NewRequest(http.MethodPost, "/admin/apikeys/tok-1/increment", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(keys.incremented) != 1 || keys.incremented[0] != "tok-1" {
		t.Errorf("expected tok-1 incremented, got %v", keys.incremented)
	}
}

func TestAdminHandler_IncrementCount_Unknown(t *testing.T) {
	r := adminRouter(&fakeAdminKeys{incrementErr: service.ErrKeyNotFound}, &fakeAdminAccounts{})

	req := httptest.NewRequest(http.MethodPost, "/admin/apikeys/no-such/increment", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAdminHandler_ListAccounts(t *testing.T) {
	accounts := &fakeAdminAccounts{
		accounts: []*model.Account{
			{Username: "alice"},
			{Username: "bob"},
		},
	}
	r := adminRouter(&fakeAdminKeys{}, accounts)

	req := httptest.NewRequest(http.MethodGet, "/admin/accounts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response struct {
		Accounts []model.AccountResponse `json:"accounts"`
		Total    int                     `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Total != 2 {
		t.Errorf("expected 2 accounts, got %d", response.Total)
	}
}
