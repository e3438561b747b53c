package clients

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletDebitReturnsBalance(t *testing.T) {
	var got debitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wallet/debit", r.URL.Path)
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]float64{"balance": 900})
	}))
	defer server.Close()

	wallet := &WalletClient{BaseURL: server.URL}
	challengeID := uint(7)
	balance, err := wallet.Debit("Bearer token-1", 100, "Challenge entry", &challengeID)

	require.NoError(t, err)
	assert.InDelta(t, 900.0, balance, 1e-9)
	assert.InDelta(t, 100.0, got.Amount, 1e-9)
	assert.Equal(t, "Challenge entry", got.Description)
	require.NotNil(t, got.ChallengeID)
	assert.Equal(t, uint(7), *got.ChallengeID)
}

func TestWalletDebitInsufficientFunds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Insufficient funds"})
	}))
	defer server.Close()

	wallet := &WalletClient{BaseURL: server.URL}
	_, err := wallet.Debit("Bearer token-1", 100, "Challenge entry", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Insufficient funds", apiErr.Message)
}

func TestWalletDebitServerErrorIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	wallet := &WalletClient{BaseURL: server.URL}
	_, err := wallet.Debit("Bearer token-1", 100, "Challenge entry", nil)

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestWalletCreditPrefersCreditEndpoint(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	wallet := &WalletClient{BaseURL: server.URL}
	require.NoError(t, wallet.Credit("Bearer token-1", "2", 85, "Refund"))
	assert.Equal(t, []string{"/wallet/credit"}, paths)
}

func TestWalletCreditFallsBackToImpersonatedDeposit(t *testing.T) {
	var depositReq creditRequest
	var impersonated string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wallet/credit":
			w.WriteHeader(http.StatusNotFound)
		case "/wallet/deposit":
			impersonated = r.Header.Get("X-Impersonate-User")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&depositReq))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	wallet := &WalletClient{BaseURL: server.URL}
	require.NoError(t, wallet.Credit("Bearer token-1", "2", 85, "Refund"))

	assert.Equal(t, "2", impersonated)
	assert.InDelta(t, 85.0, depositReq.Amount, 1e-9)
	assert.Equal(t, "Refund (fallback)", depositReq.Description)
}

func TestWalletFromEnv(t *testing.T) {
	t.Setenv("WALLET_SERVICE_URL", "http://stub:1234/api")
	assert.Equal(t, "http://stub:1234/api", Wallet().BaseURL)

	t.Setenv("WALLET_SERVICE_URL", "")
	assert.Equal(t, "http://localhost:8083/api", Wallet().BaseURL)
}
