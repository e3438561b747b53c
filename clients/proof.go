package clients

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// ProofClient talks to the winner resolver: given a challenge, it answers
// with the participant holding the most valid proofs, or nobody.
type ProofClient struct {
	BaseURL string
}

func Proofs() *ProofClient {
	base := os.Getenv("PROOF_SERVICE_URL")
	if base == "" {
		base = "http://localhost:8085/api"
	}
	return &ProofClient{BaseURL: base}
}

// ChallengeWinner returns the winner's user id ("" when no winner was
// determined) and the winner's valid-proof count.
func (p *ProofClient) ChallengeWinner(authHeader string, challengeID uint) (string, int, error) {
	url := fmt.Sprintf("%s/proofs/challenge/%d/winner", p.BaseURL, challengeID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("winner lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, fmt.Errorf("winner lookup: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		WinnerID    *string `json:"winnerId"`
		TotalProofs int     `json:"totalProofs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, fmt.Errorf("winner lookup: decoding response: %w", err)
	}
	if body.WinnerID == nil {
		return "", body.TotalProofs, nil
	}
	return *body.WinnerID, body.TotalProofs, nil
}
