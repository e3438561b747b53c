package clients

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// UserClient reads public profile data from the auth service. Only used for
// best-effort lookups (invite notification mail), never for authorization.
type UserClient struct {
	BaseURL string
}

func Users() *UserClient {
	base := os.Getenv("AUTH_SERVICE_URL")
	if base == "" {
		base = "http://localhost:8081/api"
	}
	return &UserClient{BaseURL: base}
}

// FetchEmail returns the user's email address, or "" when it cannot be
// resolved.
func (u *UserClient) FetchEmail(authHeader, userID string) string {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/users/%s", u.BaseURL, userID), nil)
	if err != nil {
		return ""
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.Email
}
