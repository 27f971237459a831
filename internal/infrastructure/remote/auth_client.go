package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

const loginPath = "/auth/login"

// AuthClient exchanges credentials for a bearer token.
type AuthClient struct {
	t transport
}

func NewAuthClient(cfg Config, log zerolog.Logger) *AuthClient {
	return &AuthClient{t: newTransport(cfg, log.With().Str("component", "remote.auth").Logger())}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// Authenticate posts the credentials. 401 and 403 mean the credentials were
// rejected; any other non-200 status is returned as a *StatusError.
func (c *AuthClient) Authenticate(ctx context.Context, email, password string) (string, error) {
	resp, body, err := c.t.do(ctx, http.MethodPost, loginPath, loginPath, "", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", domain.ErrInvalidCredentials
	default:
		return "", statusError(http.MethodPost, loginPath, resp.StatusCode, body)
	}

	token := extractToken(body)
	if token == "" {
		return "", fmt.Errorf("%w: empty login response", domain.ErrMalformedToken)
	}
	return token, nil
}

// Ping checks the API answers at all. Any HTTP response counts as reachable.
func (c *AuthClient) Ping(ctx context.Context) error {
	_, _, err := c.t.do(ctx, http.MethodGet, "/", "/", "", nil)
	return err
}

// extractToken accepts a bare token, a JSON string or {"token": "..."}.
func extractToken(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return strings.TrimSpace(s)
		}
	case '{':
		var obj struct {
			Token       string `json:"token"`
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if obj.Token != "" {
				return obj.Token
			}
			return obj.AccessToken
		}
		return ""
	}
	return trimmed
}

var _ ports.AuthGateway = (*AuthClient)(nil)
