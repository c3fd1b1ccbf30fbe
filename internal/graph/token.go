package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"unitdrive/internal/config"
)

// TokenProvider exchanges the stored refresh token for a short-lived bearer
// token. It is stateless: every call performs one POST against the OAuth
// endpoint, nothing is cached and nothing is retried here.
type TokenProvider struct {
	creds      config.GraphConfig
	httpClient *http.Client

	// endpoint overrides the tenant-derived token URL (tests).
	endpoint string
}

// NewTokenProvider returns a provider for the given credential record.
func NewTokenProvider(creds config.GraphConfig) *TokenProvider {
	return &TokenProvider{
		creds:      creds,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *TokenProvider) tokenURL() string {
	if p.endpoint != "" {
		return p.endpoint
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", p.creds.TenantID)
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// AccessToken performs the refresh-token grant and returns the bearer token.
// The scope parameter is deliberately omitted: the provider re-grants the
// originally consented scope, and an explicit scope on refresh is rejected.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	if !p.creds.Complete() {
		return "", ErrMisconfigured
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", p.creds.ClientID)
	form.Set("client_secret", p.creds.ClientSecret)
	form.Set("refresh_token", p.creds.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEndpointNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrEndpointNotFound
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}

	if resp.StatusCode == http.StatusOK && tr.AccessToken != "" {
		return tr.AccessToken, nil
	}

	switch tr.Error {
	case "invalid_client":
		return "", fmt.Errorf("%w: %s", ErrInvalidClient, tr.ErrorDescription)
	case "invalid_grant":
		return "", fmt.Errorf("%w: %s", ErrInvalidGrant, tr.ErrorDescription)
	case "invalid_request":
		return "", fmt.Errorf("%w: %s", ErrInvalidRequest, tr.ErrorDescription)
	case "":
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	default:
		return "", fmt.Errorf("token exchange failed (%s): %s", tr.Error, tr.ErrorDescription)
	}
}
