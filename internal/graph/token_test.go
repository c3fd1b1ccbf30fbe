package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdrive/internal/config"
)

func testCreds() config.GraphConfig {
	return config.GraphConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
		TenantID:     "tenant-id",
		DriveRoot:    "CloudDrive",
	}
}

func TestAccessToken_Success(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "refresh-token", r.PostForm.Get("refresh_token"))
		// the scope parameter must not be sent on refresh
		assert.Empty(t, r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","expires_in":3600}`))
	}))
	defer srv.Close()

	p := NewTokenProvider(testCreds())
	p.endpoint = srv.URL

	token, err := p.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, 1, calls)
}

func TestAccessToken_MissingCredentials(t *testing.T) {
	creds := testCreds()
	creds.ClientSecret = ""

	p := NewTokenProvider(creds)
	p.endpoint = "http://127.0.0.1:0" // must not be contacted

	_, err := p.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrMisconfigured)
}

func TestAccessToken_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"invalid client", http.StatusUnauthorized, `{"error":"invalid_client","error_description":"secret mismatch"}`, ErrInvalidClient},
		{"invalid grant", http.StatusBadRequest, `{"error":"invalid_grant","error_description":"token revoked"}`, ErrInvalidGrant},
		{"invalid request", http.StatusBadRequest, `{"error":"invalid_request","error_description":"missing parameter"}`, ErrInvalidRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := NewTokenProvider(testCreds())
			p.endpoint = srv.URL

			_, err := p.AccessToken(context.Background())
			assert.ErrorIs(t, err, tc.wantErr)
			// no retry inside the provider, fatal or not
			assert.Equal(t, 1, calls)
		})
	}
}

func TestAccessToken_EndpointNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewTokenProvider(testCreds())
	p.endpoint = srv.URL

	_, err := p.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrEndpointNotFound)
}

func TestAccessToken_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewTokenProvider(testCreds())
	p.endpoint = srv.URL

	_, err := p.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrEndpointNotFound)
}
