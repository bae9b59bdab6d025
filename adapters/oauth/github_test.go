package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/khoahotran/folio/internal/config"
)

func newFakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42, "login": "devone", "avatar_url": "https://avatars/42"})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"email": "alt@example.com", "primary": false, "verified": true},
			{"email": "dev1@example.com", "primary": true, "verified": true},
		})
	})
	return httptest.NewServer(mux)
}

func TestGitHubProvider_Exchange(t *testing.T) {
	srv := newFakeGitHub(t)
	defer srv.Close()

	var cfg config.Config
	cfg.GitHub.ClientID = "id"
	cfg.GitHub.ClientSecret = "secret"
	p := NewGitHubProvider(cfg)
	p.cfg.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/login/oauth/authorize",
		TokenURL: srv.URL + "/login/oauth/access_token",
	}
	p.apiBase = srv.URL

	principal, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "github:42", principal.ID)
	assert.Equal(t, "devone", principal.DisplayName)
	assert.Equal(t, "dev1@example.com", principal.Email)
	assert.Equal(t, "https://avatars/42", principal.PhotoURL)
}

func TestGitHubProvider_AuthCodeURL(t *testing.T) {
	var cfg config.Config
	cfg.GitHub.ClientID = "id"
	raw := NewGitHubProvider(cfg).AuthCodeURL("xyz")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "https://github.com/login/oauth/authorize"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
	assert.Equal(t, "id", u.Query().Get("client_id"))
}
