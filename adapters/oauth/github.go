package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/user"
)

const defaultAPIBase = "https://api.github.com"

type GitHubProvider struct {
	cfg     *oauth2.Config
	apiBase string
}

func NewGitHubProvider(cfg config.Config) *GitHubProvider {
	return &GitHubProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: defaultAPIBase,
	}
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange trades the callback code for a token and reads the GitHub user.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (user.Principal, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return user.Principal{}, fmt.Errorf("exchange code: %w", err)
	}
	client := p.cfg.Client(ctx, tok)

	var gu githubUser
	if err := p.getJSON(ctx, client, "/user", &gu); err != nil {
		return user.Principal{}, err
	}
	if gu.ID == 0 {
		return user.Principal{}, fmt.Errorf("github user has no id")
	}

	email := gu.Email
	if email == "" {
		var emails []githubEmail
		if err := p.getJSON(ctx, client, "/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	name := gu.Name
	if name == "" {
		name = gu.Login
	}
	return user.Principal{
		ID:          "github:" + strconv.FormatInt(gu.ID, 10),
		DisplayName: name,
		PhotoURL:    gu.AvatarURL,
		Email:       email,
	}, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
