package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/teamloft/project-management-api/internal/models"
)

var ErrUnsupportedProvider = errors.New("unsupported oauth provider")

// OAuthProfile is the provider-independent identity extracted from a
// provider's userinfo endpoint.
type OAuthProfile struct {
	ProviderID string
	Email      string
	Name       string
	Picture    string
}

// OAuthService exchanges authorization codes and fetches user profiles from
// the configured external providers.
type OAuthService struct {
	configs map[models.Provider]*oauth2.Config
}

// NewOAuthService creates a new OAuthService.
func NewOAuthService(configs map[models.Provider]*oauth2.Config) *OAuthService {
	return &OAuthService{configs: configs}
}

// Config returns the oauth2 configuration for a provider.
func (s *OAuthService) Config(provider models.Provider) (*oauth2.Config, error) {
	cfg, ok := s.configs[provider]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	return cfg, nil
}

// FetchProfile exchanges the authorization code and retrieves the user's
// profile from the provider.
func (s *OAuthService) FetchProfile(ctx context.Context, provider models.Provider, code string) (*OAuthProfile, error) {
	cfg, err := s.Config(provider)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	client := cfg.Client(ctx, token)

	switch provider {
	case models.ProviderGoogle:
		return fetchGoogleProfile(client)
	case models.ProviderGithub:
		return fetchGithubProfile(client)
	case models.ProviderFacebook:
		return fetchFacebookProfile(client)
	default:
		return nil, ErrUnsupportedProvider
	}
}

func fetchGoogleProfile(client *http.Client) (*OAuthProfile, error) {
	body, err := getBody(client, "https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil {
		return nil, err
	}

	info := struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}{}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	return &OAuthProfile{
		ProviderID: info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		Picture:    info.Picture,
	}, nil
}

func fetchGithubProfile(client *http.Client) (*OAuthProfile, error) {
	body, err := getBody(client, "https://api.github.com/user")
	if err != nil {
		return nil, err
	}

	info := struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}{}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}

	return &OAuthProfile{
		ProviderID: strconv.FormatInt(info.ID, 10),
		Email:      info.Email,
		Name:       name,
		Picture:    info.AvatarURL,
	}, nil
}

func fetchFacebookProfile(client *http.Client) (*OAuthProfile, error) {
	body, err := getBody(client, "https://graph.facebook.com/me?fields=id,name,email,picture")
	if err != nil {
		return nil, err
	}

	info := struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}{}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	return &OAuthProfile{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       info.Name,
		Picture:    info.Picture.Data.URL,
	}, nil
}

func getBody(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}
	return body, nil
}
