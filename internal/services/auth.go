package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	spotifyAuthURL = "https://accounts.spotify.com/authorize"
)

// AuthProviders fetches the backend's OAuth provider configuration
// (client ids, redirect URIs, scopes). Unauthenticated.
func (c *Client) AuthProviders(ctx context.Context) (*models.ProviderConfig, error) {
	var config models.ProviderConfig
	if err := c.do(ctx, http.MethodGet, "/auth/config", false, nil, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// CurrentUser retrieves the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthURL builds the provider authorization URL for the given provider
// ("google" or "spotify") from the backend-supplied configuration. The
// backend completes the code exchange on its redirect URI and hands the
// session token back via the redirect target.
func AuthURL(provider string, config *models.ProviderConfig, state string) (string, error) {
	switch strings.ToLower(provider) {
	case "google":
		if config.GoogleClientID == "" || config.GoogleRedirectURI == "" {
			return "", fmt.Errorf("%w: google provider not configured", shared.ErrInvalidConfig)
		}
		cfg := &oauth2.Config{
			ClientID:    config.GoogleClientID,
			RedirectURL: config.GoogleRedirectURI,
			Scopes:      strings.Fields(config.GoogleScopes),
			Endpoint:    oauth2.Endpoint{AuthURL: googleAuthURL},
		}
		return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
	case "spotify":
		if config.SpotifyClientID == "" || config.SpotifyRedirectURI == "" {
			return "", fmt.Errorf("%w: spotify provider not configured", shared.ErrInvalidConfig)
		}
		cfg := &oauth2.Config{
			ClientID:    config.SpotifyClientID,
			RedirectURL: config.SpotifyRedirectURI,
			Scopes:      strings.Fields(config.SpotifyScopes),
			Endpoint:    oauth2.Endpoint{AuthURL: spotifyAuthURL},
		}
		return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true")), nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidArgument, provider)
	}
}

// TokenFromCallback extracts the session token from the query parameters
// the backend appends when redirecting after a completed OAuth exchange.
func TokenFromCallback(query url.Values) (string, error) {
	if errMsg := query.Get("error"); errMsg != "" {
		return "", fmt.Errorf("%w: %s", shared.ErrAuthFailed, errMsg)
	}
	token := query.Get("access_token")
	if token == "" {
		return "", fmt.Errorf("%w: callback carried no access_token", shared.ErrAuthFailed)
	}
	return token, nil
}
