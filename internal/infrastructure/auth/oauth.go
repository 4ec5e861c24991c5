// Package auth owns the Google OAuth flow and the signed browser sessions
// that gate the API surface.
package auth

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

var calendarScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
}

// Manager holds the OAuth client configuration and the single stored token.
// The tool is single-operator: one Google account, one token.
type Manager struct {
	oauthConfig *oauth2.Config
	logger      ports.Logger

	mu    sync.RWMutex
	token *oauth2.Token
}

// NewManager reads the client credentials from the environment variables the
// config names. Missing credentials are not fatal here; Authenticated stays
// false and the doctor command reports the gap.
func NewManager(settings domain.GoogleSettings, logger ports.Logger) *Manager {
	return &Manager{
		oauthConfig: &oauth2.Config{
			ClientID:     os.Getenv(settings.ClientIDEnvVar),
			ClientSecret: os.Getenv(settings.ClientSecretEnvVar),
			RedirectURL:  settings.RedirectURL,
			Scopes:       calendarScopes,
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}
}

// Configured reports whether OAuth client credentials are present in the
// environment.
func (m *Manager) Configured() bool {
	return m.oauthConfig.ClientID != "" && m.oauthConfig.ClientSecret != ""
}

// AuthURL builds the consent URL for the given anti-forgery state.
func (m *Manager) AuthURL(state string) string {
	return m.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the callback code for a token and stores it.
func (m *Manager) Exchange(ctx context.Context, code string) error {
	if !m.Configured() {
		return fmt.Errorf("google OAuth client credentials are not configured")
	}

	token, err := m.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	m.logger.Info("google account connected", map[string]interface{}{
		"has_refresh_token": token.RefreshToken != "",
	})
	return nil
}

// Authenticated reports whether a token is stored.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != nil
}

// TokenSource returns a self-refreshing source for the stored token, or
// domain.ErrAuthRequired when the flow has not completed yet.
func (m *Manager) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	if token == nil {
		return nil, domain.ErrAuthRequired
	}
	return m.oauthConfig.TokenSource(ctx, token), nil
}
