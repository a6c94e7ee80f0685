// Package oauth persists OAuth2 tokens for material sources that need a login.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenProvider = (*TokenStore)(nil)

// TokenStore keeps one OAuth2 token in a JSON file and refreshes it through
// the client configuration. Refreshed tokens are written back.
type TokenStore struct {
	mu     sync.Mutex
	config *oauth2.Config
	path   string
	token  *oauth2.Token
}

// NewTokenStore creates a token store backed by the file at path.
func NewTokenStore(config *oauth2.Config, path string) *TokenStore {
	return &TokenStore{config: config, path: path}
}

// DefaultTokenPath returns ~/.studymate/<name>.
func DefaultTokenPath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".studymate", name), nil
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.path
}

// IsAuthenticated returns true if a token has been stored.
func (s *TokenStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load() == nil
}

// GetToken returns a valid access token, refreshing it when expired.
func (s *TokenStore) GetToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", err
	}

	fresh, err := s.config.TokenSource(ctx, s.token).Token()
	if err != nil {
		return "", fmt.Errorf("%w: refresh failed, log in again: %v", domain.ErrAuthRequired, err)
	}
	if fresh.AccessToken != s.token.AccessToken {
		if err := s.save(fresh); err != nil {
			return "", err
		}
	}
	return fresh.AccessToken, nil
}

// AuthCodeURL builds the consent URL for a PKCE login with an offline refresh token.
func (s *TokenStore) AuthCodeURL(state, verifier, redirectURI string) string {
	return s.withRedirect(redirectURI).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades an authorization code for a token and stores it.
func (s *TokenStore) Exchange(ctx context.Context, code, verifier, redirectURI string) error {
	token, err := s.withRedirect(redirectURI).Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(token)
}

// Logout removes the stored token.
func (s *TokenStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (s *TokenStore) withRedirect(redirectURI string) *oauth2.Config {
	cfg := *s.config
	cfg.RedirectURL = redirectURI
	return &cfg
}

// load reads the token file once. Callers hold mu.
func (s *TokenStore) load() error {
	if s.token != nil {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.ErrAuthRequired
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("decode token %s: %w", s.path, err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return domain.ErrAuthRequired
	}
	s.token = &token
	return nil
}

// save writes the token with owner-only permissions. Callers hold mu.
func (s *TokenStore) save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	s.token = token
	return nil
}
