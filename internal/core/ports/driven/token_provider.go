package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// If the current token is expired, it will be refreshed and persisted.
	// Fails with ErrAuthRequired when no login has been completed.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a stored token is available.
	IsAuthenticated() bool
}
