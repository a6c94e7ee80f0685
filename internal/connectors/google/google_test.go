package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

type mockTokenProvider struct {
	token string
	err   error
}

func (m *mockTokenProvider) GetToken(context.Context) (string, error) { return m.token, m.err }
func (m *mockTokenProvider) IsAuthenticated() bool                    { return m.err == nil }

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuthRequired},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, domain.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(fmt.Errorf("call: %w", &googleapi.Error{Code: tt.code, Message: "detail"}))

			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "detail")
		})
	}

	t.Run("other status unchanged", func(t *testing.T) {
		orig := &googleapi.Error{Code: http.StatusInternalServerError}
		assert.Same(t, orig, WrapError(orig))
	})

	t.Run("non api error unchanged", func(t *testing.T) {
		orig := errors.New("boom")
		assert.Equal(t, orig, WrapError(orig))
		assert.NoError(t, WrapError(nil))
	})

	t.Run("no message", func(t *testing.T) {
		assert.Equal(t, domain.ErrNotFound, WrapError(&googleapi.Error{Code: http.StatusNotFound}))
	})
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, IsRateLimited(fmt.Errorf("x: %w", domain.ErrRateLimited)))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: http.StatusNotFound}))
	assert.False(t, IsRateLimited(nil))
}

func TestRateLimiter(t *testing.T) {
	t.Run("burst then throttled", func(t *testing.T) {
		r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})
		assert.True(t, r.Allow())
		assert.True(t, r.Allow())
		assert.False(t, r.Allow())
	})

	t.Run("backoff after rate limit", func(t *testing.T) {
		r := NewRateLimiter(ServiceDrive)
		r.RecordRateLimitError(time.Hour)
		assert.False(t, r.Allow())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("unknown service uses defaults", func(t *testing.T) {
		r := NewRateLimiter("other")
		require.NoError(t, r.Wait(context.Background()))
	})
}

func TestTokenSourceAdapter(t *testing.T) {
	ts := NewTokenSource(context.Background(), &mockTokenProvider{token: "tok"})
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)

	ts = NewTokenSource(context.Background(), &mockTokenProvider{err: domain.ErrAuthRequired})
	_, err = ts.Token()
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuthConfig("id", "secret")

	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Contains(t, cfg.Endpoint.AuthURL, "accounts.google.com")
	assert.Contains(t, cfg.Scopes, "https://www.googleapis.com/auth/drive.readonly")
	assert.Contains(t, cfg.Scopes, "https://www.googleapis.com/auth/classroom.courses.readonly")
}

func TestGetUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"email":"student@example.com","name":"Sam"}`))
	}))
	defer srv.Close()

	orig := userInfoURL
	userInfoURL = srv.URL
	defer func() { userInfoURL = orig }()

	info, err := GetUserInfo(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}))
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", info.Email)

	_, err = GetUserInfo(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "bad"}))
	assert.ErrorContains(t, err, "status 401")
}
