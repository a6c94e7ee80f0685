package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// newOllamaServer answers the heartbeat used by Ping.
func newOllamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	assert.NotPanics(t, result.Close)
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		errContains string
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name:     "ollama provider creates service",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
		},
		{
			name:     "openai provider creates service",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "text-embedding-3-small"},
		},
		{
			name:        "anthropic has no embeddings",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantNil:     true,
			errContains: "does not support embeddings",
		},
		{
			name:        "pollinations has no embeddings",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderPollinations},
			wantNil:     true,
			errContains: "does not support embeddings",
		},
		{
			name:     "unknown provider is not configured",
			settings: &domain.EmbeddingSettings{Provider: "unknown", APIKey: "k"},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			svc.Close()
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantModel string
		wantNil   bool
		wantErr   bool
	}{
		{name: "nil settings returns nil", wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name:      "pollinations needs no key",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderPollinations},
			wantModel: "openai",
		},
		{
			name:      "ollama provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "anthropic provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name:     "openai without key is not configured",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name:     "ollama with bad url fails",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: "://bad"},
			wantNil:  true,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			svc.Close()
		})
	}
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("reachable ollama", func(t *testing.T) {
		srv := newOllamaServer(t)
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("unreachable ollama", func(t *testing.T) {
		srv := newOllamaServer(t)
		url := srv.URL
		srv.Close()

		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: url})
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("unconfigured", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{})
		assert.NoError(t, err)
		assert.Nil(t, svc)
	})
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	srv := newOllamaServer(t)
	url := srv.URL
	srv.Close()

	svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: url})

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestValidateLLMConfig(t *testing.T) {
	srv := newOllamaServer(t)

	assert.NoError(t, ValidateLLMConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}))
}

func TestValidateEmbeddingConfig(t *testing.T) {
	srv := newOllamaServer(t)

	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}))
	assert.Error(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}))
}

func TestInitialise(t *testing.T) {
	t.Run("lexical without llm", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.LLM = domain.LLMSettings{}

		result := Initialise(&settings)
		defer result.Close()

		assert.Nil(t, result.LLMService)
		assert.Equal(t, "lexical", result.Similarity.Name())
		assert.False(t, result.FellBack)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], domain.ErrLLMUnavailable.Error())
	})

	t.Run("dense with ollama embeddings", func(t *testing.T) {
		srv := newOllamaServer(t)
		settings := domain.DefaultAppSettings()
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}
		settings.Retrieval.Mode = domain.RetrievalModeDense
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}

		result := Initialise(&settings)
		defer result.Close()

		assert.NotNil(t, result.LLMService)
		assert.NotNil(t, result.EmbeddingService)
		assert.Equal(t, "dense", result.Similarity.Name())
		assert.Empty(t, result.Warnings)
	})

	t.Run("dense without embeddings falls back", func(t *testing.T) {
		srv := newOllamaServer(t)
		settings := domain.DefaultAppSettings()
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}
		settings.Retrieval.Mode = domain.RetrievalModeDense

		result := Initialise(&settings)
		defer result.Close()

		assert.True(t, result.FellBack)
		assert.Equal(t, "lexical", result.Similarity.Name())
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], domain.ErrEmbeddingUnavailable.Error())
	})
}
