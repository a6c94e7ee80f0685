package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievalMode(t *testing.T) {
	assert.True(t, RetrievalModeLexical.IsValid())
	assert.True(t, RetrievalModeDense.IsValid())
	assert.False(t, RetrievalMode("hybrid").IsValid())
	assert.True(t, RetrievalModeDense.RequiresEmbedding())
	assert.False(t, RetrievalModeLexical.RequiresEmbedding())
	assert.Equal(t, unknownDescription, RetrievalMode("x").Description())
}

func TestAIProvider(t *testing.T) {
	tests := []struct {
		provider AIProvider
		valid    bool
		needsKey bool
	}{
		{AIProviderOllama, true, false},
		{AIProviderOpenAI, true, true},
		{AIProviderAnthropic, true, true},
		{AIProviderGemini, true, true},
		{AIProviderPollinations, true, false},
		{AIProvider("cohere"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.needsKey, tt.provider.RequiresAPIKey())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderPollinations}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.True(t, s.LLM.IsConfigured())
	assert.False(t, s.Embedding.IsConfigured())
	assert.Equal(t, RetrievalModeLexical, s.Retrieval.Mode)
	assert.Less(t, s.Chunker.Overlap, s.Chunker.ChunkSize)
	assert.Equal(t, 10, s.Quiz.MaxQuestions)
	assert.Equal(t, DefaultMaxOptions, s.Quiz.MaxOptions)
	assert.Equal(t, DuplicateReject, s.DuplicatePolicy)
}

func TestDuplicatePolicy_IsValid(t *testing.T) {
	assert.True(t, DuplicateReject.IsValid())
	assert.True(t, DuplicateReplace.IsValid())
	assert.False(t, DuplicatePolicy("ignore").IsValid())
}

func TestClassroomSettings_IsConfigured(t *testing.T) {
	assert.False(t, ClassroomSettings{}.IsConfigured())
	assert.False(t, ClassroomSettings{ClientID: "id"}.IsConfigured())
	assert.True(t, ClassroomSettings{ClientID: "id", ClientSecret: "secret"}.IsConfigured())
}
