package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestNewLLMService_InvalidURL(t *testing.T) {
	_, err := NewLLMService(LLMConfig{BaseURL: "://bad"})
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","response":"Cells are the unit of life.","done":true}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := svc.Generate(context.Background(), "What is a cell?", driven.GenerateOptions{MaxTokens: 50})

	require.NoError(t, err)
	assert.Equal(t, "Cells are the unit of life.", out)
	assert.Equal(t, false, captured["stream"])
	assert.EqualValues(t, 50, captured["options"].(map[string]any)["num_predict"])
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}
