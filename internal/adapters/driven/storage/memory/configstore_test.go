package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigStore_GetMissing(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("llm.provider")

	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Empty(t, store.GetString("llm.provider"))
	assert.Zero(t, store.GetInt("retrieval.top_k"))
	assert.False(t, store.GetBool("history.enabled"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 7, 7},
		{"int64", int64(250), 250},
		{"float64", float64(45), 45},
		{"numeric string", "12", 12},
		{"bad string", "twelve", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			_ = store.Set("quiz.max_questions", tt.value)

			assert.Equal(t, tt.want, store.GetInt("quiz.max_questions"))
		})
	}
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("history.enabled", "true")
	_ = store.Set("a", false)
	_ = store.Set("b", 1)

	assert.True(t, store.GetBool("history.enabled"))
	assert.False(t, store.GetBool("a"))
	assert.False(t, store.GetBool("b"))
}

func TestConfigStore_GetStringWrongType(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("retrieval.top_k", 4)

	assert.Empty(t, store.GetString("retrieval.top_k"))
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Set("llm.provider", "ollama"))
	assert.NoError(t, store.Set("llm.provider", "openai"))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, "(in memory)", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()
}
