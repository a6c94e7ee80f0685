package domain

import "time"

const unknownDescription = "Unknown"

// RetrievalMode selects the similarity strategy used by the index.
type RetrievalMode string

// Available retrieval modes.
const (
	// RetrievalModeLexical scores chunks by term overlap. Needs no AI provider.
	RetrievalModeLexical RetrievalMode = "lexical"

	// RetrievalModeDense scores chunks by cosine similarity of embeddings.
	RetrievalModeDense RetrievalMode = "dense"
)

// IsValid returns true if the retrieval mode is recognised.
func (m RetrievalMode) IsValid() bool {
	return m == RetrievalModeLexical || m == RetrievalModeDense
}

// RequiresEmbedding returns true if this mode needs an embedding provider.
func (m RetrievalMode) RequiresEmbedding() bool {
	return m == RetrievalModeDense
}

// String returns the string representation.
func (m RetrievalMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m RetrievalMode) Description() string {
	switch m {
	case RetrievalModeLexical:
		return "Lexical (keyword overlap)"
	case RetrievalModeDense:
		return "Dense (embedding similarity)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderPollinations is the keyless Pollinations text endpoint.
	AIProviderPollinations AIProvider = "pollinations"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderPollinations:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderPollinations:
		return "Pollinations (cloud, no key)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Gemini).
	APIKey string

	// CacheTTL is how long query embeddings are reused.
	CacheTTL time.Duration `validate:"gt=0"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// DuplicatePolicy decides what an upload of an already loaded filename does.
type DuplicatePolicy string

// Available duplicate policies.
const (
	// DuplicateReject fails the upload with DuplicateDocumentError.
	DuplicateReject DuplicatePolicy = "reject"

	// DuplicateReplace swaps the loaded document for the new upload.
	DuplicateReplace DuplicatePolicy = "replace"
)

// IsValid returns true if the policy is recognised.
func (p DuplicatePolicy) IsValid() bool {
	return p == DuplicateReject || p == DuplicateReplace
}

// ChunkerSettings configures document chunking.
type ChunkerSettings struct {
	// ChunkSize is the window size in characters.
	ChunkSize int `validate:"gt=0"`

	// Overlap is the number of characters shared by adjacent chunks.
	Overlap int `validate:"gte=0,ltfield=ChunkSize"`
}

// RetrievalSettings configures the similarity index.
type RetrievalSettings struct {
	Mode RetrievalMode `validate:"oneof=lexical dense"`
	TopK int           `validate:"gte=1,lte=50"`
}

// ResponderSettings configures question answering.
type ResponderSettings struct {
	// ContextBudget is the maximum context length in characters.
	ContextBudget int `validate:"gt=0"`

	// MaxRetries is the number of generation attempts before failing.
	MaxRetries int `validate:"gte=1,lte=10"`

	// Backoff is the initial delay between attempts; it doubles each retry.
	Backoff time.Duration `validate:"gte=0"`

	// Timeout bounds each generation call.
	Timeout time.Duration `validate:"gt=0"`
}

// QuizSettings configures quiz generation.
type QuizSettings struct {
	MaxQuestions   int `validate:"gte=1,lte=50"`
	MaxOptions     int `validate:"gte=2,lte=4"`
	ContextBudget  int `validate:"gt=0"`
	RepairAttempts int `validate:"gte=0,lte=5"`
	SampleChunks   int `validate:"gte=1"`
}

// ClassroomSettings holds the Google OAuth client used for Classroom access.
type ClassroomSettings struct {
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if an OAuth client is set.
func (c ClassroomSettings) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM             LLMSettings
	Embedding       EmbeddingSettings
	Retrieval       RetrievalSettings
	Chunker         ChunkerSettings
	Responder       ResponderSettings
	Quiz            QuizSettings
	DuplicatePolicy DuplicatePolicy `validate:"oneof=reject replace"`
	DefaultLanguage string
	HistoryEnabled  bool
	Classroom       ClassroomSettings
	GitHubToken     string
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM defaults to the keyless Pollinations endpoint and retrieval to
// lexical mode, so the assistant works without any API key.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderPollinations,
			Model:    DefaultLLMModels()[AIProviderPollinations],
		},
		Embedding: EmbeddingSettings{
			CacheTTL: 30 * time.Minute,
		},
		Retrieval: RetrievalSettings{
			Mode: RetrievalModeLexical,
			TopK: 4,
		},
		Chunker: ChunkerSettings{
			ChunkSize: 1000,
			Overlap:   100,
		},
		Responder: ResponderSettings{
			ContextBudget: 3000,
			MaxRetries:    3,
			Backoff:       500 * time.Millisecond,
			Timeout:       30 * time.Second,
		},
		Quiz: QuizSettings{
			MaxQuestions:   10,
			MaxOptions:     DefaultMaxOptions,
			ContextBudget:  2500,
			RepairAttempts: 2,
			SampleChunks:   6,
		},
		DuplicatePolicy: DuplicateReject,
		DefaultLanguage: DefaultLanguage,
		HistoryEnabled:  true,
	}
}

// AllRetrievalModes returns all available retrieval modes.
func AllRetrievalModes() []RetrievalMode {
	return []RetrievalMode{RetrievalModeLexical, RetrievalModeDense}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderPollinations,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:       "llama3.2",
		AIProviderOpenAI:       "gpt-4o-mini",
		AIProviderAnthropic:    "claude-3-5-sonnet-latest",
		AIProviderGemini:       "gemini-1.5-flash",
		AIProviderPollinations: "openai",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
	}
}
