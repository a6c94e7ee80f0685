package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
)

// settingField binds a config key to a field of domain.AppSettings.
type settingField struct {
	key    string
	field  string // struct path used in validation errors
	kind   valueKind
	secret bool
	get    func(s *domain.AppSettings) any
	set    func(s *domain.AppSettings, v any)
}

// settingFields lists every persisted setting in display order.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
var settingFields = []settingField{
	{key: "llm.provider", field: "LLM.Provider", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.LLM.Provider.String() },
		set: func(s *domain.AppSettings, v any) { s.LLM.Provider = domain.AIProvider(v.(string)) }},
	{key: "llm.model", field: "LLM.Model", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.LLM.Model },
		set: func(s *domain.AppSettings, v any) { s.LLM.Model = v.(string) }},
	{key: "llm.base_url", field: "LLM.BaseURL", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.LLM.BaseURL },
		set: func(s *domain.AppSettings, v any) { s.LLM.BaseURL = v.(string) }},
	{key: "llm.api_key", field: "LLM.APIKey", kind: kindString, secret: true,
		get: func(s *domain.AppSettings) any { return s.LLM.APIKey },
		set: func(s *domain.AppSettings, v any) { s.LLM.APIKey = v.(string) }},
	{key: "embedding.provider", field: "Embedding.Provider", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.Embedding.Provider.String() },
		set: func(s *domain.AppSettings, v any) { s.Embedding.Provider = domain.AIProvider(v.(string)) }},
	{key: "embedding.model", field: "Embedding.Model", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.Embedding.Model },
		set: func(s *domain.AppSettings, v any) { s.Embedding.Model = v.(string) }},
	{key: "embedding.base_url", field: "Embedding.BaseURL", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.Embedding.BaseURL },
		set: func(s *domain.AppSettings, v any) { s.Embedding.BaseURL = v.(string) }},
	{key: "embedding.api_key", field: "Embedding.APIKey", kind: kindString, secret: true,
		get: func(s *domain.AppSettings) any { return s.Embedding.APIKey },
		set: func(s *domain.AppSettings, v any) { s.Embedding.APIKey = v.(string) }},
	{key: "embedding.cache_ttl_minutes", field: "Embedding.CacheTTL", kind: kindInt,
		get: func(s *domain.AppSettings) any { return int(s.Embedding.CacheTTL / time.Minute) },
		set: func(s *domain.AppSettings, v any) { s.Embedding.CacheTTL = time.Duration(v.(int)) * time.Minute }},
	{key: "retrieval.mode", field: "Retrieval.Mode", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.Retrieval.Mode.String() },
		set: func(s *domain.AppSettings, v any) { s.Retrieval.Mode = domain.RetrievalMode(v.(string)) }},
	{key: "retrieval.top_k", field: "Retrieval.TopK", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Retrieval.TopK },
		set: func(s *domain.AppSettings, v any) { s.Retrieval.TopK = v.(int) }},
	{key: "chunker.chunk_size", field: "Chunker.ChunkSize", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Chunker.ChunkSize },
		set: func(s *domain.AppSettings, v any) { s.Chunker.ChunkSize = v.(int) }},
	{key: "chunker.overlap", field: "Chunker.Overlap", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Chunker.Overlap },
		set: func(s *domain.AppSettings, v any) { s.Chunker.Overlap = v.(int) }},
	{key: "responder.context_budget", field: "Responder.ContextBudget", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Responder.ContextBudget },
		set: func(s *domain.AppSettings, v any) { s.Responder.ContextBudget = v.(int) }},
	{key: "responder.max_retries", field: "Responder.MaxRetries", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Responder.MaxRetries },
		set: func(s *domain.AppSettings, v any) { s.Responder.MaxRetries = v.(int) }},
	{key: "responder.backoff_ms", field: "Responder.Backoff", kind: kindInt,
		get: func(s *domain.AppSettings) any { return int(s.Responder.Backoff / time.Millisecond) },
		set: func(s *domain.AppSettings, v any) { s.Responder.Backoff = time.Duration(v.(int)) * time.Millisecond }},
	{key: "responder.timeout_seconds", field: "Responder.Timeout", kind: kindInt,
		get: func(s *domain.AppSettings) any { return int(s.Responder.Timeout / time.Second) },
		set: func(s *domain.AppSettings, v any) { s.Responder.Timeout = time.Duration(v.(int)) * time.Second }},
	{key: "quiz.max_questions", field: "Quiz.MaxQuestions", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Quiz.MaxQuestions },
		set: func(s *domain.AppSettings, v any) { s.Quiz.MaxQuestions = v.(int) }},
	{key: "quiz.max_options", field: "Quiz.MaxOptions", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Quiz.MaxOptions },
		set: func(s *domain.AppSettings, v any) { s.Quiz.MaxOptions = v.(int) }},
	{key: "quiz.context_budget", field: "Quiz.ContextBudget", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Quiz.ContextBudget },
		set: func(s *domain.AppSettings, v any) { s.Quiz.ContextBudget = v.(int) }},
	{key: "quiz.repair_attempts", field: "Quiz.RepairAttempts", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Quiz.RepairAttempts },
		set: func(s *domain.AppSettings, v any) { s.Quiz.RepairAttempts = v.(int) }},
	{key: "quiz.sample_chunks", field: "Quiz.SampleChunks", kind: kindInt,
		get: func(s *domain.AppSettings) any { return s.Quiz.SampleChunks },
		set: func(s *domain.AppSettings, v any) { s.Quiz.SampleChunks = v.(int) }},
	{key: "store.duplicate_policy", field: "DuplicatePolicy", kind: kindString,
		get: func(s *domain.AppSettings) any { return string(s.DuplicatePolicy) },
		set: func(s *domain.AppSettings, v any) { s.DuplicatePolicy = domain.DuplicatePolicy(v.(string)) }},
	{key: "language.default", field: "DefaultLanguage", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.DefaultLanguage },
		set: func(s *domain.AppSettings, v any) { s.DefaultLanguage = v.(string) }},
	{key: "history.enabled", field: "HistoryEnabled", kind: kindBool,
		get: func(s *domain.AppSettings) any { return s.HistoryEnabled },
		set: func(s *domain.AppSettings, v any) { s.HistoryEnabled = v.(bool) }},
	{key: "classroom.client_id", field: "Classroom.ClientID", kind: kindString,
		get: func(s *domain.AppSettings) any { return s.Classroom.ClientID },
		set: func(s *domain.AppSettings, v any) { s.Classroom.ClientID = v.(string) }},
	{key: "classroom.client_secret", field: "Classroom.ClientSecret", kind: kindString, secret: true,
		get: func(s *domain.AppSettings) any { return s.Classroom.ClientSecret },
		set: func(s *domain.AppSettings, v any) { s.Classroom.ClientSecret = v.(string) }},
	{key: "github.token", field: "GitHubToken", kind: kindString, secret: true,
		get: func(s *domain.AppSettings) any { return s.GitHubToken },
		set: func(s *domain.AppSettings, v any) { s.GitHubToken = v.(string) }},
}

// apiKeyEnv maps providers to the environment variable read when no key is stored.
//
//nolint:gosec // G101: environment variable names, not credentials.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderGemini:    "GEMINI_API_KEY",
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	validate    *validator.Validate
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		getenv:      os.Getenv,
	}
}

// Keys returns every settable key in display order.
func Keys() []string {
	keys := make([]string, len(settingFields))
	for i, f := range settingFields {
		keys[i] = f.key
	}
	return keys
}

// IsSecretKey reports whether a key holds a credential.
func IsSecretKey(key string) bool {
	f, ok := lookupField(key)
	return ok && f.secret
}

// Get retrieves current application settings. Stored values that are not
// recognised fall back to their defaults; missing API keys are read from
// the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	settings := defaults

	for _, f := range settingFields {
		if _, exists := s.configStore.Get(f.key); !exists {
			continue
		}
		switch f.kind {
		case kindString:
			if v := s.configStore.GetString(f.key); v != "" {
				f.set(&settings, v)
			}
		case kindInt:
			f.set(&settings, s.configStore.GetInt(f.key))
		case kindBool:
			f.set(&settings, s.configStore.GetBool(f.key))
		}
	}

	if !settings.LLM.Provider.IsValid() {
		settings.LLM = defaults.LLM
	}
	if settings.Embedding.Provider != "" && !isEmbeddingProvider(settings.Embedding.Provider) {
		settings.Embedding = defaults.Embedding
	}
	if !settings.Retrieval.Mode.IsValid() {
		settings.Retrieval.Mode = defaults.Retrieval.Mode
	}
	if !settings.DuplicatePolicy.IsValid() {
		settings.DuplicatePolicy = defaults.DuplicatePolicy
	}
	if _, ok := domain.LookupLanguage(settings.DefaultLanguage); !ok {
		settings.DefaultLanguage = defaults.DefaultLanguage
	}

	// Environment fallbacks for credentials
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envKey(settings.LLM.Provider)
	}
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envKey(settings.Embedding.Provider)
	}
	if settings.GitHubToken == "" {
		settings.GitHubToken = s.getenv("GITHUB_TOKEN")
	}
	if settings.Classroom.ClientID == "" {
		settings.Classroom.ClientID = s.getenv("GOOGLE_CLIENT_ID")
	}
	if settings.Classroom.ClientSecret == "" {
		settings.Classroom.ClientSecret = s.getenv("GOOGLE_CLIENT_SECRET")
	}

	return &settings, nil
}

// Save persists application settings. Empty credentials and credentials
// that only come from the environment are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.check(settings); err != nil {
		return err
	}
	for _, f := range settingFields {
		value := f.get(settings)
		if f.secret && (value == "" || s.onlyInEnv(f.key, value, settings)) {
			continue
		}
		if err := s.configStore.Set(f.key, value); err != nil {
			return fmt.Errorf("save %s: %w", f.key, err)
		}
	}
	return nil
}

// Set updates a single setting by key. The value is parsed for the key's
// type and the resulting settings are validated before anything is written.
func (s *SettingsService) Set(key, value string) error {
	f, ok := lookupField(key)
	if !ok {
		return domain.NewValidationError("key", "unknown setting %q", key)
	}

	var parsed any
	value = strings.TrimSpace(value)
	switch f.kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.NewValidationError(key, "%q is not a whole number", value)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return domain.NewValidationError(key, "%q is not true or false", value)
		}
		parsed = b
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	f.set(settings, parsed)
	if err := s.check(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return domain.NewValidationError("embedding.provider", "unknown provider %q", provider)
	}
	if !isEmbeddingProvider(provider) {
		return domain.NewValidationError("embedding.provider", "provider %s does not support embeddings", provider)
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return domain.NewValidationError("embedding.api_key", "API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Local providers need a base URL; cloud providers use their default endpoint.
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return domain.NewValidationError("llm.provider", "unknown provider %q", provider)
	}
	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return domain.NewValidationError("llm.api_key", "API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that current settings are consistent and that the
// providers the retrieval mode needs are configured.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := s.check(settings); err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %s is not configured", settings.LLM.Provider)
	}
	if settings.Retrieval.Mode.RequiresEmbedding() && !settings.Embedding.IsConfigured() {
		return fmt.Errorf(
			"retrieval mode %q requires an embedding provider to be configured",
			settings.Retrieval.Mode.Description(),
		)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// check validates struct constraints and enumerated values.
func (s *SettingsService) check(settings *domain.AppSettings) error {
	if err := s.validate.Struct(settings); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return fmt.Errorf("validate settings: %w", err)
	}
	if !settings.LLM.Provider.IsValid() {
		return domain.NewValidationError("llm.provider", "unknown provider %q", settings.LLM.Provider)
	}
	if settings.Embedding.Provider != "" && !isEmbeddingProvider(settings.Embedding.Provider) {
		return domain.NewValidationError("embedding.provider", "provider %s does not support embeddings", settings.Embedding.Provider)
	}
	if _, ok := domain.LookupLanguage(settings.DefaultLanguage); !ok {
		return domain.NewValidationError("language.default", "unsupported language %q", settings.DefaultLanguage)
	}
	return nil
}

// onlyInEnv reports whether a credential is not stored and equals its
// environment fallback.
func (s *SettingsService) onlyInEnv(key string, value any, settings *domain.AppSettings) bool {
	if _, stored := s.configStore.Get(key); stored {
		return false
	}
	var env string
	switch key {
	case "llm.api_key":
		env = s.envKey(settings.LLM.Provider)
	case "embedding.api_key":
		env = s.envKey(settings.Embedding.Provider)
	case "github.token":
		env = s.getenv("GITHUB_TOKEN")
	case "classroom.client_secret":
		env = s.getenv("GOOGLE_CLIENT_SECRET")
	}
	return env != "" && value == env
}

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	if name, ok := apiKeyEnv[provider]; ok {
		return s.getenv(name)
	}
	return ""
}

// fieldError converts a validator failure into a ValidationError on the config key.
func fieldError(fe validator.FieldError) error {
	path := strings.TrimPrefix(fe.StructNamespace(), "AppSettings.")
	key := path
	for _, f := range settingFields {
		if f.field == path {
			key = f.key
			break
		}
	}

	param := fe.Param()
	if other, ok := lookupFieldByPath(strings.SplitN(path, ".", 2)[0] + "." + param); ok {
		param = other.key
	}

	switch fe.Tag() {
	case "gt":
		return domain.NewValidationError(key, "must be greater than %s", param)
	case "gte":
		return domain.NewValidationError(key, "must be at least %s", param)
	case "lte":
		return domain.NewValidationError(key, "must be at most %s", param)
	case "ltfield":
		return domain.NewValidationError(key, "must be less than %s", param)
	case "oneof":
		return domain.NewValidationError(key, "must be one of: %s", param)
	default:
		return domain.NewValidationError(key, "failed %s check", fe.Tag())
	}
}

func lookupField(key string) (settingField, bool) {
	for _, f := range settingFields {
		if f.key == key {
			return f, true
		}
	}
	return settingField{}, false
}

func lookupFieldByPath(path string) (settingField, bool) {
	for _, f := range settingFields {
		if f.field == path {
			return f, true
		}
	}
	return settingField{}, false
}

func isEmbeddingProvider(provider domain.AIProvider) bool {
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			return true
		}
	}
	return false
}
