package driven

// ConfigStore reads and writes flat, dot-separated settings keys such as
// "llm.provider". Typed getters return the zero value for missing keys and
// for values of another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// Set stores value under key and persists it.
	Set(key string, value any) error

	// Path describes where the settings live.
	Path() string
}
