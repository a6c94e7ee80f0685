package domain

import "strings"

// DefaultLanguage is used when no language is given.
const DefaultLanguage = "English"

// Language is a supported response language.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

var supportedLanguages = []Language{
	{"English", "en"},
	{"Spanish", "es"},
	{"French", "fr"},
	{"German", "de"},
	{"Italian", "it"},
	{"Portuguese", "pt"},
	{"Hindi", "hi"},
	{"Chinese", "zh"},
	{"Japanese", "ja"},
	{"Korean", "ko"},
	{"Arabic", "ar"},
	{"Russian", "ru"},
	{"Dutch", "nl"},
	{"Swedish", "sv"},
	{"Turkish", "tr"},
}

// SupportedLanguages returns the supported languages in display order.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// LookupLanguage resolves a language by name or ISO code, case-insensitively.
// An empty value resolves to the default language.
func LookupLanguage(value string) (Language, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = DefaultLanguage
	}
	for _, l := range supportedLanguages {
		if strings.EqualFold(l.Name, value) || strings.EqualFold(l.Code, value) {
			return l, true
		}
	}
	return Language{}, false
}

// IsEnglish returns true for the default language, which needs no directive.
func (l Language) IsEnglish() bool {
	return l.Code == "en"
}
