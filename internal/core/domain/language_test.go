package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	assert.Len(t, langs, 15)
	assert.Equal(t, "English", langs[0].Name)

	// Returned slice is a copy.
	langs[0].Name = "Klingon"
	assert.Equal(t, "English", SupportedLanguages()[0].Name)
}

func TestLookupLanguage(t *testing.T) {
	tests := []struct {
		input string
		name  string
		ok    bool
	}{
		{"French", "French", true},
		{"french", "French", true},
		{"fr", "French", true},
		{"ZH", "Chinese", true},
		{"", "English", true},
		{"Klingon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lang, ok := LookupLanguage(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, lang.Name)
		})
	}
}

func TestLanguage_IsEnglish(t *testing.T) {
	en, _ := LookupLanguage("English")
	es, _ := LookupLanguage("Spanish")
	assert.True(t, en.IsEnglish())
	assert.False(t, es.IsEnglish())
}
