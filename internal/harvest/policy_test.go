package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptPolicy(t *testing.T) {
	policy := &ScriptPolicy{BaseLang: "en"}

	tests := []struct {
		name       string
		text       string
		targetLang string
		want       bool
	}{
		{"Empty", "   ", "ru", false},
		{"Punctuation Only", "***", "ru", false},
		{"Digits Only", "1972", "ru", false},
		{"Mixed Symbols And Digits", "→ 42 %", "ru", false},
		{"Latin To Russian", "Bhagavad Gita", "ru", true},
		{"Cyrillic To Russian", "Привет", "ru", false},
		{"Anything To English", "Привет", "en", false},
		{"Latin To Other Language", "Order now", "es", true},
		{"Latin With Digits To Russian", "Edition 1972", "ru", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldTranslate(tt.text, tt.targetLang))
		})
	}

	t.Run("AllowBase Permits Base Language", func(t *testing.T) {
		// 基础语言是 ru 时，允许往 en 翻需要显式打开
		allow := &ScriptPolicy{BaseLang: "ru", AllowBase: true}
		deny := &ScriptPolicy{BaseLang: "ru"}
		assert.False(t, deny.ShouldTranslate("Привет", "ru"))
		assert.False(t, allow.ShouldTranslate("Привет", "en"), "en target is always the base case")
		assert.True(t, allow.ShouldTranslate("Hello", "ru"))
	})
}

func TestDefaultSourceResolver(t *testing.T) {
	assert.Equal(t, "ru", DefaultSourceResolver("en"))
	assert.Equal(t, "en", DefaultSourceResolver("ru"))
	assert.Equal(t, "en", DefaultSourceResolver("es"))
}
