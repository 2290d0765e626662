package harvest

import (
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// LanguagePolicy 判断一段文本是否需要翻译成目标语言
//
// 作为可插拔策略存在，新增语言对时不需要改动采集逻辑。
type LanguagePolicy interface {
	ShouldTranslate(text, targetLang string) bool
}

// SourceResolver 根据目标语言推断源语言
type SourceResolver func(targetLang string) string

// DefaultSourceResolver 固定启发式：目标是 en 则源是 ru，否则源是 en
func DefaultSourceResolver(targetLang string) string {
	if targetLang == "en" {
		return "ru"
	}
	return "en"
}

// skipPattern 纯标点、符号、空白或数字的内容不需要翻译
var skipPattern = regexp2.MustCompile(`^[\p{P}\p{S}\s0-9]+$`, regexp2.None)

// ScriptPolicy 基于文字系统的默认策略
//
// 跳过空白和纯标点/数字内容；不翻译成基础语言（除非显式允许）；
// 翻译成 ru 时只处理包含拉丁字母的文本。
type ScriptPolicy struct {
	// BaseLang 站点基础语言
	BaseLang string

	// AllowBase 是否允许翻译成基础语言
	AllowBase bool
}

var _ LanguagePolicy = (*ScriptPolicy)(nil)

// ShouldTranslate 实现 LanguagePolicy
func (p *ScriptPolicy) ShouldTranslate(text, targetLang string) bool {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return false
	}

	if matched, _ := skipPattern.MatchString(clean); matched {
		return false
	}

	base := p.BaseLang
	if base == "" {
		base = "en"
	}
	if targetLang == base && !p.AllowBase {
		return false
	}

	switch targetLang {
	case "en":
		// 英语是基础语言，不往英语翻
		return false
	case "ru":
		return containsScript(clean, unicode.Latin)
	default:
		return true
	}
}

// containsScript 判断文本是否包含指定文字系统的字符
func containsScript(text string, table *unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}
