package providers

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguageCode 规范化语言代码
//
// 接受 "ru"、"RU"、"ru-RU" 等形式，返回小写的基础语言代码。
// 无法解析时返回小写的原始输入。
func NormalizeLanguageCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}

	base, _ := tag.Base()
	return base.String()
}
