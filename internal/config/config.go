package config

import (
	"fmt"
	"time"
)

// Config 服务的完整配置
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Translator TranslatorConfig `mapstructure:"translator"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	// Listen 监听地址
	Listen string `mapstructure:"listen"`

	// PagesDir 站点 HTML 页面目录（prewarm 扫描的根目录）
	PagesDir string `mapstructure:"pages_dir"`
}

// TranslatorConfig 翻译引擎配置
type TranslatorConfig struct {
	// Provider 翻译提供商名称 (none, echo, deepl, google, yandex, custom, openai)
	Provider string `mapstructure:"provider"`

	// APIKey 提供商 API 密钥
	APIKey string `mapstructure:"api_key"`

	// Endpoint 自定义提供商的端点
	Endpoint string `mapstructure:"endpoint"`

	// Model LLM 提供商使用的模型
	Model string `mapstructure:"model"`

	// DataDir 持久化数据目录（缓存、任务、反馈三个 JSON 文件）
	DataDir string `mapstructure:"data_dir"`

	// BaseLang 站点的基础语言（不翻译成基础语言）
	BaseLang string `mapstructure:"base_lang"`

	// AllowTranslateToBase 是否允许翻译成基础语言
	AllowTranslateToBase bool `mapstructure:"allow_translate_to_base"`

	// PrewarmSource / PrewarmTarget 站点级预热的语言对
	PrewarmSource string `mapstructure:"prewarm_source"`
	PrewarmTarget string `mapstructure:"prewarm_target"`

	// Timeout 单次提供商调用超时
	Timeout time.Duration `mapstructure:"timeout"`

	// JobTTL 已完成任务的保留时间，0 表示永久保留
	JobTTL time.Duration `mapstructure:"job_ttl"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:   ":3000",
			PagesDir: "./public",
		},
		Translator: TranslatorConfig{
			Provider:      "none",
			Model:         "gpt-4o-mini",
			DataDir:       "./data",
			BaseLang:      "en",
			PrewarmSource: "ru",
			PrewarmTarget: "en",
			Timeout:       30 * time.Second,
			JobTTL:        0,
		},
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Translator.DataDir == "" {
		return fmt.Errorf("translator.data_dir is required")
	}
	if c.Translator.BaseLang == "" {
		return fmt.Errorf("translator.base_lang is required")
	}
	if c.Translator.Provider == "custom" && c.Translator.Endpoint == "" {
		return fmt.Errorf("translator.endpoint is required for the custom provider")
	}
	if c.Translator.Timeout < 0 {
		return fmt.Errorf("translator.timeout must not be negative")
	}
	if c.Translator.JobTTL < 0 {
		return fmt.Errorf("translator.job_ttl must not be negative")
	}
	return nil
}
