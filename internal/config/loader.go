package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// envBindings 需要绑定的环境变量（保持历史上使用的变量名）
var envBindings = map[string]string{
	"server.listen":                      "TRANSLATOR_LISTEN",
	"server.pages_dir":                   "TRANSLATOR_PAGES_DIR",
	"translator.provider":                "TRANSLATOR_PROVIDER",
	"translator.api_key":                 "TRANSLATOR_API_KEY",
	"translator.endpoint":                "TRANSLATOR_ENDPOINT",
	"translator.model":                   "TRANSLATOR_MODEL",
	"translator.data_dir":                "TRANSLATOR_DATA_DIR",
	"translator.base_lang":               "TRANSLATOR_BASE_LANG",
	"translator.allow_translate_to_base": "TRANSLATOR_ALLOW_TRANSLATE_TO_BASE",
	"translator.prewarm_source":          "TRANSLATOR_PREWARM_SOURCE",
	"translator.prewarm_target":          "TRANSLATOR_PREWARM_TARGET",
	"translator.timeout":                 "TRANSLATOR_TIMEOUT",
	"translator.job_ttl":                 "TRANSLATOR_JOB_TTL",
}

// Load 加载配置文件并应用环境变量覆盖
//
// configPath 为空时在当前目录和用户主目录下搜索 .site-translator.yaml，
// 找不到配置文件时使用默认配置。
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("server.listen", defaults.Server.Listen)
	v.SetDefault("server.pages_dir", defaults.Server.PagesDir)
	v.SetDefault("translator.provider", defaults.Translator.Provider)
	v.SetDefault("translator.model", defaults.Translator.Model)
	v.SetDefault("translator.data_dir", defaults.Translator.DataDir)
	v.SetDefault("translator.base_lang", defaults.Translator.BaseLang)
	v.SetDefault("translator.prewarm_source", defaults.Translator.PrewarmSource)
	v.SetDefault("translator.prewarm_target", defaults.Translator.PrewarmTarget)
	v.SetDefault("translator.timeout", defaults.Translator.Timeout)
	v.SetDefault("translator.job_ttl", defaults.Translator.JobTTL)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".site-translator")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
			// 没有配置文件时使用默认值和环境变量
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
