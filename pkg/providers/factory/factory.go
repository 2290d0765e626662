package factory

import (
	"fmt"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/custom"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/deepl"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/echo"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/google"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/none"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/openai"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/yandex"
)

// Options 创建提供商所需的配置
type Options struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Names 返回所有支持的提供商名称
func Names() []string {
	return []string{"none", "echo", "deepl", "google", "yandex", "custom", "openai"}
}

// New 根据名称创建提供商
//
// 未知名称返回错误；"offline" 是 "none" 的历史别名。
func New(name string, opts Options) (providers.Provider, error) {
	base := providers.DefaultConfig()
	if opts.Timeout > 0 {
		base.Timeout = opts.Timeout
	}
	base.APIKey = opts.APIKey
	base.APIEndpoint = opts.Endpoint

	switch strings.ToLower(name) {
	case "", "none", "offline":
		return none.New(), nil
	case "echo":
		return echo.New(), nil
	case "deepl":
		cfg := deepl.DefaultConfig()
		cfg.APIKey = base.APIKey
		cfg.Timeout = base.Timeout
		if opts.Endpoint != "" {
			cfg.APIEndpoint = opts.Endpoint
		}
		return deepl.New(cfg), nil
	case "google":
		cfg := google.DefaultConfig()
		cfg.APIKey = base.APIKey
		cfg.Timeout = base.Timeout
		if opts.Endpoint != "" {
			cfg.APIEndpoint = opts.Endpoint
		}
		return google.New(cfg), nil
	case "yandex":
		cfg := yandex.DefaultConfig()
		cfg.APIKey = base.APIKey
		cfg.Timeout = base.Timeout
		if opts.Endpoint != "" {
			cfg.APIEndpoint = opts.Endpoint
		}
		return yandex.New(cfg), nil
	case "custom":
		cfg := custom.DefaultConfig()
		cfg.BaseConfig = base
		return custom.New(cfg), nil
	case "openai":
		cfg := openai.DefaultConfig()
		cfg.APIKey = base.APIKey
		cfg.Timeout = base.Timeout
		if opts.Endpoint != "" {
			cfg.APIEndpoint = opts.Endpoint
		}
		if opts.Model != "" {
			cfg.Model = opts.Model
		}
		return openai.New(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}
