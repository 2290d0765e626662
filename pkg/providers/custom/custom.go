package custom

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// Config 自定义端点提供商配置
type Config struct {
	providers.BaseConfig
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig: providers.DefaultConfig(),
	}
}

// Provider 自定义端点提供商
//
// 把整个请求以 JSON 形式 POST 到配置的端点，期望响应中包含 translation 字段。
type Provider struct {
	config Config
	http   *resty.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的自定义端点提供商
func New(config Config) *Provider {
	return &Provider{
		config: config,
		http:   resty.New().SetTimeout(config.Timeout),
	}
}

// translateRequest 自定义端点请求
type translateRequest struct {
	Text       string            `json:"text"`
	SourceLang string            `json:"sourceLang"`
	TargetLang string            `json:"targetLang"`
	Context    map[string]string `json:"context,omitempty"`
}

// translateResponse 自定义端点响应
type translateResponse struct {
	Translation string `json:"translation"`
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if req.SourceLang == req.TargetLang {
		return nil, nil
	}
	if p.config.APIEndpoint == "" {
		// 没有配置端点时视为禁用
		return nil, nil
	}

	payload := translateRequest{
		Text:       req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Context:    req.Context,
	}

	var result translateResponse
	r := p.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result)
	if p.config.APIKey != "" {
		r.SetHeader("Authorization", "Bearer "+p.config.APIKey)
	}
	for k, v := range p.config.Headers {
		r.SetHeader(k, v)
	}

	resp, err := r.Post(p.config.APIEndpoint)
	if err != nil {
		return nil, providers.NewError("timeout", fmt.Sprintf("custom endpoint request failed: %v", err))
	}

	if resp.IsError() {
		code := "server_error"
		if resp.StatusCode() == http.StatusTooManyRequests {
			code = "rate_limit"
		}
		return nil, providers.NewError(code, fmt.Sprintf("custom endpoint returned status %d: %s", resp.StatusCode(), resp.String()))
	}

	if result.Translation == "" {
		return nil, nil
	}

	return &providers.Response{
		Text: result.Translation,
	}, nil
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "custom"
}
