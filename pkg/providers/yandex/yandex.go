package yandex

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// Config Yandex Translate配置
type Config struct {
	providers.BaseConfig
	FolderID string `json:"folder_id,omitempty"` // Yandex Cloud 目录 ID（可选）
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = "https://translate.api.cloud.yandex.net/translate/v2/translate"
	return config
}

// Provider Yandex Translate提供商
type Provider struct {
	config Config
	http   *resty.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的Yandex Translate提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = "https://translate.api.cloud.yandex.net/translate/v2/translate"
	}

	return &Provider{
		config: config,
		http:   resty.New().SetTimeout(config.Timeout),
	}
}

// translateRequest Yandex Translation API 请求
type translateRequest struct {
	SourceLanguageCode string   `json:"sourceLanguageCode"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
	Texts              []string `json:"texts"`
	FolderID           string   `json:"folderId,omitempty"`
}

// translateResponse Yandex Translation API 响应
type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if req.SourceLang == req.TargetLang {
		return nil, nil
	}
	if p.config.APIKey == "" {
		return nil, nil
	}

	payload := translateRequest{
		SourceLanguageCode: providers.NormalizeLanguageCode(req.SourceLang),
		TargetLanguageCode: providers.NormalizeLanguageCode(req.TargetLang),
		Texts:              []string{req.Text},
		FolderID:           p.config.FolderID,
	}

	var result translateResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Api-Key "+p.config.APIKey).
		SetBody(payload).
		SetResult(&result).
		Post(p.config.APIEndpoint)
	if err != nil {
		return nil, providers.NewError("timeout", fmt.Sprintf("yandex request failed: %v", err))
	}

	if resp.IsError() {
		code := "server_error"
		if resp.StatusCode() == http.StatusTooManyRequests {
			code = "rate_limit"
		}
		return nil, providers.NewError(code, fmt.Sprintf("yandex returned status %d: %s", resp.StatusCode(), resp.String()))
	}

	if len(result.Translations) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return &providers.Response{
		Text: result.Translations[0].Text,
	}, nil
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "yandex"
}
