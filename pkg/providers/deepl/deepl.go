package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// Config DeepL配置
type Config struct {
	providers.BaseConfig
	UseFreeAPI bool `json:"use_free_api"` // 是否使用免费API
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
		UseFreeAPI: true,
	}
	config.APIEndpoint = "https://api-free.deepl.com/v2"
	return config
}

// Provider DeepL提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的DeepL提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		if config.UseFreeAPI {
			config.APIEndpoint = "https://api-free.deepl.com/v2"
		} else {
			config.APIEndpoint = "https://api.deepl.com/v2"
		}
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// translateResponse DeepL API 响应
type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if req.SourceLang == req.TargetLang {
		return nil, nil
	}
	if p.config.APIKey == "" {
		// 没有密钥时视为禁用
		return nil, nil
	}

	params := url.Values{}
	params.Set("text", req.Text)
	params.Set("source_lang", strings.ToUpper(providers.NormalizeLanguageCode(req.SourceLang)))
	params.Set("target_lang", strings.ToUpper(providers.NormalizeLanguageCode(req.TargetLang)))

	endpoint := strings.TrimSuffix(p.config.APIEndpoint, "/") + "/translate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewError("timeout", fmt.Sprintf("deepl request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		code := "server_error"
		if resp.StatusCode == http.StatusTooManyRequests {
			code = "rate_limit"
		}
		return nil, providers.NewError(code, fmt.Sprintf("deepl returned status %d: %s", resp.StatusCode, string(body)))
	}

	var result translateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse deepl response: %w", err)
	}

	if len(result.Translations) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	metadata := make(map[string]string)
	if result.Translations[0].DetectedSourceLanguage != "" {
		metadata["detected_source"] = result.Translations[0].DetectedSourceLanguage
	}

	return &providers.Response{
		Text:     result.Translations[0].Text,
		Metadata: metadata,
	}, nil
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "deepl"
}
