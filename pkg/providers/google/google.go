package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// Config Google Translate配置
type Config struct {
	providers.BaseConfig
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = "https://translation.googleapis.com/language/translate/v2"
	return config
}

// Provider Google Translate提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的Google Translate提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = "https://translation.googleapis.com/language/translate/v2"
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// translateRequest Google Translation API 请求
type translateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

// translateResponse Google Translation API 响应
type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
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
		Q:      []string{req.Text},
		Source: providers.NormalizeLanguageCode(req.SourceLang),
		Target: providers.NormalizeLanguageCode(req.TargetLang),
		Format: "text",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?key=%s", p.config.APIEndpoint, p.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewError("timeout", fmt.Sprintf("google request failed: %v", err))
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
		return nil, providers.NewError(code, fmt.Sprintf("google returned status %d: %s", resp.StatusCode, string(body)))
	}

	var result translateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse google response: %w", err)
	}

	if len(result.Data.Translations) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	metadata := make(map[string]string)
	if result.Data.Translations[0].DetectedSourceLanguage != "" {
		metadata["detected_source"] = result.Data.Translations[0].DetectedSourceLanguage
	}

	return &providers.Response{
		Text:     result.Data.Translations[0].TranslatedText,
		Metadata: metadata,
	}, nil
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "google"
}
