package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// Config OpenAI 提供商配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
	}
}

// Provider OpenAI 提供商（通过 Chat Completions 做单条翻译）
type Provider struct {
	config Config
	client *openai.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的 OpenAI 提供商
func New(config Config) *Provider {
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.APIEndpoint != "" {
		clientConfig.BaseURL = config.APIEndpoint
	}

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

const systemPrompt = "You are a professional translator. Translate the user's text exactly, preserving meaning, tone and any placeholders. Reply with the translation only, no explanations."

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if req.SourceLang == req.TargetLang {
		return nil, nil
	}
	if p.config.APIKey == "" {
		return nil, nil
	}

	prompt := fmt.Sprintf("Translate the following text from %s to %s:\n\n%s",
		req.SourceLang, req.TargetLang, req.Text)
	if hint, ok := req.Context["context"]; ok && hint != "" {
		prompt = fmt.Sprintf("Context: %s\n\n%s", hint, prompt)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Temperature: p.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, providers.NewError("server_error", fmt.Sprintf("openai request failed: %v", err))
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, nil
	}

	return &providers.Response{
		Text: text,
		Metadata: map[string]string{
			"model": resp.Model,
		},
	}, nil
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "openai"
}
