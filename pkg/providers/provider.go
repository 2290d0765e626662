package providers

import (
	"context"
	"time"
)

// BaseConfig 提供商基础配置
type BaseConfig struct {
	// API配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 超时
	Timeout time.Duration `json:"timeout"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
	}
}

// Request 单条文本的翻译请求
type Request struct {
	Text       string            `json:"text"`
	SourceLang string            `json:"sourceLang"`
	TargetLang string            `json:"targetLang"`
	Context    map[string]string `json:"context,omitempty"`
}

// Response 翻译响应
type Response struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Provider 提供商基础接口
//
// Translate 一次翻译一条文本。返回 (nil, nil) 表示"没有可用的翻译"：
// 源语言与目标语言相同、提供商被禁用或者后端没有给出结果。
// 调用方必须把 nil 响应当作"保留原文"处理，而不是错误。
type Provider interface {
	// Translate 执行翻译
	Translate(ctx context.Context, req *Request) (*Response, error)

	// Name 获取提供商名称
	Name() string
}

// Error 提供商错误
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// IsRetryable 判断错误是否可重试
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case "rate_limit", "timeout", "server_error":
		return true
	default:
		return false
	}
}

// NewError 创建提供商错误
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}
