package none

import (
	"context"

	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// Provider None 提供商实现（翻译被禁用，总是返回"没有翻译"）
type Provider struct{}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的 None 提供商
func New() *Provider {
	return &Provider{}
}

// Translate 执行翻译（无条件返回 nil）
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	return nil, nil
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "none"
}
