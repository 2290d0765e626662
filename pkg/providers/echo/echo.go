package echo

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// Provider Echo 提供商实现（测试替身，返回带目标语言标签的原文）
type Provider struct{}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的 Echo 提供商
func New() *Provider {
	return &Provider{}
}

// Translate 执行翻译（返回 "[目标语言] 原文"）
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if req.SourceLang == req.TargetLang {
		return nil, nil
	}

	return &providers.Response{
		Text: fmt.Sprintf("[%s] %s", req.TargetLang, req.Text),
		Metadata: map[string]string{
			"type": "echo",
		},
	}, nil
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "echo"
}
