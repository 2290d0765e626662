package harvest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Unit 一个可翻译的文本单元和它的回写位置
type Unit struct {
	// Text 规范化（去除首尾空白）后的原文
	Text string

	// Visible 该单元当前是否在视口内
	Visible bool

	// Apply 把译文写回原位置
	Apply func(translated string)
}

// TextSource 可翻译单元的来源
//
// 把"采集可翻译单元"从具体文档结构中解耦出来，
// 分批提交和轮询逻辑可以用合成树测试。
type TextSource interface {
	Units() []*Unit
}

// ViewportFunc 判断一个元素当前是否可见
//
// 库本身没有布局信息，默认实现认为所有元素可见；
// 嵌入方（比如带渲染器的宿主）可以注入真实的视口判断。
type ViewportFunc func(sel *goquery.Selection) bool

// translatableAttrs 参与翻译的属性白名单
var translatableAttrs = []string{"alt", "title", "placeholder", "aria-label", "value"}

// skippedTags 不参与采集的元素
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// lockSelector 显式退出翻译的标记
const lockSelector = `[data-no-translate], [translate="no"]`

// DocumentSource 基于 goquery 文档的 TextSource 实现
type DocumentSource struct {
	doc      *goquery.Document
	viewport ViewportFunc
}

var _ TextSource = (*DocumentSource)(nil)

// DocumentOption DocumentSource 的配置项
type DocumentOption func(*DocumentSource)

// WithViewport 注入视口判断
func WithViewport(fn ViewportFunc) DocumentOption {
	return func(s *DocumentSource) {
		s.viewport = fn
	}
}

// NewDocumentSource 创建文档采集源
func NewDocumentSource(doc *goquery.Document, opts ...DocumentOption) *DocumentSource {
	s := &DocumentSource{
		doc:      doc,
		viewport: func(*goquery.Selection) bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lang 返回文档声明的语言（html 元素的 lang 属性），小写
func (s *DocumentSource) Lang() string {
	lang, _ := s.doc.Find("html").Attr("lang")
	return strings.ToLower(strings.TrimSpace(lang))
}

// Units 遍历文档，采集文本节点和白名单属性
//
// 跳过 script/style/noscript 以及带锁定标记的子树。
func (s *DocumentSource) Units() []*Unit {
	var units []*Unit

	s.doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if node == nil || skippedTags[node.Data] {
			return
		}
		if sel.Closest(lockSelector).Length() > 0 {
			return
		}

		visible := s.viewport(sel)

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.TextNode {
				continue
			}
			textNode := child
			for _, line := range strings.Split(textNode.Data, "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				original := line
				units = append(units, &Unit{
					Text:    original,
					Visible: visible,
					Apply: func(translated string) {
						textNode.Data = strings.Replace(textNode.Data, original, translated, 1)
					},
				})
			}
		}

		for _, attr := range translatableAttrs {
			val, ok := sel.Attr(attr)
			if !ok {
				continue
			}
			trimmed := strings.TrimSpace(val)
			if trimmed == "" {
				continue
			}
			attrName := attr
			units = append(units, &Unit{
				Text:    trimmed,
				Visible: visible,
				Apply: func(translated string) {
					sel.SetAttr(attrName, translated)
				},
			})
		}
	})

	return units
}
