package server

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nerdneilsfield/go-site-translator/internal/queue"
)

// translatableAttrs 需要翻译的属性白名单
var translatableAttrs = []string{"alt", "title", "placeholder", "aria-label", "value"}

// skippedTags 不参与文本提取的元素
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// ExtractTexts 从一个 HTML 文档提取可翻译字符串
//
// 遍历 body 下的所有元素，收集每个元素自己的文本节点（按行拆分）
// 和白名单属性值，跳过 script/style/noscript，结果去重且保持出现顺序。
func ExtractTexts(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var texts []string
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		texts = append(texts, t)
	}

	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if node == nil || skippedTags[node.Data] {
			return
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.TextNode {
				continue
			}
			for _, line := range strings.Split(child.Data, "\n") {
				add(line)
			}
		}

		for _, attr := range translatableAttrs {
			if val, ok := sel.Attr(attr); ok {
				add(val)
			}
		}
	})

	return texts
}

// CollectSiteTexts 扫描站点页面目录，返回整站的可翻译条目
//
// 递归查找 .html 文件；每个条目带上页面相对 URL，方便缓存溯源。
func CollectSiteTexts(pagesDir string) ([]queue.BatchItem, error) {
	var items []queue.BatchItem
	seen := make(map[string]bool)

	err := filepath.WalkDir(pagesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		doc, err := goquery.NewDocumentFromReader(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		rel, err := filepath.Rel(pagesDir, path)
		if err != nil {
			rel = d.Name()
		}
		url := "/" + filepath.ToSlash(rel)

		for _, text := range ExtractTexts(doc) {
			if seen[text] {
				continue
			}
			seen[text] = true
			items = append(items, queue.BatchItem{Text: text, URL: url})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}
