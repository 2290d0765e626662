package harvest

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func unitTexts(units []*Unit) []string {
	texts := make([]string, 0, len(units))
	for _, u := range units {
		texts = append(texts, u.Text)
	}
	return texts
}

func TestDocumentSource(t *testing.T) {
	t.Run("Collects Text Nodes And Attributes", func(t *testing.T) {
		doc := newDoc(t, `<html lang="RU"><body>
			<h1>Заказать</h1>
			<p>Первая строка
Вторая строка</p>
			<img alt="Обложка">
			<input placeholder="Имя">
		</body></html>`)

		src := NewDocumentSource(doc)
		assert.Equal(t, "ru", src.Lang())

		texts := unitTexts(src.Units())
		assert.Contains(t, texts, "Заказать")
		assert.Contains(t, texts, "Первая строка")
		assert.Contains(t, texts, "Вторая строка")
		assert.Contains(t, texts, "Обложка")
		assert.Contains(t, texts, "Имя")
	})

	t.Run("Skips Scripts And Locked Subtrees", func(t *testing.T) {
		doc := newDoc(t, `<html><body>
			<p>Обычный текст</p>
			<script>var x = 1;</script>
			<div data-no-translate><span>Кришна</span></div>
			<p translate="no">Бхагавад-гита</p>
		</body></html>`)

		texts := unitTexts(NewDocumentSource(doc).Units())
		assert.Equal(t, []string{"Обычный текст"}, texts)
	})

	t.Run("Apply Rewrites Text Node In Place", func(t *testing.T) {
		doc := newDoc(t, `<html><body><p>Заказать</p></body></html>`)

		units := NewDocumentSource(doc).Units()
		require.Len(t, units, 1)
		units[0].Apply("Order")

		html, err := doc.Find("body").Html()
		require.NoError(t, err)
		assert.Contains(t, html, "<p>Order</p>")
	})

	t.Run("Apply Rewrites Single Line Of Multiline Node", func(t *testing.T) {
		doc := newDoc(t, "<html><body><p>Заказать\nКупить</p></body></html>")

		units := NewDocumentSource(doc).Units()
		require.Len(t, units, 2)
		units[1].Apply("Buy")

		text := doc.Find("p").Text()
		assert.Contains(t, text, "Заказать")
		assert.Contains(t, text, "Buy")
		assert.NotContains(t, text, "Купить")
	})

	t.Run("Apply Rewrites Attribute", func(t *testing.T) {
		doc := newDoc(t, `<html><body><img alt="Обложка"></body></html>`)

		units := NewDocumentSource(doc).Units()
		require.Len(t, units, 1)
		units[0].Apply("Cover")

		alt, _ := doc.Find("img").Attr("alt")
		assert.Equal(t, "Cover", alt)
	})

	t.Run("Viewport Controls Visibility", func(t *testing.T) {
		doc := newDoc(t, `<html><body>
			<p class="fold">Заказать</p>
			<p>Купить</p>
		</body></html>`)

		src := NewDocumentSource(doc, WithViewport(func(sel *goquery.Selection) bool {
			return sel.HasClass("fold")
		}))

		visible := make(map[string]bool)
		for _, u := range src.Units() {
			visible[u.Text] = u.Visible
		}
		assert.True(t, visible["Заказать"])
		assert.False(t, visible["Купить"])
	})
}
