package service

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderArticleHTML converts a recipe article from Markdown to HTML. Raw HTML in
// the article is not passed through.
func RenderArticleHTML(article string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(article), &buf); err != nil {
		return "", fmt.Errorf("failed to render article: %w", err)
	}
	return buf.String(), nil
}
