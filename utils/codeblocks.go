package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"xmail/models"
)

var fencePattern = regexp.MustCompile("(?s)```([\\w+-]*)[ \\t]*\\n(.*?)```")

// ExtractCodeBlocks returns the fenced blocks of a plain text body
func ExtractCodeBlocks(body string) []models.CodeBlock {
	var blocks []models.CodeBlock
	for i, m := range fencePattern.FindAllStringSubmatch(body, -1) {
		lang := m[1]
		if lang == "" {
			lang = "text"
		}
		blocks = append(blocks, models.CodeBlock{
			ID:       fmt.Sprintf("block-%d", i+1),
			Language: lang,
			Code:     strings.TrimRight(m[2], "\n"),
		})
	}
	return blocks
}

// ExtractHTMLCodeBlocks returns the <pre> blocks of an HTML body. The language
// comes from a "language-xxx" or "lang-xxx" class on the <code> element.
func ExtractHTMLCodeBlocks(body string) ([]models.CodeBlock, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html body: %w", err)
	}

	var blocks []models.CodeBlock
	doc.Find("pre").Each(func(i int, pre *goquery.Selection) {
		code := pre.Find("code").First()
		text := pre.Text()
		lang := "text"
		if code.Length() > 0 {
			text = code.Text()
			if class, ok := code.Attr("class"); ok {
				lang = languageFromClass(class, lang)
			}
		}
		blocks = append(blocks, models.CodeBlock{
			ID:       fmt.Sprintf("block-%d", i+1),
			Language: lang,
			Code:     strings.TrimRight(text, "\n"),
		})
	})
	return blocks, nil
}

func languageFromClass(class, fallback string) string {
	for _, c := range strings.Fields(class) {
		for _, prefix := range []string{"language-", "lang-"} {
			if strings.HasPrefix(c, prefix) && len(c) > len(prefix) {
				return strings.TrimPrefix(c, prefix)
			}
		}
	}
	return fallback
}
