package utils

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockElements end a line when flattened to text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "blockquote": true,
}

// HTMLToText flattens an HTML fragment to plain text. Content of <pre> keeps
// its whitespace and is fenced so the code detector still recognises it.
func HTMLToText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	inPre := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(collapseBlankLines(b.String()))
			}
			return strings.TrimSpace(b.String())
		case html.TextToken:
			text := string(z.Text())
			if inPre == 0 {
				text = strings.Join(strings.Fields(text), " ")
				if text == "" {
					continue
				}
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteString(" ")
				}
			}
			b.WriteString(text)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "pre" {
				inPre++
				b.WriteString("\n```\n")
				continue
			}
			if blockElements[tag] && b.Len() > 0 {
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "pre" && inPre > 0 {
				inPre--
				b.WriteString("\n```\n")
				continue
			}
			if blockElements[tag] {
				b.WriteString("\n")
			}
		}
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " ")
		if l == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
