package utils

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all markup
	StrictPolicy *bluemonday.Policy
	// MessagePolicy keeps the formatting a composed message may carry
	MessagePolicy *bluemonday.Policy
)

func init() {
	StrictPolicy = bluemonday.StrictPolicy()

	MessagePolicy = bluemonday.UGCPolicy()
	MessagePolicy.AllowElements("p", "br", "div", "span", "h1", "h2", "h3", "h4", "h5", "h6")
	MessagePolicy.AllowElements("strong", "em", "u", "s", "code", "pre", "kbd")
	MessagePolicy.AllowElements("ul", "ol", "li", "blockquote")
	MessagePolicy.AllowElements("table", "thead", "tbody", "tr", "th", "td")

	// language-xxx classes carry the code block language
	MessagePolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	MessagePolicy.AllowAttrs("href").OnElements("a")
	MessagePolicy.RequireParseableURLs(true)
	MessagePolicy.AllowURLSchemes("http", "https", "mailto")
}

// SanitizeHTML cleans composed HTML with the message policy
func SanitizeHTML(html string) string {
	return MessagePolicy.Sanitize(html)
}

// StripHTML removes all HTML tags from content
func StripHTML(html string) string {
	return StrictPolicy.Sanitize(html)
}

// NormalizeSubject lowercases a subject and strips reply/forward prefixes
func NormalizeSubject(subject string) string {
	subject = strings.ToLower(strings.TrimSpace(subject))

	prefixes := []string{"re:", "fwd:", "fw:", "aw:", "wg:"}
	for {
		trimmed := false
		for _, prefix := range prefixes {
			if strings.HasPrefix(subject, prefix) {
				subject = strings.TrimSpace(strings.TrimPrefix(subject, prefix))
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}

	return subject
}

// GenerateThreadID derives a stable thread id from a normalized subject
func GenerateThreadID(normalizedSubject string) string {
	hash := sha256.Sum256([]byte(normalizedSubject))
	return fmt.Sprintf("%x", hash[:16])
}
