// Package assistant produces the canned "AI" analysis shown next to an open
// message. Every answer comes from a static table keyed by message kind.
package assistant

import (
	"strings"

	"xmail/models"
	"xmail/utils"
)

// Kind selects which table entry answers for a message
type Kind string

const (
	KindGitHub     Kind = "github"
	KindCICD       Kind = "ci-cd"
	KindAlerts     Kind = "alerts"
	KindCodeReview Kind = "code-review"
	KindDefault    Kind = "default"
)

// InsightType classifies one line of analysis
type InsightType string

const (
	InsightSummary   InsightType = "summary"
	InsightAction    InsightType = "action"
	InsightPriority  InsightType = "priority"
	InsightCode      InsightType = "code"
	InsightSentiment InsightType = "sentiment"
)

// Insight is one observation about a message
type Insight struct {
	Type       InsightType `json:"type"`
	Content    string      `json:"content"`
	Confidence float64     `json:"confidence"`
	Icon       string      `json:"icon,omitempty"`
}

// Analysis is the assistant panel content for one message
type Analysis struct {
	Kind        Kind               `json:"kind"`
	Insights    []Insight          `json:"insights"`
	Suggestions []string           `json:"suggestions"`
	AutoReply   string             `json:"auto_reply,omitempty"`
	Priority    models.Priority    `json:"priority"`
	CodeBlocks  []models.CodeBlock `json:"code_blocks,omitempty"`
}

// KindOf picks the table entry for a message. The message is expected to be
// annotated by the classifier already.
func KindOf(msg *models.Message) Kind {
	switch {
	case msg.Source == models.SourceGitHub || msg.Category == models.CategoryGitHub:
		return KindGitHub
	case msg.Category == models.CategoryCICD:
		return KindCICD
	case msg.Category == models.CategoryAlerts:
		return KindAlerts
	case msg.HasLabel(models.LabelCodeReview):
		return KindCodeReview
	}
	return KindDefault
}

// Analyze returns insights, suggestions and a suggested priority
func Analyze(msg *models.Message) Analysis {
	kind := KindOf(msg)
	entry := responses[kind]

	return Analysis{
		Kind:        kind,
		Insights:    append([]Insight(nil), entry.insights...),
		Suggestions: append([]string(nil), entry.suggestions...),
		Priority:    entry.priority,
	}
}

// Summarize is Analyze plus a suggested reply and the code blocks found in the
// message. HTML bodies are searched for <pre> blocks when the text has none.
func Summarize(msg *models.Message) Analysis {
	a := Analyze(msg)
	a.AutoReply = GenerateReply(msg)
	a.CodeBlocks = utils.ExtractCodeBlocks(msg.Body)

	if len(a.CodeBlocks) == 0 && msg.HTMLBody != "" {
		blocks, err := utils.ExtractHTMLCodeBlocks(msg.HTMLBody)
		if err != nil {
			utils.Log.Warn("Failed to extract code blocks from %s: %v", msg.ID, err)
		}
		a.CodeBlocks = blocks
	}
	return a
}

// GenerateReply returns a canned reply for the message
func GenerateReply(msg *models.Message) string {
	switch {
	case msg.Category == models.CategoryGitHub && msg.HasLabel("pull-request"):
		return "Thanks for the PR! I'll review the auth middleware changes and get back to you shortly.\n\n" +
			"The JWT implementation looks solid. Just want to double-check the rate limiting logic."
	case msg.Category == models.CategoryCICD && msg.HasLabel("build-failure"):
		return "Looking into the test failures now. Will push a fix within the hour.\n\n" +
			"Thanks for the quick notification!"
	case msg.Category == models.CategoryAlerts:
		return "Hotfix deployed. Monitoring the error rates now.\n\n" +
			"The null check should resolve the TypeError. Will follow up with proper tests."
	}
	return "Thanks for reaching out! I'll take a look at this and get back to you."
}

// ComposeHelp suggests opening lines for a reply given free text context
func ComposeHelp(context string) []string {
	ctx := strings.ToLower(context)

	var out []string
	switch {
	case containsAny(ctx, "github", "pr", "pull request"):
		out = composeLines[2:5]
	case containsAny(ctx, "error", "bug", "fix"):
		out = composeLines[5:8]
	default:
		out = composeLines[0:3]
	}
	return append([]string(nil), out...)
}

// EnhanceSearch proposes smart tokens related to a query
func EnhanceSearch(query string) []string {
	q := strings.ToLower(query)

	out := []string{}
	if containsAny(q, "error", "bug") {
		out = append(out, "category:alerts", "priority:high", "has:code")
	}
	if containsAny(q, "pr", "review") {
		out = append(out, "category:github", "label:pull-request", "label:code-review")
	}
	if containsAny(q, "build", "deploy") {
		out = append(out, "category:ci-cd", "from:circleci OR from:vercel")
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
