package mailbox

import (
	"regexp"
	"strings"

	"xmail/models"
)

// codePattern matches a fenced block or an inline code span
var codePattern = regexp.MustCompile("(?s)```.*?```|`[^`]+`")

// HasCode reports whether a body contains fenced or inline code
func HasCode(body string) bool {
	return codePattern.MatchString(body)
}

// ClassifierConfig holds the sender tokens the classifier looks for
type ClassifierConfig struct {
	CISenders    []string
	AlertSenders []string
}

// DefaultClassifierConfig returns the built-in provider tokens
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		CISenders:    []string{"circleci", "vercel"},
		AlertSenders: []string{"sentry", "error"},
	}
}

// Classifier assigns category and priority from message text
type Classifier struct {
	ciSenders    []string
	alertSenders []string
}

// NewClassifier creates a classifier. Empty token lists fall back to defaults.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	def := DefaultClassifierConfig()
	if len(cfg.CISenders) == 0 {
		cfg.CISenders = def.CISenders
	}
	if len(cfg.AlertSenders) == 0 {
		cfg.AlertSenders = def.AlertSenders
	}
	return &Classifier{
		ciSenders:    lowerAll(cfg.CISenders),
		alertSenders: lowerAll(cfg.AlertSenders),
	}
}

// Categorize returns the first matching category, or primary
func (c *Classifier) Categorize(msg *models.Message) models.Category {
	from := strings.ToLower(msg.From.Email)
	subject := strings.ToLower(msg.Subject)

	switch {
	case strings.Contains(from, "github") ||
		containsAny(subject, "github", "pull request", "[pr]"):
		return models.CategoryGitHub
	case containsAny(from, c.ciSenders...) ||
		containsAny(subject, "build", "deploy"):
		return models.CategoryCICD
	case containsAny(from, c.alertSenders...) ||
		containsAny(subject, "alert", "🚨"):
		return models.CategoryAlerts
	case HasCode(msg.Body) || strings.Contains(subject, "review"):
		return models.CategoryCodeReview
	}
	return models.CategoryPrimary
}

// DetectPriority returns the first matching priority, or normal
func (c *Classifier) DetectPriority(msg *models.Message) models.Priority {
	subject := strings.ToLower(msg.Subject)

	switch {
	case containsAny(subject, "urgent", "critical", "🚨"):
		return models.PriorityUrgent
	case containsAny(subject, "error", "failed", "down"):
		return models.PriorityHigh
	case containsAny(subject, "review", "feedback"):
		return models.PriorityNormal
	}
	return models.PriorityNormal
}

// Annotate overwrites category and priority with the classifier output
func (c *Classifier) Annotate(msg *models.Message) {
	msg.Category = c.Categorize(msg)
	msg.Priority = c.DetectPriority(msg)
}

func containsAny(s string, tokens ...string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
