package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xmail/models"
)

func msg(from, subject, body string) *models.Message {
	return &models.Message{
		From:    models.Contact{Email: from},
		Subject: subject,
		Body:    body,
	}
}

func TestCategorize(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())

	tests := []struct {
		name string
		msg  *models.Message
		want models.Category
	}{
		{"github sender", msg("noreply@github.com", "hello", ""), models.CategoryGitHub},
		{"pull request subject", msg("bob@corp.com", "New Pull Request opened", ""), models.CategoryGitHub},
		{"pr tag", msg("bob@corp.com", "[PR] fix typo", ""), models.CategoryGitHub},
		{"ci sender", msg("builds@circleci.com", "hello", ""), models.CategoryCICD},
		{"deploy subject", msg("ops@corp.com", "Deploy finished", ""), models.CategoryCICD},
		{"alert sender", msg("alerts@sentry.io", "hello", ""), models.CategoryAlerts},
		{"siren subject", msg("ops@corp.com", "🚨 disk full", ""), models.CategoryAlerts},
		{"fenced code", msg("amy@corp.com", "hi", "look:\n```go\nx := 1\n```"), models.CategoryCodeReview},
		{"inline code", msg("amy@corp.com", "hi", "use `ctx` here"), models.CategoryCodeReview},
		{"review subject", msg("amy@corp.com", "Please review", "plain"), models.CategoryCodeReview},
		{"word code is not code", msg("amy@corp.com", "hi", "the code looks fine"), models.CategoryPrimary},
		{"fallback", msg("amy@corp.com", "lunch?", "tomorrow"), models.CategoryPrimary},
		{"first match wins", msg("noreply@github.com", "Build failed 🚨", "```x```"), models.CategoryGitHub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.msg))
		})
	}
}

func TestDetectPriority(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})

	tests := []struct {
		subject string
		want    models.Priority
	}{
		{"URGENT: call me", models.PriorityUrgent},
		{"critical outage", models.PriorityUrgent},
		{"🚨 Error: TypeError", models.PriorityUrgent},
		{"Build failed", models.PriorityHigh},
		{"API is down", models.PriorityHigh},
		{"Error in prod", models.PriorityHigh},
		{"Code review feedback", models.PriorityNormal},
		{"hello", models.PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DetectPriority(msg("x@y.z", tt.subject, "")))
		})
	}
}

func TestClassifierCustomSenders(t *testing.T) {
	c := NewClassifier(ClassifierConfig{
		CISenders:    []string{" Jenkins "},
		AlertSenders: []string{"PagerDuty"},
	})

	assert.Equal(t, models.CategoryCICD, c.Categorize(msg("bot@jenkins.io", "hi", "")))
	assert.Equal(t, models.CategoryAlerts, c.Categorize(msg("page@pagerduty.com", "hi", "")))
	assert.Equal(t, models.CategoryPrimary, c.Categorize(msg("noreply@circleci.com", "hi", "")))
}

func TestAnnotateSeed(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())

	want := map[string]struct {
		category models.Category
		priority models.Priority
	}{
		"1": {models.CategoryGitHub, models.PriorityNormal},
		"2": {models.CategoryCICD, models.PriorityHigh},
		"3": {models.CategoryCodeReview, models.PriorityNormal},
		"4": {models.CategoryAlerts, models.PriorityUrgent},
		"5": {models.CategoryCICD, models.PriorityNormal},
	}

	for _, m := range SeedMessages() {
		c.Annotate(&m)
		assert.Equal(t, want[m.ID].category, m.Category, m.ID)
		assert.Equal(t, want[m.ID].priority, m.Priority, m.ID)
	}
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode("```\nfoo\n```"))
	assert.True(t, HasCode("call `foo()`"))
	assert.False(t, HasCode("no code here"))
	assert.False(t, HasCode("a lone ` tick"))
}
