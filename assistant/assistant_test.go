package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmail/mailbox"
	"xmail/models"
)

func seed(t *testing.T, id string) models.Message {
	t.Helper()
	c := mailbox.NewClassifier(mailbox.DefaultClassifierConfig())
	for _, m := range mailbox.SeedMessages() {
		if m.ID == id {
			c.Annotate(&m)
			return m
		}
	}
	t.Fatalf("no seed message %s", id)
	return models.Message{}
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"1": KindGitHub,
		"2": KindCICD,
		"3": KindCodeReview,
		"4": KindAlerts,
		"5": KindCICD,
	}
	for id, want := range tests {
		m := seed(t, id)
		assert.Equal(t, want, KindOf(&m), id)
	}

	plain := models.Message{Category: models.CategoryPrimary}
	assert.Equal(t, KindDefault, KindOf(&plain))

	fromGitHub := models.Message{Category: models.CategoryPrimary, Source: models.SourceGitHub}
	assert.Equal(t, KindGitHub, KindOf(&fromGitHub))
}

func TestAnalyze(t *testing.T) {
	m := seed(t, "4")
	a := Analyze(&m)

	assert.Equal(t, KindAlerts, a.Kind)
	assert.Equal(t, models.PriorityUrgent, a.Priority)
	require.Len(t, a.Insights, 3)
	assert.Equal(t, InsightSummary, a.Insights[0].Type)
	assert.Equal(t, []string{"Apply hotfix", "Monitor metrics", "Update tests"}, a.Suggestions)

	// callers cannot corrupt the table
	a.Suggestions[0] = "changed"
	assert.Equal(t, "Apply hotfix", Analyze(&m).Suggestions[0])
}

func TestAnalyzeDefault(t *testing.T) {
	a := Analyze(&models.Message{})

	assert.Equal(t, KindDefault, a.Kind)
	assert.Equal(t, []string{"Reply", "Archive"}, a.Suggestions)
	assert.Equal(t, models.PriorityNormal, a.Priority)
}

func TestSummarizeExtractsCode(t *testing.T) {
	m := seed(t, "1")
	a := Summarize(&m)

	require.Len(t, a.CodeBlocks, 1)
	assert.Equal(t, "typescript", a.CodeBlocks[0].Language)
	assert.Contains(t, a.CodeBlocks[0].Code, "authMiddleware")
	assert.Contains(t, a.AutoReply, "Thanks for the PR!")
}

func TestSummarizeHTMLBody(t *testing.T) {
	m := models.Message{
		Body:     "see attached",
		HTMLBody: `<p>see</p><pre><code class="language-go">fmt.Println("hi")</code></pre>`,
	}
	a := Summarize(&m)

	require.Len(t, a.CodeBlocks, 1)
	assert.Equal(t, "go", a.CodeBlocks[0].Language)
	assert.Equal(t, `fmt.Println("hi")`, a.CodeBlocks[0].Code)
}

func TestGenerateReply(t *testing.T) {
	m2 := seed(t, "2")
	assert.Contains(t, GenerateReply(&m2), "test failures")

	m4 := seed(t, "4")
	assert.Contains(t, GenerateReply(&m4), "Hotfix deployed")

	m5 := seed(t, "5")
	assert.Equal(t, "Thanks for reaching out! I'll take a look at this and get back to you.", GenerateReply(&m5))
}

func TestComposeHelp(t *testing.T) {
	assert.Equal(t, []string{"LGTM! Merging now.", "Could you add tests for this?", "Looks good, just one small suggestion:"},
		ComposeHelp("GitHub pull request"))
	assert.Equal(t, []string{"This is blocking deployment, priority fix needed.", "Great work on the optimization!", "I've applied the hotfix to production."},
		ComposeHelp("an error in auth"))
	assert.Equal(t, []string{"Thanks for the update!", "I'll review this shortly.", "LGTM! Merging now."},
		ComposeHelp("lunch"))
}

func TestEnhanceSearch(t *testing.T) {
	assert.Equal(t, []string{"category:alerts", "priority:high", "has:code"}, EnhanceSearch("error"))
	assert.Equal(t, []string{"category:ci-cd", "from:circleci OR from:vercel"}, EnhanceSearch("deploy"))
	assert.Equal(t, []string{"category:github", "label:pull-request", "label:code-review"}, EnhanceSearch("review"))
	assert.Empty(t, EnhanceSearch("lunch"))
}
