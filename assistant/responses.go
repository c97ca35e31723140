package assistant

import "xmail/models"

type response struct {
	insights    []Insight
	suggestions []string
	priority    models.Priority
}

var responses = map[Kind]response{
	KindGitHub: {
		insights: []Insight{
			{InsightSummary, "Pull request requires code review", 0.95, "🔍"},
			{InsightAction, "Review changes in auth middleware", 0.88, "⚡"},
			{InsightCode, "TypeScript code detected - JWT implementation", 0.92, "💻"},
		},
		suggestions: []string{"Review PR", "Run tests", "Check security"},
		priority:    models.PriorityHigh,
	},
	KindCICD: {
		insights: []Insight{
			{InsightSummary, "Build failure in test suite", 0.98, "❌"},
			{InsightAction, "Fix failing tests immediately", 0.95, "🚨"},
			{InsightPriority, "Blocking main branch deployment", 0.90, "⚠️"},
		},
		suggestions: []string{"Fix tests", "Check logs", "Revert if needed"},
		priority:    models.PriorityUrgent,
	},
	KindAlerts: {
		insights: []Insight{
			{InsightSummary, "Production error affecting users", 0.97, "🚨"},
			{InsightAction, "Apply null check fix", 0.93, "🔧"},
			{InsightCode, "TypeError in auth.js line 45", 0.96, "🐛"},
		},
		suggestions: []string{"Apply hotfix", "Monitor metrics", "Update tests"},
		priority:    models.PriorityUrgent,
	},
	KindCodeReview: {
		insights: []Insight{
			{InsightSummary, "Performance optimization suggestions", 0.89, "⚡"},
			{InsightAction, "Consider pagination implementation", 0.85, "📝"},
			{InsightSentiment, "Positive feedback with constructive suggestions", 0.91, "👍"},
		},
		suggestions: []string{"Implement changes", "Add pagination", "Update docs"},
		priority:    models.PriorityNormal,
	},
	KindDefault: {
		insights: []Insight{
			{InsightSummary, "Standard email communication", 0.75, "📧"},
		},
		suggestions: []string{"Reply", "Archive"},
		priority:    models.PriorityNormal,
	},
}

var composeLines = []string{
	"Thanks for the update!",
	"I'll review this shortly.",
	"LGTM! Merging now.",
	"Could you add tests for this?",
	"Looks good, just one small suggestion:",
	"This is blocking deployment, priority fix needed.",
	"Great work on the optimization!",
	"I've applied the hotfix to production.",
}
