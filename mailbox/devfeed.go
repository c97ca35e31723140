package mailbox

import (
	"time"

	"xmail/models"
)

// DevFeed serves the developer tools notification feed
type DevFeed struct {
	items []models.DevNotification
}

// NewDevFeed builds the sample feed relative to now
func NewDevFeed(now time.Time) *DevFeed {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	return &DevFeed{items: []models.DevNotification{
		{ID: "1", Type: "ci-cd", Title: "Build Failed: main #1234", Description: "TypeScript compilation errors in auth module",
			Status: "error", Timestamp: ago(5 * time.Minute), Repository: "auth-service", Branch: "main",
			URL: "https://circleci.com/builds/1234", Priority: "critical"},
		{ID: "2", Type: "github", Title: "PR Ready for Review", Description: "Add JWT authentication middleware",
			Status: "info", Timestamp: ago(15 * time.Minute), Repository: "auth-service", Branch: "feature/jwt-auth",
			URL: "https://github.com/company/auth-service/pull/42", Priority: "high"},
		{ID: "3", Type: "sentry", Title: "Error Rate Spike", Description: `TypeError: Cannot read property "id" of undefined`,
			Status: "error", Timestamp: ago(30 * time.Minute), Repository: "frontend-app",
			URL: "https://sentry.io/issues/12345", Priority: "high"},
		{ID: "4", Type: "ci-cd", Title: "Deployment Successful", Description: "Production deployment completed successfully",
			Status: "success", Timestamp: ago(45 * time.Minute), Repository: "frontend-app", Branch: "main",
			URL: "https://vercel.com/deployments/abc123", Priority: "normal"},
		{ID: "5", Type: "security", Title: "Vulnerability Detected", Description: "High severity vulnerability in lodash dependency",
			Status: "warning", Timestamp: ago(time.Hour), Repository: "auth-service",
			URL: "https://github.com/advisories/GHSA-xxx", Priority: "high"},
		{ID: "6", Type: "github", Title: "Code Review Completed", Description: "Sarah Chen approved your pull request",
			Status: "success", Timestamp: ago(90 * time.Minute), Repository: "frontend-app", Branch: "feature/user-dashboard",
			URL: "https://github.com/company/frontend-app/pull/156", Priority: "normal"},
		{ID: "7", Type: "ci-cd", Title: "Tests Passing", Description: "All 247 tests passed successfully",
			Status: "success", Timestamp: ago(2 * time.Hour), Repository: "auth-service", Branch: "feature/jwt-auth",
			URL: "https://circleci.com/builds/1233", Priority: "low"},
		{ID: "8", Type: "sentry", Title: "Performance Alert", Description: "API response time increased by 40%",
			Status: "warning", Timestamp: ago(3 * time.Hour), Repository: "api-gateway",
			URL: "https://sentry.io/performance/12345", Priority: "normal"},
	}}
}

// List returns notifications of the given type, or all when typ is empty
func (f *DevFeed) List(typ string) []models.DevNotification {
	out := make([]models.DevNotification, 0, len(f.items))
	for _, n := range f.items {
		if typ == "" || n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}
