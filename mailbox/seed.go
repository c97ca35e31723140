package mailbox

import (
	"time"

	"xmail/models"
	"xmail/utils"
)

var you = models.Contact{Name: "You", Email: "you@email.com"}

func at(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedMessages returns the sample inbox loaded at startup
func SeedMessages() []models.Message {
	msgs := []models.Message{
		{
			ID:      "1",
			From:    models.Contact{Name: "GitHub", Email: "noreply@github.com"},
			To:      []models.Contact{you},
			Subject: "[repo/main] PR #42: Add auth middleware",
			Body: "@dev opened a pull request:\n\n" +
				"## Summary\nAdded JWT authentication middleware with rate limiting.\n\n" +
				"## Changes\n- JWT token validation\n- Rate limiting per IP\n- Error handling improvements\n\n" +
				"```typescript\n" +
				"const authMiddleware = (req: Request, res: Response, next: NextFunction) => {\n" +
				"  const token = req.headers.authorization?.split(' ')[1];\n" +
				"  if (!token) {\n" +
				"    return res.status(401).json({ error: 'No token provided' });\n" +
				"  }\n" +
				"  try {\n" +
				"    const decoded = jwt.verify(token, process.env.JWT_SECRET!);\n" +
				"    req.user = decoded;\n" +
				"    next();\n" +
				"  } catch (error) {\n" +
				"    return res.status(401).json({ error: 'Invalid token' });\n" +
				"  }\n" +
				"};\n" +
				"```\n\nReady for review.",
			Timestamp: at("2024-01-15T09:30:00"),
			IsStarred: true,
			Priority:  models.PriorityHigh,
			Category:  models.CategoryGitHub,
			Source:    models.SourceGitHub,
			Labels:    []string{"pull-request"},
		},
		{
			ID:      "2",
			From:    models.Contact{Name: "CircleCI", Email: "noreply@circleci.com"},
			To:      []models.Contact{you},
			Subject: "❌ Build failed: main #1234",
			Body: "Build #1234 failed on main branch\n\n" +
				"**Error:**\n```bash\nnpm ERR! code ELIFECYCLE\nnpm ERR! errno 1\n" +
				"npm ERR! test@1.0.0 test: `jest`\nnpm ERR! Exit status 1\n```\n\n" +
				"**Failed Tests:**\n- auth.test.ts: Token validation\n- user.test.ts: User creation\n\n" +
				"View logs: https://circleci.com/builds/1234",
			Timestamp: at("2024-01-15T08:45:00"),
			Priority:  models.PriorityHigh,
			Category:  models.CategoryCICD,
			Labels:    []string{"build-failure"},
		},
		{
			ID:      "3",
			From:    models.Contact{Name: "Sarah Chen", Email: "sarah@company.com"},
			To:      []models.Contact{you},
			Subject: "Code review: API optimization",
			Body: "Hey! Reviewed your API changes.\n\n" +
				"**Feedback:**\n- Good use of caching\n- Consider adding pagination\n- Database queries look efficient\n\n" +
				"**Suggestion:**\n```typescript\n// Add pagination\n" +
				"const getUsers = async (page = 1, limit = 10) => {\n" +
				"  const offset = (page - 1) * limit;\n" +
				"  return db.users.findMany({\n    skip: offset,\n    take: limit\n  });\n};\n```\n\n" +
				"LGTM overall! 👍",
			Timestamp: at("2024-01-14T16:20:00"),
			IsRead:    true,
			IsStarred: true,
			Priority:  models.PriorityNormal,
			Category:  models.CategoryPrimary,
			Labels:    []string{models.LabelCodeReview},
		},
		{
			ID:      "4",
			From:    models.Contact{Name: "Sentry", Email: "alerts@sentry.io"},
			To:      []models.Contact{you},
			Subject: "🚨 Error: TypeError in auth.js",
			Body: "**New Error Detected**\n\n" +
				"TypeError: Cannot read property 'id' of undefined\nFile: auth.js:45\nUsers affected: 12\n\n" +
				"**Stack Trace:**\n```javascript\nTypeError: Cannot read property 'id' of undefined\n" +
				"    at validateUser (auth.js:45:23)\n    at login (auth.js:12:15)\n```\n\n" +
				"**Fix:**\n`user?.id` instead of `user.id`\n\n" +
				"View: https://sentry.io/issues/12345",
			Timestamp: at("2024-01-14T14:30:00"),
			Priority:  models.PriorityHigh,
			Category:  models.CategoryAlerts,
			Labels:    []string{"error", "production"},
		},
		{
			ID:      "5",
			From:    models.Contact{Name: "Vercel", Email: "noreply@vercel.com"},
			To:      []models.Contact{you},
			Subject: "✅ Deployment successful",
			Body: "Deployment completed successfully!\n\n" +
				"**Details:**\n- URL: https://app.vercel.app\n- Branch: main\n- Commit: a1b2c3d\n- Build time: 2m 34s\n\n" +
				"**Performance:**\n- FCP: 1.2s\n- LCP: 2.1s\n- CLS: 0.05\n\n" +
				"All systems operational! 🚀",
			Timestamp: at("2024-01-14T12:15:00"),
			IsRead:    true,
			Priority:  models.PriorityNormal,
			Category:  models.CategoryCICD,
			Labels:    []string{"deployment"},
		},
	}

	for i := range msgs {
		msgs[i].ThreadID = utils.GenerateThreadID(utils.NormalizeSubject(msgs[i].Subject))
	}
	return msgs
}
