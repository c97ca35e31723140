package models

import "time"

// DevNotification is an entry in the developer tools feed
type DevNotification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // "github", "sentry", "ci-cd", "security"
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // "success", "error", "warning", "info"
	Timestamp   time.Time `json:"timestamp"`
	Repository  string    `json:"repository,omitempty"`
	Branch      string    `json:"branch,omitempty"`
	URL         string    `json:"url,omitempty"`
	Priority    string    `json:"priority"` // "low", "normal", "high", "critical"
}
