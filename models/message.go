package models

import (
	"time"

	"github.com/emersion/go-imap"
)

// Priority is the urgency label assigned to a message
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank orders priorities for sorting. Unknown values rank as normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Category is the coarse bucket a message is filed under
type Category string

const (
	CategoryPrimary    Category = "primary"
	CategorySocial     Category = "social"
	CategoryPromotions Category = "promotions"
	CategoryUpdates    Category = "updates"
	CategoryGitHub     Category = "github"
	CategoryCICD       Category = "ci-cd"
	CategoryAlerts     Category = "alerts"
	CategoryCodeReview Category = "code-review"
)

// Source tags where a message originated
const (
	SourceGitHub  = "github"
	SourceGitLab  = "gitlab"
	SourceSlack   = "slack"
	SourceDiscord = "discord"
	SourceEmail   = "email"
)

// LabelCodeReview marks messages shown in the code-reviews folder
const LabelCodeReview = "code-review"

// Flag names a mutable message flag. Values follow the IMAP system flags.
type Flag string

const (
	FlagRead    Flag = imap.SeenFlag
	FlagStarred Flag = imap.FlaggedFlag
)

// Contact is a named mail address
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CodeBlock is a snippet of code found in a message body
type CodeBlock struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Message represents one mail in the store
type Message struct {
	ID             string    `json:"id"`
	From           Contact   `json:"from"`
	To             []Contact `json:"to"`
	Cc             []Contact `json:"cc,omitempty"`
	Bcc            []Contact `json:"bcc,omitempty"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	HTMLBody       string    `json:"html_body,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"is_read"`
	IsStarred      bool      `json:"is_starred"`
	HasAttachments bool      `json:"has_attachments"`
	Priority       Priority  `json:"priority"`
	Category       Category  `json:"category"`
	Labels         []string  `json:"labels"`
	Source         string    `json:"source,omitempty"`
	ThreadID       string    `json:"thread_id,omitempty"`
}

// HasLabel reports whether the message carries the given label
func (m *Message) HasLabel(label string) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can never alias store-owned slices
func (m Message) Clone() Message {
	c := m
	c.To = append([]Contact(nil), m.To...)
	c.Labels = append([]string(nil), m.Labels...)
	if m.Cc != nil {
		c.Cc = append([]Contact(nil), m.Cc...)
	}
	if m.Bcc != nil {
		c.Bcc = append([]Contact(nil), m.Bcc...)
	}
	return c
}
