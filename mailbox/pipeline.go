package mailbox

import (
	"regexp"
	"sort"
	"strings"

	"xmail/models"
)

// Folder names recognised by the pipeline. Any other folder passes through.
const (
	FolderInbox       = "inbox"
	FolderStarred     = "starred"
	FolderGitHub      = "github"
	FolderCICD        = "ci-cd"
	FolderAlerts      = "alerts"
	FolderCodeReviews = "code-reviews"
	FolderSent        = "sent"
	FolderDrafts      = "drafts"
	FolderArchive     = "archive"
	FolderTrash       = "trash"
)

var (
	fieldTokenPattern = regexp.MustCompile(`\w+:\w+`)
	categoryPattern   = regexp.MustCompile(`category:([\w-]+)`)
)

// Query is the input of one pipeline pass
type Query struct {
	Folder  string           `json:"folder"`
	Text    string           `json:"query"`
	Filters models.FilterSet `json:"filters"`
}

// Filter derives the visible, sorted view from a snapshot of the store.
// The input slice is never modified.
func Filter(c *Classifier, messages []models.Message, q Query) []models.Message {
	view := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		m = m.Clone()
		c.Annotate(&m)

		if !inFolder(&m, q.Folder) || !matchesFilters(&m, q.Filters) || !matchesText(&m, q.Text) {
			continue
		}
		view = append(view, m)
	}

	sort.SliceStable(view, func(i, j int) bool {
		ri, rj := view[i].Priority.Rank(), view[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return view[i].Timestamp.After(view[j].Timestamp)
	})
	return view
}

func inFolder(m *models.Message, folder string) bool {
	switch folder {
	case FolderStarred:
		return m.IsStarred
	case FolderGitHub:
		return m.Category == models.CategoryGitHub || m.Source == models.SourceGitHub
	case FolderCICD:
		return m.Category == models.CategoryCICD
	case FolderAlerts:
		return m.Category == models.CategoryAlerts
	case FolderCodeReviews:
		return m.HasLabel(models.LabelCodeReview)
	}
	// inbox, sent, drafts, archive, trash and unknown folders are not partitioned
	return true
}

func matchesFilters(m *models.Message, f models.FilterSet) bool {
	if f.From != "" && !strings.Contains(strings.ToLower(m.From.Email), strings.ToLower(f.From)) {
		return false
	}
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	if f.Priority != "" && m.Priority != f.Priority {
		return false
	}
	if f.HasCode && !HasCode(m.Body) {
		return false
	}
	if f.IsStarred && !m.IsStarred {
		return false
	}
	if f.IsUnread && m.IsRead {
		return false
	}
	if f.Repository != "" {
		repo := strings.ToLower(f.Repository)
		if !strings.Contains(strings.ToLower(m.Body), repo) &&
			!strings.Contains(strings.ToLower(m.Subject), repo) {
			return false
		}
	}
	return true
}

// matchesText applies the free-text query. The first smart token found
// decides the match on its own and the remaining text is ignored.
func matchesText(m *models.Message, text string) bool {
	if text == "" {
		return true
	}
	query := strings.ToLower(text)

	switch {
	case strings.Contains(query, "has:code"):
		return HasCode(m.Body)
	case strings.Contains(query, "is:starred"):
		return m.IsStarred
	case strings.Contains(query, "priority:high"):
		return m.Priority == models.PriorityHigh || m.Priority == models.PriorityUrgent
	}
	if match := categoryPattern.FindStringSubmatch(query); match != nil {
		return string(m.Category) == match[1]
	}

	needle := strings.TrimSpace(fieldTokenPattern.ReplaceAllString(query, ""))
	haystack := strings.ToLower(m.Subject + " " + m.From.Name + " " + m.Body)
	return strings.Contains(haystack, needle)
}
