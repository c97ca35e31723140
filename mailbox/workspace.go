package mailbox

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"xmail/models"
	"xmail/utils"
)

// Panels holds the visibility of the UI overlays driven by keyboard actions
type Panels struct {
	ComposeOpen      bool `json:"compose_open"`
	SearchFocused    bool `json:"search_focused"`
	AIVisible        bool `json:"ai_visible"`
	DevToolsVisible  bool `json:"devtools_visible"`
	ShortcutsVisible bool `json:"shortcuts_visible"`
}

// State is a read-only snapshot for the rendering layer
type State struct {
	Folder      string           `json:"folder"`
	Query       string           `json:"query"`
	Filters     models.FilterSet `json:"filters"`
	View        []models.Message `json:"view"`
	Selected    string           `json:"selected,omitempty"`
	Current     *models.Message  `json:"current,omitempty"`
	Panels      Panels           `json:"panels"`
	UnreadCount int              `json:"unread_count"`
	Total       int              `json:"total"`
}

// Draft is the compose form content
type Draft struct {
	To      string `json:"to" form:"to"`
	Subject string `json:"subject" form:"subject"`
	Body    string `json:"body" form:"body"`
	IsHTML  bool   `json:"is_html" form:"is_html"`
}

// Validate checks that the draft has a subject, a body and at least one
// parseable recipient
func (d Draft) Validate() error {
	if _, err := parseRecipients(d.To); err != nil {
		return err
	}
	if strings.TrimSpace(d.Subject) == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidDraft)
	}
	if strings.TrimSpace(d.Body) == "" {
		return fmt.Errorf("%w: missing body", ErrInvalidDraft)
	}
	return nil
}

func parseRecipients(to string) ([]models.Contact, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("%w: missing recipient", ErrInvalidDraft)
	}
	addrs, err := mail.ParseAddressList(to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}

	out := make([]models.Contact, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, models.Contact{Name: a.Name, Email: a.Address})
	}
	return out, nil
}

// Options configures a workspace
type Options struct {
	Seed          []models.Message
	Classifier    *Classifier
	Keymap        *Keymap
	Transport     Transport
	Identity      models.Contact
	DefaultFolder string
}

// Workspace owns the mail store and all UI control state. Every method runs
// under one lock, so operations are applied one at a time and in full.
type Workspace struct {
	mu         sync.Mutex
	store      *Store
	classifier *Classifier
	keymap     *Keymap
	transport  Transport
	saved      *SavedSearches
	nav        Navigator
	query      Query
	panels     Panels
	identity   models.Contact
	now        func() time.Time
}

// NewWorkspace creates a workspace. Missing options get defaults.
func NewWorkspace(opts Options) *Workspace {
	if opts.Classifier == nil {
		opts.Classifier = NewClassifier(DefaultClassifierConfig())
	}
	if opts.Keymap == nil {
		opts.Keymap = &Keymap{bindings: DefaultBindings()}
	}
	if opts.Transport == nil {
		opts.Transport = NewMockTransport(0, 0)
	}
	if opts.Identity.Email == "" {
		opts.Identity = models.Contact{Name: "You", Email: "you@email.com"}
	}
	if opts.DefaultFolder == "" {
		opts.DefaultFolder = FolderInbox
	}

	return &Workspace{
		store:      NewStore(opts.Seed),
		classifier: opts.Classifier,
		keymap:     opts.Keymap,
		transport:  opts.Transport,
		saved:      NewSavedSearches(),
		query:      Query{Folder: opts.DefaultFolder},
		identity:   opts.Identity,
		now:        time.Now,
	}
}

// Message returns one classified message from the store
func (w *Workspace) Message(id string) (models.Message, error) {
	msg, err := w.store.Get(id)
	if err != nil {
		return models.Message{}, err
	}
	w.classifier.Annotate(&msg)
	return msg, nil
}

// Store exposes the underlying message store
func (w *Workspace) Store() *Store {
	return w.store
}

// Keymap exposes the key bindings
func (w *Workspace) Keymap() *Keymap {
	return w.keymap
}

// State recomputes the view and returns a snapshot
func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state()
}

// View runs the pipeline for an explicit query without touching the active one
func (w *Workspace) View(q Query) []models.Message {
	return Filter(w.classifier, w.store.GetAll(), q)
}

// SetQuery replaces folder, text and filters at once
func (w *Workspace) SetQuery(q Query) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	if q.Folder == "" {
		q.Folder = w.query.Folder
	}
	w.query = q
	return w.state()
}

// Search replaces the active query text and filter set
func (w *Workspace) Search(text string, filters models.FilterSet) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.query.Text = text
	w.query.Filters = filters
	return w.state()
}

// Select opens a message by id, marks it read and shows the assistant
func (w *Workspace) Select(id string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.SetFlag(id, models.FlagRead, true); err != nil {
		return State{}, err
	}
	w.nav.Select(id)
	w.panels.AIVisible = true
	return w.state(), nil
}

// ToggleStar flips the starred flag of any message
func (w *Workspace) ToggleStar(id string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg, err := w.store.Get(id)
	if err != nil {
		return State{}, err
	}
	if err := w.store.SetFlag(id, models.FlagStarred, !msg.IsStarred); err != nil {
		return State{}, err
	}
	return w.state(), nil
}

// HandleKey resolves a key through the keymap and dispatches its action
func (w *Workspace) HandleKey(key string) (State, error) {
	action, err := w.keymap.Resolve(key)
	if err != nil {
		return State{}, err
	}
	return w.Dispatch(action)
}

// Dispatch applies one named action against the current view
func (w *Workspace) Dispatch(action Action) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := Filter(w.classifier, w.store.GetAll(), w.query)

	switch action {
	case ActionNext:
		w.nav.SelectNext(view)
	case ActionPrevious:
		w.nav.SelectPrevious(view)
	case ActionStar:
		if err := w.nav.ToggleStarOnSelected(w.store); err != nil {
			return State{}, err
		}
	case ActionOpen:
		id, err := w.nav.OpenFirstOrSelected(view, w.store)
		if err != nil {
			return State{}, err
		}
		if id != "" {
			w.panels.AIVisible = true
		}
	case ActionBack:
		if w.overlayOpen() {
			w.closePanels()
		} else {
			w.nav.Clear()
		}
	case ActionCompose:
		w.panels.ComposeOpen = true
	case ActionSearchFocus:
		w.panels.SearchFocused = true
	case ActionRefresh:
		utils.Log.Info("Refreshing emails...")
	case ActionToggleAI:
		w.panels.AIVisible = !w.panels.AIVisible
	case ActionToggleDevTools:
		w.panels.DevToolsVisible = !w.panels.DevToolsVisible
	case ActionShowShortcuts:
		w.panels.ShortcutsVisible = true
	default:
		return State{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	return w.state(), nil
}

// ClosePanels hides compose, shortcuts and search focus
func (w *Workspace) ClosePanels() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closePanels()
	return w.state()
}

func (w *Workspace) overlayOpen() bool {
	return w.panels.ComposeOpen || w.panels.ShortcutsVisible || w.panels.SearchFocused
}

func (w *Workspace) closePanels() {
	w.panels.ComposeOpen = false
	w.panels.ShortcutsVisible = false
	w.panels.SearchFocused = false
}

// SaveSearch records a named search
func (w *Workspace) SaveSearch(name, query string, filters models.FilterSet) models.SavedSearch {
	return w.saved.Save(name, query, filters)
}

// SavedSearches lists saved searches in save order
func (w *Workspace) SavedSearches() []models.SavedSearch {
	return w.saved.List()
}

// LoadSearch replaces the active query and filters with a saved search
func (w *Workspace) LoadSearch(id string) (State, error) {
	s, err := w.saved.Get(id)
	if err != nil {
		return State{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.query.Text = s.Query
	w.query.Filters = s.Filters
	return w.state(), nil
}

// NewMessage builds the message a draft would produce
func (w *Workspace) NewMessage(d Draft) models.Message {
	body := d.Body
	var htmlBody string
	if d.IsHTML {
		htmlBody = utils.SanitizeHTML(d.Body)
		body = utils.HTMLToText(htmlBody)
	}

	to, err := parseRecipients(d.To)
	if err != nil {
		to = []models.Contact{{Email: strings.TrimSpace(d.To)}}
	}

	return models.Message{
		ID:        uuid.New().String(),
		From:      w.identity,
		To:        to,
		Subject:   d.Subject,
		Body:      body,
		HTMLBody:  htmlBody,
		Timestamp: w.now(),
		IsRead:    true,
		Priority:  models.PriorityNormal,
		Category:  models.CategoryPrimary,
		Labels:    []string{},
		Source:    models.SourceEmail,
		ThreadID:  utils.GenerateThreadID(utils.NormalizeSubject(d.Subject)),
	}
}

// Compose sends a draft through the transport and appends the message on
// success. On failure the store is left unchanged and nothing is retried.
func (w *Workspace) Compose(ctx context.Context, d Draft) (models.Message, error) {
	if err := d.Validate(); err != nil {
		return models.Message{}, err
	}

	w.mu.Lock()
	w.panels.ComposeOpen = false
	msg := w.NewMessage(d)
	w.mu.Unlock()

	if err := w.transport.Send(ctx, msg); err != nil {
		return models.Message{}, fmt.Errorf("send %s: %w", msg.ID, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.store.Append(msg)
	return msg, nil
}

// state must be called with the lock held
func (w *Workspace) state() State {
	view := Filter(w.classifier, w.store.GetAll(), w.query)

	st := State{
		Folder:      w.query.Folder,
		Query:       w.query.Text,
		Filters:     w.query.Filters,
		View:        view,
		Panels:      w.panels,
		UnreadCount: w.store.UnreadCount(),
		Total:       w.store.Len(),
	}
	if id, ok := w.nav.Selected(); ok {
		st.Selected = id
		if msg, err := w.store.Get(id); err == nil {
			w.classifier.Annotate(&msg)
			st.Current = &msg
		}
	}
	return st
}
