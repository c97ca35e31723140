package mailbox

import (
	"fmt"
	"sort"
)

// Action is a named keyboard command understood by the workspace
type Action string

const (
	ActionNext           Action = "next"
	ActionPrevious       Action = "previous"
	ActionStar           Action = "star"
	ActionOpen           Action = "open"
	ActionCompose        Action = "compose"
	ActionSearchFocus    Action = "search-focus"
	ActionBack           Action = "back"
	ActionRefresh        Action = "refresh"
	ActionToggleAI       Action = "toggle-ai"
	ActionToggleDevTools Action = "toggle-devtools"
	ActionShowShortcuts  Action = "show-shortcuts"
)

var actionInfo = map[Action]struct {
	description string
	group       string
}{
	ActionNext:           {"Next email", "Navigation"},
	ActionPrevious:       {"Previous email", "Navigation"},
	ActionOpen:           {"Open email", "Navigation"},
	ActionBack:           {"Go back", "Navigation"},
	ActionCompose:        {"Compose email", "Actions"},
	ActionStar:           {"Star/unstar", "Actions"},
	ActionSearchFocus:    {"Search", "Search"},
	ActionToggleAI:       {"Toggle AI assistant", "Developer"},
	ActionToggleDevTools: {"Toggle dev tools", "Developer"},
	ActionRefresh:        {"Refresh", "General"},
	ActionShowShortcuts:  {"Show shortcuts", "General"},
}

// Valid reports whether the action is known
func (a Action) Valid() bool {
	_, ok := actionInfo[a]
	return ok
}

// Shortcut describes one key binding for the help overlay
type Shortcut struct {
	Key         string `json:"key"`
	Action      Action `json:"action"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// DefaultBindings returns the built-in key bindings
func DefaultBindings() map[string]Action {
	return map[string]Action{
		"j":      ActionNext,
		"k":      ActionPrevious,
		"s":      ActionStar,
		"Enter":  ActionOpen,
		"c":      ActionCompose,
		"/":      ActionSearchFocus,
		"ctrl+k": ActionSearchFocus,
		"Escape": ActionBack,
		"r":      ActionRefresh,
		"a":      ActionToggleAI,
		"d":      ActionToggleDevTools,
		"?":      ActionShowShortcuts,
	}
}

// Keymap resolves physical keys to actions
type Keymap struct {
	bindings map[string]Action
}

// NewKeymap creates a keymap from the defaults with overrides applied
func NewKeymap(overrides map[string]string) (*Keymap, error) {
	km := &Keymap{bindings: DefaultBindings()}
	for key, action := range overrides {
		if err := km.Bind(key, Action(action)); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// Bind maps key to action, replacing any previous binding for key
func (k *Keymap) Bind(key string, action Action) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	k.bindings[key] = action
	return nil
}

// Resolve returns the action bound to key
func (k *Keymap) Resolve(key string) (Action, error) {
	a, ok := k.bindings[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return a, nil
}

// Shortcuts lists the bindings grouped by category then key
func (k *Keymap) Shortcuts() []Shortcut {
	out := make([]Shortcut, 0, len(k.bindings))
	for key, action := range k.bindings {
		info := actionInfo[action]
		out = append(out, Shortcut{
			Key:         key,
			Action:      action,
			Description: info.description,
			Category:    info.group,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Key < out[j].Key
	})
	return out
}
