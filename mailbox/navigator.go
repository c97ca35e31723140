package mailbox

import (
	"xmail/models"
)

// Navigator tracks the open message and moves it over the current view
type Navigator struct {
	selected string
}

// Selected returns the selected message id and whether there is one
func (n *Navigator) Selected() (string, bool) {
	return n.selected, n.selected != ""
}

// Select points the selection at id
func (n *Navigator) Select(id string) {
	n.selected = id
}

// Clear drops the selection
func (n *Navigator) Clear() {
	n.selected = ""
}

// SelectNext moves one step down the view. Without a selection, or when the
// selection is not part of the view, the first element is selected. Moving
// past the end is a no-op.
func (n *Navigator) SelectNext(view []models.Message) {
	if len(view) == 0 {
		return
	}
	i := indexOf(view, n.selected)
	if n.selected == "" || i < 0 {
		n.selected = view[0].ID
		return
	}
	if i < len(view)-1 {
		n.selected = view[i+1].ID
	}
}

// SelectPrevious moves one step up the view. Without a selection the first
// element is selected. Moving past the start is a no-op.
func (n *Navigator) SelectPrevious(view []models.Message) {
	if len(view) == 0 {
		return
	}
	if n.selected == "" {
		n.selected = view[0].ID
		return
	}
	if i := indexOf(view, n.selected); i > 0 {
		n.selected = view[i-1].ID
	}
}

// ToggleStarOnSelected flips the starred flag of the selected message in the
// store, whether or not it stays in the view afterwards.
func (n *Navigator) ToggleStarOnSelected(store *Store) error {
	if n.selected == "" {
		return nil
	}
	msg, err := store.Get(n.selected)
	if err != nil {
		return err
	}
	return store.SetFlag(msg.ID, models.FlagStarred, !msg.IsStarred)
}

// OpenFirstOrSelected opens the selection, or the first element of the view
// when nothing is selected. The opened message is marked read. It returns the
// opened id, or "" when there was nothing to open.
func (n *Navigator) OpenFirstOrSelected(view []models.Message, store *Store) (string, error) {
	if n.selected == "" {
		if len(view) == 0 {
			return "", nil
		}
		n.selected = view[0].ID
	}
	if err := store.SetFlag(n.selected, models.FlagRead, true); err != nil {
		return "", err
	}
	return n.selected, nil
}

func indexOf(view []models.Message, id string) int {
	for i := range view {
		if view[i].ID == id {
			return i
		}
	}
	return -1
}
