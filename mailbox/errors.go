package mailbox

import "errors"

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrSearchNotFound  = errors.New("saved search not found")
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownKey      = errors.New("no action bound to key")
	ErrUnknownFlag     = errors.New("unknown flag")
	ErrInvalidDraft    = errors.New("invalid draft")
	ErrSendFailed      = errors.New("failed to send email")
)
