package chat

import "errors"

var (
	// ErrNoAskService is returned when the ask service is not configured.
	ErrNoAskService = errors.New("ask service not configured")

	// ErrNoHistoryService is returned when export is requested without a history service.
	ErrNoHistoryService = errors.New("history service not configured")

	// ErrEmptyConversation is returned when exporting an empty conversation.
	ErrEmptyConversation = errors.New("nothing to export yet")
)
