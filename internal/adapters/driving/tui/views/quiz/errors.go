package quiz

import "errors"

var (
	// ErrNoQuizService is returned when the quiz service is not configured.
	ErrNoQuizService = errors.New("quiz service not configured")

	// ErrNoHistoryService is returned when export is requested without a history service.
	ErrNoHistoryService = errors.New("history service not configured")
)
