package entities

import "errors"

// Domain errors
var (
	// Ingestion errors
	ErrInvalidChunk    = errors.New("invalid chunk")
	ErrUnknownMeeting  = errors.New("meeting not found")
	ErrWindowProcessed = errors.New("window already processed")
	ErrWindowNotFound  = errors.New("window not found")

	// Automation lifecycle errors
	ErrEventNotFound     = errors.New("automation event not found")
	ErrAlreadyProcessed  = errors.New("automation event already processed")
	ErrInvalidTransition = errors.New("invalid automation event transition")

	// Meeting errors
	ErrMeetingEnded = errors.New("meeting has ended")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
