package dto

import "time"

// CreateMeetingRequest starts a new meeting
type CreateMeetingRequest struct {
	Title     string     `json:"title" validate:"required,max=255"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// IngestChunkRequest carries one transcript chunk
type IngestChunkRequest struct {
	MeetingID string    `json:"meeting_id" validate:"required,uuid"`
	Speaker   string    `json:"speaker,omitempty" validate:"max=255"`
	Text      string    `json:"text" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
	// WindowIndex pins the chunk to a window for simulated ingestion
	WindowIndex *int `json:"window_index,omitempty" validate:"omitempty,min=0"`
}

// ApproveEventRequest approves a pending automation event, optionally
// overriding the detected parameters wholesale
type ApproveEventRequest struct {
	EditedParameters map[string]interface{} `json:"edited_parameters,omitempty"`
}

// GenerateSummaryRequest selects a summary command for a meeting
type GenerateSummaryRequest struct {
	Command string `json:"command" validate:"required,oneof=summary actions insights decisions"`
}

// SubmitRecordingRequest submits an audio URL for transcription
type SubmitRecordingRequest struct {
	AudioURL string `json:"audio_url" validate:"required,url"`
}

// UpdateActionItemRequest changes an action item's status
type UpdateActionItemRequest struct {
	Status string `json:"status" validate:"required,oneof=open done dismissed"`
}

// TranscriptWebhookRequest is the transcription provider's completion
// notification payload
type TranscriptWebhookRequest struct {
	TranscriptID string `json:"transcript_id" validate:"required"`
	Status       string `json:"status" validate:"required"`
}
