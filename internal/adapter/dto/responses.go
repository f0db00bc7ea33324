package dto

// ErrorResponse is the only shape an error ever takes on the wire: one
// sanitized message, no code, no stack, no path.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the standard success envelope
type SuccessResponse struct {
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SummaryResponse carries one generated summary
type SummaryResponse struct {
	MeetingID string `json:"meeting_id"`
	Command   string `json:"command"`
	Result    string `json:"result"`
}

// SubmitRecordingResponse acknowledges a transcription submission
type SubmitRecordingResponse struct {
	MeetingID    string `json:"meeting_id"`
	TranscriptID string `json:"transcript_id"`
}
