package errors

// ErrorCode identifies an application error class. Codes are stable and safe
// to log; they never appear in external response bodies.
type ErrorCode int

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_CONFLICT
	ErrorCode_HTTP_OK

	// Ingestion
	ErrorCode_INVALID_CHUNK
	ErrorCode_UNKNOWN_MEETING
	ErrorCode_WINDOW_ALREADY_PROCESSED

	// Automation lifecycle
	ErrorCode_EVENT_NOT_FOUND
	ErrorCode_ALREADY_PROCESSED
	ErrorCode_INVALID_TRANSITION
	ErrorCode_DISPATCH_FAILED

	// Integrations
	ErrorCode_SUMMARY_FAILED
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_STORAGE_FAILED
	ErrorCode_DB_QUERY_FAILED

	// Transport
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_PROCESSING_FAILED
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                  "UNKNOWN",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:           "ALREADY_EXISTS",
	ErrorCode_CONFLICT:                 "CONFLICT",
	ErrorCode_HTTP_OK:                  "OK",
	ErrorCode_INVALID_CHUNK:            "INVALID_CHUNK",
	ErrorCode_UNKNOWN_MEETING:          "UNKNOWN_MEETING",
	ErrorCode_WINDOW_ALREADY_PROCESSED: "WINDOW_ALREADY_PROCESSED",
	ErrorCode_EVENT_NOT_FOUND:          "EVENT_NOT_FOUND",
	ErrorCode_ALREADY_PROCESSED:        "ALREADY_PROCESSED",
	ErrorCode_INVALID_TRANSITION:       "INVALID_TRANSITION",
	ErrorCode_DISPATCH_FAILED:          "DISPATCH_FAILED",
	ErrorCode_SUMMARY_FAILED:           "SUMMARY_FAILED",
	ErrorCode_TRANSCRIPTION_FAILED:     "TRANSCRIPTION_FAILED",
	ErrorCode_STORAGE_FAILED:           "STORAGE_FAILED",
	ErrorCode_DB_QUERY_FAILED:          "DB_QUERY_FAILED",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_PROCESSING_FAILED:        "PROCESSING_FAILED",
}

// String returns the stable name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
