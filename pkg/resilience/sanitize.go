package resilience

import (
	"regexp"
	"strings"
)

const (
	maxPublicMessageLen = 200
	genericMessage      = "An error occurred"
)

var (
	// stack-trace lines: "at pkg.Func(...)", "goroutine N [...]:", tab-indented frames
	stackLineRe = regexp.MustCompile(`(?m)^\s*(?:at\s+\S+.*|goroutine \d+.*|\S+\.go:\d+.*|[\w./]+\([^)]*\))$`)
	// absolute paths: /unix/form, C:\windows\form, plus file:// URIs
	pathRe = regexp.MustCompile(`(?:file://)?(?:/[\w.\-]+){2,}/?|[A-Za-z]:\\(?:[\w.\- ]+\\?)+`)
	// PEM-style key blocks and long secret-looking tokens
	keyBlockRe = regexp.MustCompile(`-----BEGIN [^-]+-----[\s\S]*?-----END [^-]+-----`)
	secretRe   = regexp.MustCompile(`(?i)(?:api[_-]?key|token|password|secret)\s*[=:]\s*\S+`)
	// internal service addresses: host:port and dotted internal hostnames
	servicePathRe = regexp.MustCompile(`\b[\w.\-]+\.(?:internal|local|svc|cluster)[\w.\-]*(?::\d+)?\b|\b(?:\d{1,3}\.){3}\d{1,3}(?::\d+)?\b`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Sanitize converts a raw error into a message safe to show outside the
// process boundary. Stack frames, filesystem paths, key material and internal
// service addresses are stripped, whitespace is collapsed, and the result is
// capped at 200 characters. An error that sanitizes down to nothing becomes
// the generic message.
func Sanitize(err error) string {
	if err == nil {
		return genericMessage
	}

	msg := err.Error()
	msg = keyBlockRe.ReplaceAllString(msg, " ")
	msg = stackLineRe.ReplaceAllString(msg, " ")
	msg = pathRe.ReplaceAllString(msg, " ")
	msg = secretRe.ReplaceAllString(msg, " ")
	msg = servicePathRe.ReplaceAllString(msg, " ")
	msg = whitespaceRe.ReplaceAllString(msg, " ")
	msg = strings.TrimSpace(msg)

	if msg == "" || !hasLetter(msg) {
		return genericMessage
	}
	if len(msg) > maxPublicMessageLen {
		msg = strings.TrimSpace(msg[:maxPublicMessageLen])
	}
	return msg
}

// Fixed internal-condition to public-phrase table. Checked before falling
// back to Sanitize so common failures read the same every time.
var publicPhrases = []struct {
	pattern string
	message string
}{
	{"connection refused", "The service is temporarily unavailable. Please try again."},
	{"connection reset", "The service is temporarily unavailable. Please try again."},
	{"timeout", "The request timed out. Please try again."},
	{"timed out", "The request timed out. Please try again."},
	{"permission denied", "You do not have permission to perform this action."},
	{"unauthorized", "You do not have permission to perform this action."},
	{"not found", "The requested resource was not found."},
	{"validation", "The request contains invalid data."},
	{"invalid", "The request contains invalid data."},
	{"too many requests", "Too many requests. Please slow down."},
	{"resource exhausted", "Too many requests. Please slow down."},
}

// PublicMessage maps well-known failure classes to stable user-facing
// phrases, falling back to Sanitize for anything unrecognized.
func PublicMessage(err error) string {
	if err == nil {
		return genericMessage
	}
	msg := strings.ToLower(err.Error())
	for _, entry := range publicPhrases {
		if strings.Contains(msg, entry.pattern) {
			return entry.message
		}
	}
	return Sanitize(err)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
