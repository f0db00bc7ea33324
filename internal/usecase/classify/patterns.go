package classify

import (
	"regexp"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// Per-family confidence weights. These are static pattern weights, not a
// match-quality statistic: a higher value only means the family as a whole
// produces fewer false positives.
const (
	metricConfidence   = 0.90
	decisionConfidence = 0.80
	actionConfidence   = 0.70
)

type highlightPattern struct {
	kind       entities.HighlightType
	re         *regexp.Regexp
	confidence float64
}

// Highlight pattern families, compiled once at process start and never
// mutated. Matches extend to the end of the clause so the emphasized span
// carries enough context to read on its own.
var highlightPatterns = []highlightPattern{
	// metric: currency amounts, optionally scaled
	{entities.HighlightTypeMetric, regexp.MustCompile(`(?i)\$\d+(?:[.,]\d+)*\s*(?:[kmb]\b|million|billion|thousand)?`), metricConfidence},
	// metric: percentages
	{entities.HighlightTypeMetric, regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:%|percent)`), metricConfidence},
	// metric: plain numbers with a unit word
	{entities.HighlightTypeMetric, regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:hours?|days?|weeks?|months?|dollars?|users?|customers?|tickets?)\b`), metricConfidence},

	// decision: fixed phrase set plus the rest of the clause
	{entities.HighlightTypeDecision, regexp.MustCompile(`(?i)\b(?:we(?:'ve| have)? decided|we agreed|agreed to|let's (?:move forward|go) with|the decision is|we(?:'re| are) going with|final decision)[^.!?\n]*`), decisionConfidence},

	// action: commitments and deadlines plus the rest of the clause
	{entities.HighlightTypeAction, regexp.MustCompile(`(?i)\b(?:i'll|i will|action item:?|we need to|needs to|let's follow up|will follow up)[^.!?\n]*`), actionConfidence},
	{entities.HighlightTypeAction, regexp.MustCompile(`(?i)\bby (?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|next week|end of (?:day|week|month|quarter))\b`), actionConfidence},
}

type intentPattern struct {
	intent     entities.AutomationIntent
	re         *regexp.Regexp
	confidence float64
}

// Intent trigger phrases. Table order is the tie-break for matches starting
// at the same offset, so the more specific trigger comes first (email_summary
// before send_email).
var intentPatterns = []intentPattern{
	{entities.IntentScheduleMeeting, regexp.MustCompile(`(?i)\b(?:schedule|set up|book)\s+(?:a\s+|another\s+)?(?:meeting|call|sync|follow-?up)[^.!?\n]*`), 0.85},
	{entities.IntentCreateTicket, regexp.MustCompile(`(?i)\b(?:create|file|open|log)\s+(?:a\s+)?(?:ticket|issue|bug)[^.!?\n]*`), 0.80},
	{entities.IntentEmailSummary, regexp.MustCompile(`(?i)\b(?:send|email)\s+(?:out\s+)?(?:the\s+|a\s+)?(?:summary|notes|minutes|recap)[^.!?\n]*`), 0.80},
	{entities.IntentSendEmail, regexp.MustCompile(`(?i)\b(?:send|shoot|write)\s+(?:an?\s+)?email[^.!?\n]*`), 0.75},
	{entities.IntentCreateVisualization, regexp.MustCompile(`(?i)\b(?:create|generate|make|build)\s+(?:a\s+)?(?:chart|graph|visuali[sz]ation|dashboard)[^.!?\n]*`), 0.75},
	{entities.IntentOther, regexp.MustCompile(`(?i)\b(?:remind me to|set a reminder)[^.!?\n]*`), 0.60},
}

// Sub-patterns used by parameter extraction
var (
	dayRe        = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|today|next week)\b`)
	clockRe      = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)
	emailRe      = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	priorityRe   = regexp.MustCompile(`(?i)\b(urgent|critical|high priority|blocker)\b`)
	chartTypeRe  = regexp.MustCompile(`(?i)\b(bar|line|pie|scatter)\b`)
	ticketLeadRe = regexp.MustCompile(`(?i)^(?:create|file|open|log)\s+(?:a\s+)?(?:ticket|issue|bug)\s*(?:for|about|on|to track)?\s*`)
	reminderRe   = regexp.MustCompile(`(?i)^(?:remind me to|set a reminder\s*(?:to|for)?)\s*`)
)
