package classify

import (
	"sort"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// Classifier turns raw window text into highlights and automation intent
// detections. It is deterministic and carries no state beyond the compiled
// pattern tables, so a single instance is safe for concurrent use.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// IntentDetection is one automation trigger found in a window, with the
// extracted parameters and the span of text that fired it.
type IntentDetection struct {
	Intent     entities.AutomationIntent
	Trigger    string
	StartIndex int
	EndIndex   int
	Confidence float64
	Parameters map[string]interface{}
}

// Classify runs every highlight pattern family over text and returns the
// surviving spans ordered by start offset. Overlaps are resolved by a single
// sweep: spans are sorted by start (table order breaks ties) and a span is
// kept only if it begins at or after the end of the last kept span.
func (c *Classifier) Classify(text string) []entities.Highlight {
	if text == "" {
		return nil
	}

	var candidates []entities.Highlight
	for _, p := range highlightPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, entities.Highlight{
				Type:       p.kind,
				Text:       text[loc[0]:loc[1]],
				StartIndex: loc[0],
				EndIndex:   loc[1],
				Confidence: p.confidence,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StartIndex < candidates[j].StartIndex
	})

	kept := candidates[:0]
	lastEnd := -1
	for _, h := range candidates {
		if h.StartIndex < lastEnd {
			continue
		}
		kept = append(kept, h)
		lastEnd = h.EndIndex
	}
	return kept
}

// DetectIntents finds automation trigger phrases in text. Each detection
// carries parameters extracted from the trigger span only, never from the
// rest of the window. The same sweep as Classify resolves overlapping
// triggers, so one stretch of text produces at most one intent.
func (c *Classifier) DetectIntents(text string) []IntentDetection {
	if text == "" {
		return nil
	}

	var candidates []IntentDetection
	for _, p := range intentPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			trigger := text[loc[0]:loc[1]]
			candidates = append(candidates, IntentDetection{
				Intent:     p.intent,
				Trigger:    trigger,
				StartIndex: loc[0],
				EndIndex:   loc[1],
				Confidence: p.confidence,
				Parameters: extractParams(p.intent, trigger).Map(),
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StartIndex < candidates[j].StartIndex
	})

	kept := candidates[:0]
	lastEnd := -1
	for _, d := range candidates {
		if d.StartIndex < lastEnd {
			continue
		}
		kept = append(kept, d)
		lastEnd = d.EndIndex
	}
	return kept
}

func extractParams(intent entities.AutomationIntent, trigger string) IntentParams {
	switch intent {
	case entities.IntentScheduleMeeting:
		return extractScheduleMeetingParams(trigger)
	case entities.IntentCreateTicket:
		return extractCreateTicketParams(trigger)
	case entities.IntentEmailSummary, entities.IntentSendEmail:
		return extractEmailParams(trigger)
	case entities.IntentCreateVisualization:
		return extractVisualizationParams(trigger)
	default:
		return extractNoteParams(trigger)
	}
}
