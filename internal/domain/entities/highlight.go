package entities

// HighlightType classifies a highlighted span of transcript text
type HighlightType string

const (
	HighlightTypeMetric   HighlightType = "metric"
	HighlightTypeDecision HighlightType = "decision"
	HighlightTypeAction   HighlightType = "action"
)

// Highlight is a classified span of transcript text used for display
// emphasis. Offsets are byte offsets into the source text. For a given text
// the slice is sorted ascending by StartIndex and pairwise non-overlapping.
type Highlight struct {
	Type       HighlightType `json:"type"`
	Text       string        `json:"text"`
	StartIndex int           `json:"start_index"`
	EndIndex   int           `json:"end_index"`
	Confidence float64       `json:"confidence"`
}
