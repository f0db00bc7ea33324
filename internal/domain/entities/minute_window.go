package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WindowSegment is one transcript chunk inside a window. Segment order is
// arrival order, never re-sorted.
type WindowSegment struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MinuteWindow is one fixed time slice of a meeting's transcript. At most one
// window exists per (meeting_id, window_index); chunks arriving for an
// existing index are appended to Segments.
type MinuteWindow struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex:idx_windows_meeting_index"`
	WindowIndex int             `json:"window_index" gorm:"not null;uniqueIndex:idx_windows_meeting_index"`
	StartTime   time.Time       `json:"start_time" gorm:"type:timestamp;not null"`
	EndTime     time.Time       `json:"end_time" gorm:"type:timestamp;not null"`
	Segments    []WindowSegment `json:"segments" gorm:"type:jsonb;serializer:json"`
	Highlights  []Highlight     `json:"highlights,omitempty" gorm:"type:jsonb;serializer:json"`
	Processed   bool            `json:"processed" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MinuteWindow) TableName() string {
	return "minute_windows"
}

// NewMinuteWindow creates an unprocessed window for the given slice
func NewMinuteWindow(meetingID uuid.UUID, index int, start, end time.Time) *MinuteWindow {
	return &MinuteWindow{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		WindowIndex: index,
		StartTime:   start,
		EndTime:     end,
		Segments:    make([]WindowSegment, 0, 1),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// Text joins all segments into the window's transcript text, one speaker turn
// per line, in arrival order.
func (w *MinuteWindow) Text() string {
	var sb strings.Builder
	for i, seg := range w.Segments {
		if i > 0 {
			sb.WriteString("\n")
		}
		if seg.Speaker != "" {
			sb.WriteString(seg.Speaker)
			sb.WriteString(": ")
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}
