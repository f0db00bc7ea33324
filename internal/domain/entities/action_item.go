package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemStatus tracks the follow-up state of an action item. Content is
// append-only; status is the only mutable field.
type ActionItemStatus string

const (
	ActionItemStatusOpen      ActionItemStatus = "open"
	ActionItemStatusDone      ActionItemStatus = "done"
	ActionItemStatusDismissed ActionItemStatus = "dismissed"
)

// ActionItem is a derived record created by classification or summary
// generation.
type ActionItem struct {
	ID             uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID      uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	SourceWindowID *uuid.UUID       `json:"source_window_id,omitempty" gorm:"type:uuid;index"`
	Content        string           `json:"content" gorm:"type:text;not null"`
	Assignee       string           `json:"assignee,omitempty" gorm:"type:varchar(255)"`
	Confidence     float64          `json:"confidence,omitempty"`
	Status         ActionItemStatus `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates an open action item
func NewActionItem(meetingID uuid.UUID, content string) *ActionItem {
	return &ActionItem{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Content:   content,
		Status:    ActionItemStatusOpen,
		CreatedAt: time.Now(),
	}
}

// Decision is a derived record of a decision made during a meeting.
// Append-only; content never mutates once created.
type Decision struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID      uuid.UUID  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	SourceWindowID *uuid.UUID `json:"source_window_id,omitempty" gorm:"type:uuid;index"`
	Content        string     `json:"content" gorm:"type:text;not null"`
	Confidence     float64    `json:"confidence,omitempty"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Decision) TableName() string {
	return "decisions"
}

// NewDecision creates a decision record
func NewDecision(meetingID uuid.UUID, content string) *Decision {
	return &Decision{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
