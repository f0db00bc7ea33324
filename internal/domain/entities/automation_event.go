package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AutomationStatus represents the status of an automation event
type AutomationStatus string

const (
	AutomationStatusPending   AutomationStatus = "pending"   // Waiting for operator approval
	AutomationStatusApproved  AutomationStatus = "approved"  // Approved, not yet dispatched
	AutomationStatusRejected  AutomationStatus = "rejected"  // Operator rejected, terminal
	AutomationStatusTriggered AutomationStatus = "triggered" // Dispatch in flight
	AutomationStatusCompleted AutomationStatus = "completed" // Dispatch succeeded, terminal
	AutomationStatusFailed    AutomationStatus = "failed"    // Dispatch failed, terminal
	AutomationStatusDismissed AutomationStatus = "dismissed" // Expired without review, terminal
)

// AutomationIntent represents the kind of external side effect an event
// triggers when approved
type AutomationIntent string

const (
	IntentScheduleMeeting     AutomationIntent = "schedule_meeting"
	IntentCreateTicket        AutomationIntent = "create_ticket"
	IntentSendEmail           AutomationIntent = "send_email"
	IntentEmailSummary        AutomationIntent = "email_summary"
	IntentCreateVisualization AutomationIntent = "create_visualization"
	IntentOther               AutomationIntent = "other"
)

// AutomationEvent is the durable record of one detected intent moving through
// human approval to execution. Status is the only field that transitions after
// creation besides EditedParameters, ExternalID, Error and ApprovedAt.
type AutomationEvent struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	TriggerText string           `json:"trigger_text" gorm:"type:text;not null"`
	Intent      AutomationIntent `json:"intent" gorm:"type:varchar(50);not null;index"`

	// Parameters is the classifier extraction; EditedParameters is the
	// operator override and stays null until an edit occurs. Dispatch always
	// receives EditedParameters when present, else Parameters.
	Parameters       datatypes.JSONMap `json:"parameters" gorm:"type:jsonb"`
	EditedParameters datatypes.JSONMap `json:"edited_parameters,omitempty" gorm:"type:jsonb"`

	ConfidenceScore float64          `json:"confidence_score" gorm:"not null;default:0"`
	Status          AutomationStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	ExternalID      *string          `json:"external_id,omitempty" gorm:"type:varchar(255)"`
	Error           *string          `json:"error,omitempty" gorm:"type:text"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (AutomationEvent) TableName() string {
	return "automation_events"
}

// NewAutomationEvent creates a pending event for a detected intent
func NewAutomationEvent(meetingID uuid.UUID, intent AutomationIntent, triggerText string, params map[string]interface{}, confidence float64) *AutomationEvent {
	return &AutomationEvent{
		ID:              uuid.New(),
		MeetingID:       meetingID,
		TriggerText:     triggerText,
		Intent:          intent,
		Parameters:      datatypes.JSONMap(params),
		ConfidenceScore: confidence,
		Status:          AutomationStatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// IsTerminal reports whether the event can no longer transition
func (e *AutomationEvent) IsTerminal() bool {
	switch e.Status {
	case AutomationStatusCompleted, AutomationStatusFailed,
		AutomationStatusRejected, AutomationStatusDismissed:
		return true
	}
	return false
}

// EffectiveParameters returns the parameters Dispatch must receive: the
// operator edit when present, otherwise the detected parameters. Last edit
// wins, no merge.
func (e *AutomationEvent) EffectiveParameters() map[string]interface{} {
	if e.EditedParameters != nil {
		return map[string]interface{}(e.EditedParameters)
	}
	return map[string]interface{}(e.Parameters)
}
