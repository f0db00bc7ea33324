package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle state of a meeting
type MeetingStatus string

const (
	MeetingStatusActive MeetingStatus = "active"
	MeetingStatusEnded  MeetingStatus = "ended"
)

// Meeting is the stored meeting model. Windows and automation events hang off
// a meeting and are removed with it.
type Meeting struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title     string        `json:"title" gorm:"type:varchar(255);not null"`
	Status    MeetingStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'active'"`
	StartedAt time.Time     `json:"started_at" gorm:"type:timestamp;not null"`
	EndedAt   *time.Time    `json:"ended_at,omitempty" gorm:"type:timestamp"`

	// ExternalTranscriptID links the meeting to a transcription provider job
	// so the provider webhook can resolve it. Nullable.
	ExternalTranscriptID *string `json:"external_transcript_id,omitempty" gorm:"type:varchar(255);index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new active meeting starting now
func NewMeeting(title string, startedAt time.Time) *Meeting {
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		Status:    MeetingStatusActive,
		StartedAt: startedAt,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// IsActive reports whether the meeting still accepts transcript chunks
func (m *Meeting) IsActive() bool {
	return m.Status == MeetingStatusActive
}

// MarkAsEnded closes the meeting
func (m *Meeting) MarkAsEnded() {
	m.Status = MeetingStatusEnded
	now := time.Now()
	m.EndedAt = &now
	m.UpdatedAt = now
}
