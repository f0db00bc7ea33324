package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

// WindowRepository defines persistence operations for transcript windows.
//
// AppendToWindow is the upsert path for ingestion and must be atomic per
// (meetingID, windowIndex): concurrent appends to the same window must all
// survive in arrival order, and concurrent first-chunk races must converge on
// a single row.
type WindowRepository interface {
	AppendToWindow(ctx context.Context, window *entities.MinuteWindow, segment entities.WindowSegment) (*entities.MinuteWindow, error)
	GetWindow(ctx context.Context, meetingID uuid.UUID, windowIndex int) (*entities.MinuteWindow, error)
	// GetWindowsByMeeting returns all windows ordered by window index.
	GetWindowsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.MinuteWindow, error)
	// MarkProcessed stores the classification output and flips processed in
	// one update.
	MarkProcessed(ctx context.Context, windowID uuid.UUID, highlights []entities.Highlight) error
}
