package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/domain/repositories"
	"github.com/scribeflow/scribeflow/internal/usecase/classify"
)

// WindowDuration is the fixed slice size for transcript buffering
const WindowDuration = time.Minute

// TranscriptChunk is the transient ingestion input. It is consumed
// immediately and never persisted on its own.
type TranscriptChunk struct {
	MeetingID uuid.UUID
	Speaker   string
	Text      string
	Timestamp time.Time
	// WindowIndex pins the chunk to an explicit window for simulated or
	// historical ingestion. When nil the index is derived from Timestamp.
	WindowIndex *int
}

// Windower buffers transcript chunks into minute windows and runs
// classification when a window is closed.
type Windower struct {
	meetings   repositories.MeetingRepository
	windows    repositories.WindowRepository
	events     repositories.EventRepository
	insights   repositories.InsightRepository
	classifier *classify.Classifier
	logger     *zap.Logger
}

// NewWindower creates a new ingestion windower
func NewWindower(
	meetings repositories.MeetingRepository,
	windows repositories.WindowRepository,
	events repositories.EventRepository,
	insights repositories.InsightRepository,
	classifier *classify.Classifier,
	logger *zap.Logger,
) *Windower {
	return &Windower{
		meetings:   meetings,
		windows:    windows,
		events:     events,
		insights:   insights,
		classifier: classifier,
		logger:     logger,
	}
}

// Ingest merges one chunk into its minute window, creating the window on
// first arrival. The window index is derived from the chunk timestamp
// relative to the meeting start unless the caller pinned one. Ingestion
// never triggers classification; CloseWindow does.
func (w *Windower) Ingest(ctx context.Context, chunk TranscriptChunk) (*entities.MinuteWindow, error) {
	text := strings.TrimSpace(chunk.Text)
	if text == "" {
		return nil, entities.ErrInvalidChunk
	}

	meeting, err := w.meetings.GetByID(ctx, chunk.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, entities.ErrUnknownMeeting
	}

	var index int
	if chunk.WindowIndex != nil {
		index = *chunk.WindowIndex
		if index < 0 {
			return nil, entities.ErrInvalidChunk
		}
	} else {
		offset := chunk.Timestamp.Sub(meeting.StartedAt)
		if offset < 0 {
			return nil, entities.ErrInvalidChunk
		}
		index = int(offset / WindowDuration)
	}

	start := meeting.StartedAt.Add(time.Duration(index) * WindowDuration)
	window := entities.NewMinuteWindow(chunk.MeetingID, index, start, start.Add(WindowDuration))
	segment := entities.WindowSegment{
		Speaker:   chunk.Speaker,
		Text:      text,
		Timestamp: chunk.Timestamp,
	}

	merged, err := w.windows.AppendToWindow(ctx, window, segment)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("📥 chunk ingested",
		zap.String("meeting_id", chunk.MeetingID.String()),
		zap.Int("window_index", merged.WindowIndex),
		zap.Int("segments", len(merged.Segments)))
	return merged, nil
}

// CloseWindow runs the classifier over a buffered window, stores highlights
// and derived records, creates pending automation events for detected
// intents, and marks the window processed. Closing an already processed
// window fails; callers own that ordering.
func (w *Windower) CloseWindow(ctx context.Context, meetingID uuid.UUID, windowIndex int) (*entities.MinuteWindow, error) {
	window, err := w.windows.GetWindow(ctx, meetingID, windowIndex)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, entities.ErrWindowNotFound
	}
	if window.Processed {
		return nil, entities.ErrWindowProcessed
	}

	text := window.Text()
	highlights := w.classifier.Classify(text)
	detections := w.classifier.DetectIntents(text)

	for _, d := range detections {
		event := entities.NewAutomationEvent(meetingID, d.Intent, d.Trigger, d.Parameters, d.Confidence)
		if err := w.events.CreateEvent(ctx, event); err != nil {
			return nil, err
		}
		w.logger.Info("🤖 automation intent detected",
			zap.String("meeting_id", meetingID.String()),
			zap.String("event_id", event.ID.String()),
			zap.String("intent", string(d.Intent)),
			zap.Float64("confidence", d.Confidence))
	}

	if err := w.saveDerivedRecords(ctx, window, highlights); err != nil {
		return nil, err
	}

	if err := w.windows.MarkProcessed(ctx, window.ID, highlights); err != nil {
		return nil, err
	}
	window.Highlights = highlights
	window.Processed = true

	w.logger.Info("⚙️ window classified",
		zap.String("meeting_id", meetingID.String()),
		zap.Int("window_index", windowIndex),
		zap.Int("highlights", len(highlights)),
		zap.Int("intents", len(detections)))
	return window, nil
}

// GetTimeline returns all windows for a meeting ordered by index
func (w *Windower) GetTimeline(ctx context.Context, meetingID uuid.UUID) ([]entities.MinuteWindow, error) {
	meeting, err := w.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, entities.ErrUnknownMeeting
	}
	return w.windows.GetWindowsByMeeting(ctx, meetingID)
}

func (w *Windower) saveDerivedRecords(ctx context.Context, window *entities.MinuteWindow, highlights []entities.Highlight) error {
	var items []*entities.ActionItem
	var decisions []*entities.Decision
	for _, h := range highlights {
		switch h.Type {
		case entities.HighlightTypeAction:
			item := entities.NewActionItem(window.MeetingID, h.Text)
			item.SourceWindowID = &window.ID
			item.Confidence = h.Confidence
			items = append(items, item)
		case entities.HighlightTypeDecision:
			decision := entities.NewDecision(window.MeetingID, h.Text)
			decision.SourceWindowID = &window.ID
			decision.Confidence = h.Confidence
			decisions = append(decisions, decision)
		}
	}
	if err := w.insights.SaveActionItems(ctx, items); err != nil {
		return err
	}
	return w.insights.SaveDecisions(ctx, decisions)
}
