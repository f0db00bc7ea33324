package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/usecase/classify"
)

type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entities.Meeting
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error {
	f.meetings[m.ID] = m
	return nil
}

func (f *fakeMeetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return f.meetings[id], nil
}

func (f *fakeMeetingRepo) GetByExternalTranscriptID(ctx context.Context, externalID string) (*entities.Meeting, error) {
	for _, m := range f.meetings {
		if m.ExternalTranscriptID != nil && *m.ExternalTranscriptID == externalID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) SetExternalTranscriptID(ctx context.Context, id uuid.UUID, externalID string) error {
	if m, ok := f.meetings[id]; ok {
		m.ExternalTranscriptID = &externalID
	}
	return nil
}

func (f *fakeMeetingRepo) Update(ctx context.Context, m *entities.Meeting) error {
	f.meetings[m.ID] = m
	return nil
}

func (f *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.meetings, id)
	return nil
}

type fakeWindowRepo struct {
	windows map[string]*entities.MinuteWindow
}

func windowKey(meetingID uuid.UUID, index int) string {
	return fmt.Sprintf("%s/%d", meetingID, index)
}

func (f *fakeWindowRepo) AppendToWindow(ctx context.Context, window *entities.MinuteWindow, segment entities.WindowSegment) (*entities.MinuteWindow, error) {
	key := windowKey(window.MeetingID, window.WindowIndex)
	existing, ok := f.windows[key]
	if !ok {
		fresh := *window
		fresh.Segments = []entities.WindowSegment{segment}
		f.windows[key] = &fresh
		return &fresh, nil
	}
	existing.Segments = append(existing.Segments, segment)
	return existing, nil
}

func (f *fakeWindowRepo) GetWindow(ctx context.Context, meetingID uuid.UUID, windowIndex int) (*entities.MinuteWindow, error) {
	return f.windows[windowKey(meetingID, windowIndex)], nil
}

func (f *fakeWindowRepo) GetWindowsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.MinuteWindow, error) {
	var out []entities.MinuteWindow
	for _, w := range f.windows {
		if w.MeetingID == meetingID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWindowRepo) MarkProcessed(ctx context.Context, windowID uuid.UUID, highlights []entities.Highlight) error {
	for _, w := range f.windows {
		if w.ID == windowID {
			w.Highlights = highlights
			w.Processed = true
			return nil
		}
	}
	return errors.New("window not found")
}

type fakeEventRepo struct {
	events map[uuid.UUID]*entities.AutomationEvent
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, e *entities.AutomationEvent) error {
	f.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetEvent(ctx context.Context, id uuid.UUID) (*entities.AutomationEvent, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) UpdateEventStatus(ctx context.Context, id uuid.UUID, expected entities.AutomationStatus, patch map[string]interface{}) (bool, error) {
	e, ok := f.events[id]
	if !ok || e.Status != expected {
		return false, nil
	}
	if s, ok := patch["status"]; ok {
		e.Status = s.(entities.AutomationStatus)
	}
	return true, nil
}

func (f *fakeEventRepo) ListEvents(ctx context.Context, status entities.AutomationStatus, meetingID *uuid.UUID) ([]entities.AutomationEvent, error) {
	var out []entities.AutomationEvent
	for _, e := range f.events {
		if e.Status != status {
			continue
		}
		if meetingID != nil && e.MeetingID != *meetingID {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEventRepo) ListStalePending(ctx context.Context, maxAgeSeconds int) ([]entities.AutomationEvent, error) {
	return nil, nil
}

type fakeInsightRepo struct {
	items     []*entities.ActionItem
	decisions []*entities.Decision
}

func (f *fakeInsightRepo) SaveActionItems(ctx context.Context, items []*entities.ActionItem) error {
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeInsightRepo) ListActionItemsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	return nil, nil
}

func (f *fakeInsightRepo) UpdateActionItemStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error {
	return nil
}

func (f *fakeInsightRepo) SaveDecisions(ctx context.Context, decisions []*entities.Decision) error {
	f.decisions = append(f.decisions, decisions...)
	return nil
}

func (f *fakeInsightRepo) ListDecisionsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.Decision, error) {
	return nil, nil
}

func newTestWindower() (*Windower, *fakeMeetingRepo, *fakeWindowRepo, *fakeEventRepo, *fakeInsightRepo) {
	meetings := &fakeMeetingRepo{meetings: map[uuid.UUID]*entities.Meeting{}}
	windows := &fakeWindowRepo{windows: map[string]*entities.MinuteWindow{}}
	events := &fakeEventRepo{events: map[uuid.UUID]*entities.AutomationEvent{}}
	insights := &fakeInsightRepo{}
	w := NewWindower(meetings, windows, events, insights, classify.NewClassifier(), zap.NewNop())
	return w, meetings, windows, events, insights
}

func seedMeeting(meetings *fakeMeetingRepo, startedAt time.Time) *entities.Meeting {
	m := entities.NewMeeting("weekly sync", startedAt)
	meetings.meetings[m.ID] = m
	return m
}

func TestIngestRejectsEmptyText(t *testing.T) {
	w, meetings, _, _, _ := newTestWindower()
	m := seedMeeting(meetings, time.Now())

	_, err := w.Ingest(context.Background(), TranscriptChunk{
		MeetingID: m.ID,
		Text:      "   ",
		Timestamp: time.Now(),
	})
	if !errors.Is(err, entities.ErrInvalidChunk) {
		t.Errorf("expected ErrInvalidChunk, got %v", err)
	}
}

func TestIngestRejectsUnknownMeeting(t *testing.T) {
	w, _, _, _, _ := newTestWindower()

	_, err := w.Ingest(context.Background(), TranscriptChunk{
		MeetingID: uuid.New(),
		Text:      "hello",
		Timestamp: time.Now(),
	})
	if !errors.Is(err, entities.ErrUnknownMeeting) {
		t.Errorf("expected ErrUnknownMeeting, got %v", err)
	}
}

func TestIngestDerivesWindowIndexFromTimestamp(t *testing.T) {
	w, meetings, _, _, _ := newTestWindower()
	start := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	m := seedMeeting(meetings, start)

	window, err := w.Ingest(context.Background(), TranscriptChunk{
		MeetingID: m.ID,
		Speaker:   "alice",
		Text:      "quick status update",
		Timestamp: start.Add(90 * time.Second),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.WindowIndex != 1 {
		t.Errorf("expected window index 1 for t+90s, got %d", window.WindowIndex)
	}
	if want := start.Add(time.Minute); !window.StartTime.Equal(want) {
		t.Errorf("expected window start %v, got %v", want, window.StartTime)
	}
}

func TestIngestRejectsTimestampBeforeMeetingStart(t *testing.T) {
	w, meetings, _, _, _ := newTestWindower()
	start := time.Now()
	m := seedMeeting(meetings, start)

	_, err := w.Ingest(context.Background(), TranscriptChunk{
		MeetingID: m.ID,
		Text:      "hello",
		Timestamp: start.Add(-time.Second),
	})
	if !errors.Is(err, entities.ErrInvalidChunk) {
		t.Errorf("expected ErrInvalidChunk, got %v", err)
	}
}

func TestIngestMergesChunksIntoOneWindow(t *testing.T) {
	w, meetings, windows, _, _ := newTestWindower()
	start := time.Now()
	m := seedMeeting(meetings, start)
	index := 0

	for i, text := range []string{"first part", "second part"} {
		_, err := w.Ingest(context.Background(), TranscriptChunk{
			MeetingID:   m.ID,
			Speaker:     "bob",
			Text:        text,
			Timestamp:   start.Add(time.Duration(i) * time.Second),
			WindowIndex: &index,
		})
		if err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	if len(windows.windows) != 1 {
		t.Fatalf("expected exactly 1 window, got %d", len(windows.windows))
	}
	window := windows.windows[windowKey(m.ID, 0)]
	if len(window.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(window.Segments))
	}
	if window.Segments[0].Text != "first part" || window.Segments[1].Text != "second part" {
		t.Errorf("segments out of arrival order: %+v", window.Segments)
	}
}

func TestCloseWindowClassifiesAndCreatesEvents(t *testing.T) {
	w, meetings, windows, events, insights := newTestWindower()
	start := time.Now()
	m := seedMeeting(meetings, start)
	index := 0

	_, err := w.Ingest(context.Background(), TranscriptChunk{
		MeetingID:   m.ID,
		Speaker:     "carol",
		Text:        "We decided to ship on Friday. Schedule a follow-up meeting on Monday at 9am.",
		Timestamp:   start,
		WindowIndex: &index,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	window, err := w.CloseWindow(context.Background(), m.ID, 0)
	if err != nil {
		t.Fatalf("close window: %v", err)
	}
	if !window.Processed {
		t.Error("expected window to be marked processed")
	}
	if len(window.Highlights) == 0 {
		t.Error("expected highlights to be stored")
	}
	if len(windows.windows) != 1 || !windows.windows[windowKey(m.ID, 0)].Processed {
		t.Error("expected stored window to be processed")
	}

	if len(events.events) != 1 {
		t.Fatalf("expected 1 automation event, got %d", len(events.events))
	}
	for _, e := range events.events {
		if e.Intent != entities.IntentScheduleMeeting {
			t.Errorf("expected schedule_meeting intent, got %s", e.Intent)
		}
		if e.Status != entities.AutomationStatusPending {
			t.Errorf("expected pending status, got %s", e.Status)
		}
	}

	if len(insights.decisions) == 0 {
		t.Error("expected decision highlight to create a decision record")
	}
}

func TestCloseWindowTwiceFails(t *testing.T) {
	w, meetings, _, _, _ := newTestWindower()
	start := time.Now()
	m := seedMeeting(meetings, start)
	index := 0

	if _, err := w.Ingest(context.Background(), TranscriptChunk{
		MeetingID: m.ID, Text: "nothing remarkable", Timestamp: start, WindowIndex: &index,
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := w.CloseWindow(context.Background(), m.ID, 0); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if _, err := w.CloseWindow(context.Background(), m.ID, 0); !errors.Is(err, entities.ErrWindowProcessed) {
		t.Errorf("expected ErrWindowProcessed, got %v", err)
	}
}

func TestCloseWindowUnknownIndex(t *testing.T) {
	w, meetings, _, _, _ := newTestWindower()
	m := seedMeeting(meetings, time.Now())

	if _, err := w.CloseWindow(context.Background(), m.ID, 7); !errors.Is(err, entities.ErrWindowNotFound) {
		t.Errorf("expected ErrWindowNotFound, got %v", err)
	}
}
