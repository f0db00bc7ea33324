package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
)

type stubMeetingRepo struct {
	meeting *entities.Meeting
}

func (s *stubMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error { return nil }
func (s *stubMeetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	if s.meeting != nil && s.meeting.ID == id {
		return s.meeting, nil
	}
	return nil, nil
}
func (s *stubMeetingRepo) GetByExternalTranscriptID(ctx context.Context, externalID string) (*entities.Meeting, error) {
	return nil, nil
}
func (s *stubMeetingRepo) SetExternalTranscriptID(ctx context.Context, id uuid.UUID, externalID string) error {
	return nil
}
func (s *stubMeetingRepo) Update(ctx context.Context, m *entities.Meeting) error { return nil }
func (s *stubMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }

type stubWindowRepo struct {
	windows []entities.MinuteWindow
}

func (s *stubWindowRepo) AppendToWindow(ctx context.Context, w *entities.MinuteWindow, seg entities.WindowSegment) (*entities.MinuteWindow, error) {
	return nil, nil
}
func (s *stubWindowRepo) GetWindow(ctx context.Context, meetingID uuid.UUID, windowIndex int) (*entities.MinuteWindow, error) {
	return nil, nil
}
func (s *stubWindowRepo) GetWindowsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.MinuteWindow, error) {
	return s.windows, nil
}
func (s *stubWindowRepo) MarkProcessed(ctx context.Context, windowID uuid.UUID, highlights []entities.Highlight) error {
	return nil
}

type stubInsightRepo struct {
	items     []*entities.ActionItem
	decisions []*entities.Decision
}

func (s *stubInsightRepo) SaveActionItems(ctx context.Context, items []*entities.ActionItem) error {
	s.items = append(s.items, items...)
	return nil
}
func (s *stubInsightRepo) ListActionItemsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	return nil, nil
}
func (s *stubInsightRepo) UpdateActionItemStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error {
	return nil
}
func (s *stubInsightRepo) SaveDecisions(ctx context.Context, decisions []*entities.Decision) error {
	s.decisions = append(s.decisions, decisions...)
	return nil
}
func (s *stubInsightRepo) ListDecisionsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.Decision, error) {
	return nil, nil
}

type stubSummarizer struct {
	response        string
	err             error
	lastInstruction string
	lastContext     string
}

func (s *stubSummarizer) Summarize(ctx context.Context, contextText, instruction string) (string, error) {
	s.lastContext = contextText
	s.lastInstruction = instruction
	return s.response, s.err
}

func buildMeetingWithTranscript() (*entities.Meeting, []entities.MinuteWindow) {
	start := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	meeting := entities.NewMeeting("planning", start)
	window := entities.NewMinuteWindow(meeting.ID, 1, start.Add(time.Minute), start.Add(2*time.Minute))
	window.Segments = []entities.WindowSegment{
		{Speaker: "alice", Text: "we shipped the migration", Timestamp: start.Add(65 * time.Second)},
		{Speaker: "bob", Text: "next up is the billing rework", Timestamp: start.Add(80 * time.Second)},
	}
	return meeting, []entities.MinuteWindow{*window}
}

func TestAssembleContextFormat(t *testing.T) {
	meeting, windows := buildMeetingWithTranscript()

	got := AssembleContext(meeting, windows)
	want := "[01:05 alice]: we shipped the migration\n[01:20 bob]: next up is the billing rework"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGenerateSummaryUsesFixedInstruction(t *testing.T) {
	meeting, windows := buildMeetingWithTranscript()
	sum := &stubSummarizer{response: "A short recap."}
	svc := NewService(&stubMeetingRepo{meeting: meeting}, &stubWindowRepo{windows: windows}, &stubInsightRepo{}, sum, nil, zap.NewNop())

	got, err := svc.Generate(context.Background(), meeting.ID, CommandSummary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A short recap." {
		t.Errorf("unexpected result %q", got)
	}
	if sum.lastInstruction != instructions[CommandSummary] {
		t.Errorf("expected the fixed summary instruction, got %q", sum.lastInstruction)
	}
	if sum.lastContext == "" {
		t.Error("expected assembled transcript to be passed to the summarizer")
	}
}

func TestGenerateActionsPersistsItems(t *testing.T) {
	meeting, windows := buildMeetingWithTranscript()
	sum := &stubSummarizer{response: "- update the roadmap\n- notify finance\n\n"}
	insights := &stubInsightRepo{}
	svc := NewService(&stubMeetingRepo{meeting: meeting}, &stubWindowRepo{windows: windows}, insights, sum, nil, zap.NewNop())

	if _, err := svc.Generate(context.Background(), meeting.ID, CommandActions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights.items) != 2 {
		t.Fatalf("expected 2 action items, got %d", len(insights.items))
	}
	if insights.items[0].Content != "update the roadmap" {
		t.Errorf("expected bullet to be stripped, got %q", insights.items[0].Content)
	}
	if insights.items[0].Status != entities.ActionItemStatusOpen {
		t.Errorf("expected open status, got %s", insights.items[0].Status)
	}
}

func TestGenerateDecisionsPersistsDecisions(t *testing.T) {
	meeting, windows := buildMeetingWithTranscript()
	sum := &stubSummarizer{response: "ship the beta next sprint"}
	insights := &stubInsightRepo{}
	svc := NewService(&stubMeetingRepo{meeting: meeting}, &stubWindowRepo{windows: windows}, insights, sum, nil, zap.NewNop())

	if _, err := svc.Generate(context.Background(), meeting.ID, CommandDecisions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights.decisions) != 1 || insights.decisions[0].Content != "ship the beta next sprint" {
		t.Errorf("unexpected decisions: %+v", insights.decisions)
	}
}

func TestGenerateUnknownCommand(t *testing.T) {
	meeting, windows := buildMeetingWithTranscript()
	svc := NewService(&stubMeetingRepo{meeting: meeting}, &stubWindowRepo{windows: windows}, &stubInsightRepo{}, &stubSummarizer{}, nil, zap.NewNop())

	if _, err := svc.Generate(context.Background(), meeting.ID, Command("poetry")); !errors.Is(err, entities.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGenerateUnknownMeeting(t *testing.T) {
	svc := NewService(&stubMeetingRepo{}, &stubWindowRepo{}, &stubInsightRepo{}, &stubSummarizer{}, nil, zap.NewNop())

	if _, err := svc.Generate(context.Background(), uuid.New(), CommandSummary); !errors.Is(err, entities.ErrUnknownMeeting) {
		t.Errorf("expected ErrUnknownMeeting, got %v", err)
	}
}

func TestGenerateEmptyTranscript(t *testing.T) {
	meeting, _ := buildMeetingWithTranscript()
	svc := NewService(&stubMeetingRepo{meeting: meeting}, &stubWindowRepo{}, &stubInsightRepo{}, &stubSummarizer{}, nil, zap.NewNop())

	if _, err := svc.Generate(context.Background(), meeting.ID, CommandSummary); !errors.Is(err, entities.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}
