package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/usecase/automation"
	"github.com/scribeflow/scribeflow/internal/usecase/classify"
	"github.com/scribeflow/scribeflow/internal/usecase/ingest"
	"github.com/scribeflow/scribeflow/internal/usecase/meeting"
	"github.com/scribeflow/scribeflow/internal/usecase/summary"
	"github.com/scribeflow/scribeflow/internal/usecase/transcriber"
	"github.com/scribeflow/scribeflow/pkg/config"
	"github.com/scribeflow/scribeflow/pkg/dispatch"
	pkgvalidator "github.com/scribeflow/scribeflow/pkg/validator"
)

// in-memory repositories backing the full HTTP stack under test

type memMeetings struct {
	mu sync.Mutex
	m  map[uuid.UUID]*entities.Meeting
}

func (r *memMeetings) Create(ctx context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[m.ID] = m
	return nil
}
func (r *memMeetings) GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[id], nil
}
func (r *memMeetings) GetByExternalTranscriptID(ctx context.Context, externalID string) (*entities.Meeting, error) {
	return nil, nil
}
func (r *memMeetings) SetExternalTranscriptID(ctx context.Context, id uuid.UUID, externalID string) error {
	return nil
}
func (r *memMeetings) Update(ctx context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[m.ID] = m
	return nil
}
func (r *memMeetings) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

type memWindows struct {
	mu sync.Mutex
	m  map[string]*entities.MinuteWindow
}

func winKey(meetingID uuid.UUID, index int) string {
	return fmt.Sprintf("%s/%d", meetingID, index)
}

func (r *memWindows) AppendToWindow(ctx context.Context, w *entities.MinuteWindow, seg entities.WindowSegment) (*entities.MinuteWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := winKey(w.MeetingID, w.WindowIndex)
	if existing, ok := r.m[key]; ok {
		existing.Segments = append(existing.Segments, seg)
		return existing, nil
	}
	fresh := *w
	fresh.Segments = []entities.WindowSegment{seg}
	r.m[key] = &fresh
	return &fresh, nil
}
func (r *memWindows) GetWindow(ctx context.Context, meetingID uuid.UUID, windowIndex int) (*entities.MinuteWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[winKey(meetingID, windowIndex)], nil
}
func (r *memWindows) GetWindowsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.MinuteWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.MinuteWindow
	for _, w := range r.m {
		if w.MeetingID == meetingID {
			out = append(out, *w)
		}
	}
	return out, nil
}
func (r *memWindows) MarkProcessed(ctx context.Context, windowID uuid.UUID, highlights []entities.Highlight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.m {
		if w.ID == windowID {
			w.Highlights = highlights
			w.Processed = true
		}
	}
	return nil
}

type memEvents struct {
	mu sync.Mutex
	m  map[uuid.UUID]*entities.AutomationEvent
}

func (r *memEvents) CreateEvent(ctx context.Context, e *entities.AutomationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[e.ID] = e
	return nil
}
func (r *memEvents) GetEvent(ctx context.Context, id uuid.UUID) (*entities.AutomationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}
func (r *memEvents) UpdateEventStatus(ctx context.Context, id uuid.UUID, expected entities.AutomationStatus, patch map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.m[id]
	if !ok || e.Status != expected {
		return false, nil
	}
	for key, value := range patch {
		switch key {
		case "status":
			e.Status = value.(entities.AutomationStatus)
		case "external_id":
			v := value.(string)
			e.ExternalID = &v
		case "error":
			v := value.(string)
			e.Error = &v
		case "edited_parameters":
			e.EditedParameters = value.(datatypes.JSONMap)
		case "approved_at":
			v := value.(time.Time)
			e.ApprovedAt = &v
		}
	}
	return true, nil
}
func (r *memEvents) ListEvents(ctx context.Context, status entities.AutomationStatus, meetingID *uuid.UUID) ([]entities.AutomationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.AutomationEvent
	for _, e := range r.m {
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
func (r *memEvents) ListStalePending(ctx context.Context, maxAgeSeconds int) ([]entities.AutomationEvent, error) {
	return nil, nil
}

type memInsights struct{}

func (memInsights) SaveActionItems(ctx context.Context, items []*entities.ActionItem) error { return nil }
func (memInsights) ListActionItemsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	return nil, nil
}
func (memInsights) UpdateActionItemStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error {
	return nil
}
func (memInsights) SaveDecisions(ctx context.Context, decisions []*entities.Decision) error {
	return nil
}
func (memInsights) ListDecisionsByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.Decision, error) {
	return nil, nil
}

type noopSummarizer struct{}

func (noopSummarizer) Summarize(ctx context.Context, contextText, instruction string) (string, error) {
	return "summary", nil
}

type testStack struct {
	e        *echo.Echo
	meetings *memMeetings
	events   *memEvents
}

func newTestStack(t *testing.T, dispatchURL string) *testStack {
	t.Helper()

	logger := zap.NewNop()
	meetings := &memMeetings{m: map[uuid.UUID]*entities.Meeting{}}
	windows := &memWindows{m: map[string]*entities.MinuteWindow{}}
	events := &memEvents{m: map[uuid.UUID]*entities.AutomationEvent{}}
	insights := memInsights{}

	windower := ingest.NewWindower(meetings, windows, events, insights, classify.NewClassifier(), logger)
	dispatcher := dispatch.NewWebhookDispatcher(dispatchURL, "test-secret", 5*time.Second)
	automationSvc := automation.NewService(events, dispatcher, logger, time.Hour, 0)
	meetingSvc := meeting.NewService(meetings, insights, logger)
	summarySvc := summary.NewService(meetings, windows, insights, noopSummarizer{}, nil, logger)
	transcriberSvc := transcriber.NewService(meetings, windower, config.TranscriptionConfig{}, logger)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"

	e := echo.New()
	e.Validator = pkgvalidator.New()
	router := NewRouter(cfg,
		NewMeeting(meetingSvc, summarySvc, transcriberSvc, logger),
		NewIngest(windower, logger),
		NewEvent(automationSvc, logger),
		NewWebhook(transcriberSvc, logger),
	)
	router.Setup(e)

	return &testStack{e: e, meetings: meetings, events: events}
}

func (ts *testStack) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func TestScheduleMeetingEndToEnd(t *testing.T) {
	workflow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"external_id": "wf-e2e-1"})
	}))
	defer workflow.Close()

	ts := newTestStack(t, workflow.URL)

	// create a meeting
	rec := ts.do(http.MethodPost, "/v1/meetings", `{"title":"sprint planning"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create meeting: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data entities.Meeting `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode meeting: %v", err)
	}
	meetingID := created.Data.ID

	// ingest a chunk carrying an automation trigger
	chunk := fmt.Sprintf(`{"meeting_id":%q,"speaker":"alice","text":"Hey, schedule a meeting for Friday at 10am","timestamp":%q,"window_index":0}`,
		meetingID, created.Data.StartedAt.Format(time.RFC3339))
	rec = ts.do(http.MethodPost, "/v1/chunks", chunk)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest chunk: status %d body %s", rec.Code, rec.Body.String())
	}

	// close the window to run classification
	rec = ts.do(http.MethodPost, "/v1/meetings/"+meetingID.String()+"/windows/0/close", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("close window: status %d body %s", rec.Code, rec.Body.String())
	}

	// exactly one pending schedule_meeting event exists
	rec = ts.do(http.MethodGet, "/v1/events/pending?meeting_id="+meetingID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list pending: status %d body %s", rec.Code, rec.Body.String())
	}
	var pending struct {
		Data []entities.AutomationEvent `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &pending); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if len(pending.Data) != 1 {
		t.Fatalf("expected 1 pending event, got %d", len(pending.Data))
	}
	event := pending.Data[0]
	if event.Intent != entities.IntentScheduleMeeting {
		t.Errorf("expected schedule_meeting, got %s", event.Intent)
	}

	// approve dispatches and completes
	rec = ts.do(http.MethodPost, "/v1/events/"+event.ID.String()+"/approve", "{}")
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: status %d body %s", rec.Code, rec.Body.String())
	}
	var approved struct {
		Data entities.AutomationEvent `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &approved); err != nil {
		t.Fatalf("decode approved: %v", err)
	}
	if approved.Data.Status != entities.AutomationStatusCompleted {
		t.Errorf("expected completed, got %s", approved.Data.Status)
	}
	if approved.Data.ExternalID == nil || *approved.Data.ExternalID != "wf-e2e-1" {
		t.Errorf("expected external id wf-e2e-1, got %v", approved.Data.ExternalID)
	}

	// second approve conflicts
	rec = ts.do(http.MethodPost, "/v1/events/"+event.ID.String()+"/approve", "{}")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second approve: expected 409, got %d body %s", rec.Code, rec.Body.String())
	}
	var errBody map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if len(errBody) != 1 {
		t.Errorf("error body must have exactly one field, got %v", errBody)
	}
	if _, ok := errBody["error"]; !ok {
		t.Errorf("error body missing error field: %v", errBody)
	}
}

func TestIngestUnknownMeetingReturns404(t *testing.T) {
	ts := newTestStack(t, "")

	chunk := fmt.Sprintf(`{"meeting_id":%q,"text":"hello","timestamp":%q}`,
		uuid.New(), time.Now().Format(time.RFC3339))
	rec := ts.do(http.MethodPost, "/v1/chunks", chunk)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestIngestEmptyTextReturns400(t *testing.T) {
	ts := newTestStack(t, "")

	chunk := fmt.Sprintf(`{"meeting_id":%q,"text":"   ","timestamp":%q}`,
		uuid.New(), time.Now().Format(time.RFC3339))
	rec := ts.do(http.MethodPost, "/v1/chunks", chunk)
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusNotFound {
		t.Fatalf("expected 4xx, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRejectNonPendingReturnsConflict(t *testing.T) {
	ts := newTestStack(t, "")

	event := entities.NewAutomationEvent(uuid.New(), entities.IntentCreateTicket, "file a ticket", nil, 0.8)
	event.Status = entities.AutomationStatusCompleted
	ts.events.m[event.ID] = event

	rec := ts.do(http.MethodPost, "/v1/events/"+event.ID.String()+"/reject", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestErrorBodyNeverLeaksInternals(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	rec := httptest.NewRecorder()
	c.Reset(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	raw := fmt.Errorf("pq: could not open /var/lib/postgresql/data/base: permission denied")
	if err := HandleError(zap.NewNop(), c, raw); err != nil {
		t.Fatalf("HandleError: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 {
		t.Errorf("error body must have exactly one field, got %v", body)
	}
	msg, _ := body["error"].(string)
	if msg == "" {
		t.Error("error message must not be empty")
	}
	if strings.Contains(msg, "/var/lib") || strings.Contains(msg, "postgresql") {
		t.Errorf("error message leaks internals: %q", msg)
	}
}
