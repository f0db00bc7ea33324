package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/pkg/webhook"
)

func testEvent() *entities.AutomationEvent {
	return &entities.AutomationEvent{
		ID:        uuid.New(),
		MeetingID: uuid.New(),
		Intent:    entities.IntentScheduleMeeting,
	}
}

func TestDispatchSuccess(t *testing.T) {
	var gotBody []byte
	var gotSignature string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get("X-Signature")
		json.NewEncoder(w).Encode(map[string]string{"external_id": "wf-1234"})
	}))
	defer srv.Close()

	d := NewWebhookDispatcher(srv.URL, "test-secret", 5*time.Second)
	externalID, err := d.Dispatch(context.Background(), testEvent(), map[string]interface{}{"date": "friday"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if externalID != "wf-1234" {
		t.Errorf("expected external id wf-1234, got %q", externalID)
	}

	if !webhook.VerifyHMAC("test-secret", gotBody, gotSignature) {
		t.Error("request signature did not verify against the sent body")
	}

	var req dispatchRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	if req.Intent != string(entities.IntentScheduleMeeting) {
		t.Errorf("expected intent schedule_meeting, got %q", req.Intent)
	}
	if req.Parameters["date"] != "friday" {
		t.Errorf("expected date parameter to be forwarded, got %v", req.Parameters)
	}
}

func TestDispatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewWebhookDispatcher(srv.URL, "test-secret", 5*time.Second)
	if _, err := d.Dispatch(context.Background(), testEvent(), nil); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestDispatchClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := NewWebhookDispatcher(srv.URL, "test-secret", 5*time.Second)
	if _, err := d.Dispatch(context.Background(), testEvent(), nil); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestDispatchMissingExternalID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	d := NewWebhookDispatcher(srv.URL, "test-secret", 5*time.Second)
	if _, err := d.Dispatch(context.Background(), testEvent(), nil); err == nil {
		t.Fatal("expected error when response carries no external id")
	}
}

func TestDispatchUnconfigured(t *testing.T) {
	d := NewWebhookDispatcher("", "secret", time.Second)
	if _, err := d.Dispatch(context.Background(), testEvent(), nil); err == nil {
		t.Fatal("expected error when webhook url is not configured")
	}
}
