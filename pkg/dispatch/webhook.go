package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/pkg/webhook"
)

// Dispatcher executes an approved automation against an external system and
// returns the external reference id on success.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *entities.AutomationEvent, params map[string]interface{}) (string, error)
}

// WebhookDispatcher posts approved automations to a workflow webhook as
// signed JSON. The receiver acknowledges with an execution id.
type WebhookDispatcher struct {
	url    string
	secret string
	client *http.Client
}

func NewWebhookDispatcher(url, secret string, timeout time.Duration) *WebhookDispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookDispatcher{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: timeout},
	}
}

type dispatchRequest struct {
	EventID    uuid.UUID              `json:"event_id"`
	MeetingID  uuid.UUID              `json:"meeting_id"`
	Intent     string                 `json:"intent"`
	Parameters map[string]interface{} `json:"parameters"`
}

type dispatchResponse struct {
	ExternalID string `json:"external_id"`
}

// Dispatch sends the event's effective parameters to the webhook. Transport
// and 5xx failures come back as plain errors so the retry layer can classify
// them; 4xx responses are final.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *entities.AutomationEvent, params map[string]interface{}) (string, error) {
	if d.url == "" {
		return "", fmt.Errorf("dispatch webhook url not configured")
	}

	body, err := json.Marshal(dispatchRequest{
		EventID:    event.ID,
		MeetingID:  event.MeetingID,
		Intent:     string(event.Intent),
		Parameters: params,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", webhook.SignHMAC(d.secret, body))

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("dispatch webhook unavailable: status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("dispatch webhook rejected request: status %d", resp.StatusCode)
	}

	var dr dispatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return "", err
	}
	if dr.ExternalID == "" {
		return "", fmt.Errorf("dispatch webhook returned no external id")
	}
	return dr.ExternalID, nil
}
