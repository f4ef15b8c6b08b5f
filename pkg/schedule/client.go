package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ClientImpl is the HTTP implementation of Client.
type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *ClientImpl {
	return &ClientImpl{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ClientImpl) ListOccurrences(ctx context.Context, start time.Time, end time.Time) ([]Occurrence, error) {
	query := url.Values{}
	query.Set("start", start.Format(time.RFC3339))
	query.Set("end", end.Format(time.RFC3339))

	var occurrences []Occurrence
	if err := c.do(ctx, http.MethodGet, "/schedule/?"+query.Encode(), nil, &occurrences); err != nil {
		return nil, fmt.Errorf("unable to list occurrences: %w", err)
	}
	return occurrences, nil
}

func (c *ClientImpl) CreateEvent(ctx context.Context, payload EventPayload) (*Occurrence, error) {
	var created Occurrence
	if err := c.do(ctx, http.MethodPost, "/schedule/", payload, &created); err != nil {
		return nil, fmt.Errorf("unable to create event: %w", err)
	}
	return &created, nil
}

func (c *ClientImpl) UpdateEvent(ctx context.Context, eventID string, payload EventPayload) (*Occurrence, error) {
	var updated Occurrence
	if err := c.do(ctx, http.MethodPut, "/schedule/"+url.PathEscape(eventID)+"/", payload, &updated); err != nil {
		return nil, fmt.Errorf("unable to update event %s: %w", eventID, err)
	}
	return &updated, nil
}

func (c *ClientImpl) DeleteOccurrence(ctx context.Context, occurrenceID string, deleteAll bool) error {
	body := struct {
		OccurrenceID string `json:"occurrence_id"`
		DeleteAll    bool   `json:"delete_all"`
	}{occurrenceID, deleteAll}

	if err := c.do(ctx, http.MethodDelete, "/schedule/", body, nil); err != nil {
		return fmt.Errorf("unable to delete occurrence %s: %w", occurrenceID, err)
	}
	return nil
}

func (c *ClientImpl) DueReminders(ctx context.Context) ([]DueReminder, error) {
	var reminders []DueReminder
	if err := c.do(ctx, http.MethodGet, "/reminders/due/", nil, &reminders); err != nil {
		return nil, fmt.Errorf("unable to list due reminders: %w", err)
	}
	return reminders, nil
}

func (c *ClientImpl) DismissReminder(ctx context.Context, reminderID string) error {
	if err := c.do(ctx, http.MethodPost, "/reminders/"+url.PathEscape(reminderID)+"/dismiss/", nil, nil); err != nil {
		return fmt.Errorf("unable to dismiss reminder %s: %w", reminderID, err)
	}
	return nil
}

// do executes one request against the schedule API, encoding body (if any)
// as JSON and decoding a 2xx response into out (if non-nil).
func (c *ClientImpl) do(ctx context.Context, method string, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("schedule API request failed: %s %s: %v", method, path, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Errorf("schedule API returned %d for %s %s: %s", resp.StatusCode, method, path, string(responseBody))
		return fmt.Errorf("schedule API returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
