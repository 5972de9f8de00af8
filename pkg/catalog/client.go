// Package catalog is the HTTP client for the remote events catalog, the
// service of record for submitted events. All calls are bearer-authenticated
// and any failure surfaces as a single opaque error kind.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/calendario-tech/review-console/internal/models"
)

// Decision is the operator's verdict on a requested event.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDeclined Decision = "declined"
)

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() (string, error)
}

// Error is the one failure kind the client produces. The catalog's error
// bodies are not interpreted and 4xx is not distinguished from 5xx; callers
// treat every catalog failure identically.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog: %s returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("catalog: %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client talks to the catalog API.
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// NewClient creates a catalog client rooted at baseURL. The timeout applies
// per request; zero means the transport default.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		client:  &http.Client{Timeout: timeout},
	}
}

// ListPending fetches all events awaiting review.
func (c *Client) ListPending(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, "list pending", http.MethodGet, "/events/submit/review/", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListApproved fetches all publicly approved events.
func (c *Client) ListApproved(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, "list approved", http.MethodGet, "/events/", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SetStatus records an approve/decline decision for a submitted event.
func (c *Client) SetStatus(ctx context.Context, eventID int, decision Decision) error {
	body := map[string]Decision{"action": decision}
	path := fmt.Sprintf("/events/submit/%d", eventID)
	return c.do(ctx, "set status", http.MethodPost, path, body, nil)
}

// UpdateFields applies a partial field patch to an event.
func (c *Client) UpdateFields(ctx context.Context, eventID int, fields map[string]interface{}) error {
	path := fmt.Sprintf("/events/%d", eventID)
	return c.do(ctx, "update fields", http.MethodPut, path, fields, nil)
}

// DeleteEvent removes an event permanently.
func (c *Client) DeleteEvent(ctx context.Context, eventID int) error {
	path := fmt.Sprintf("/events/%d", eventID)
	return c.do(ctx, "delete event", http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return &Error{Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Op: op, Err: err}
		}
	}
	return nil
}
