// Package client talks to a running remylog server. *Client satisfies
// storage.Store so the CLI can work against a remote log.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/server"
	"github.com/Tiliavir/remylog/internal/storage"
)

var _ storage.Store = (*Client)(nil)

const logsPath = "/api/logs"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Client is an HTTP client for the remylog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL, e.g. "http://192.168.1.171:3001".
// A non-empty token is sent as a bearer token on every request.
func New(ctx context.Context, baseURL, token string) *Client {
	hc := &http.Client{Timeout: 10 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		hc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hc), ts)
		hc.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// List fetches all events.
func (c *Client) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := c.do(ctx, http.MethodGet, logsPath, nil, &events); err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Time = events[i].Time.UTC()
	}
	return events, nil
}

// Append logs ev and returns the stored event.
func (c *Client) Append(ctx context.Context, ev model.NewEvent) (model.Event, error) {
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}
	req := server.CreateLogRequest{
		Type:  string(ev.Type),
		Time:  ev.Time.UTC().Format(time.RFC3339Nano),
		Notes: ev.Notes,
	}
	var resp server.Response
	if err := c.do(ctx, http.MethodPost, logsPath, req, &resp); err != nil {
		return model.Event{}, err
	}
	if resp.Event == nil {
		return model.Event{}, errors.New("server did not return the stored event")
	}
	return *resp.Event, nil
}

// Remove deletes the event with id. Unknown ids are not an error.
func (c *Client) Remove(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, logsPath+"/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
