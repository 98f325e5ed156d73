package activeworkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/workout"
)

// API is the server surface the coordinator drives. Satisfied by
// *workout.Service in-process and by *Client over HTTP.
type API interface {
	ActiveSession(ctx context.Context, userID string) (*workout.Session, error)
	StartSession(ctx context.Context, userID string, note *string) (workout.Session, error)
	EndSession(ctx context.Context, userID, id string) (workout.Session, error)
	AddSet(ctx context.Context, userID, sessionID string, input workout.Set) (workout.Set, error)
	UpdateSet(ctx context.Context, userID, id string, p workout.SetPatch) (workout.Set, error)
	DeleteSet(ctx context.Context, userID, id string) error
}

// Client talks to the workout routes of a running server. Token is the
// bearer access token; the mutating routes reject requests without one.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: http.DefaultClient}
}

func (c *Client) ActiveSession(ctx context.Context, userID string) (*workout.Session, error) {
	var session *workout.Session
	err := c.do(ctx, http.MethodGet, "/workouts/active-session?userId="+url.QueryEscape(userID), nil, &session)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (c *Client) StartSession(ctx context.Context, userID string, note *string) (workout.Session, error) {
	var session workout.Session
	body := map[string]any{"userId": userID, "note": note}
	err := c.do(ctx, http.MethodPost, "/workouts/sessions", body, &session)
	return session, err
}

func (c *Client) EndSession(ctx context.Context, userID, id string) (workout.Session, error) {
	var session workout.Session
	path := fmt.Sprintf("/workouts/sessions/%s?userId=%s", id, url.QueryEscape(userID))
	err := c.do(ctx, http.MethodPatch, path, map[string]any{"action": "end"}, &session)
	return session, err
}

func (c *Client) AddSet(ctx context.Context, userID, sessionID string, input workout.Set) (workout.Set, error) {
	var set workout.Set
	path := fmt.Sprintf("/workouts/sessions/%s/sets?userId=%s", sessionID, url.QueryEscape(userID))
	err := c.do(ctx, http.MethodPost, path, input, &set)
	return set, err
}

func (c *Client) UpdateSet(ctx context.Context, userID, id string, p workout.SetPatch) (workout.Set, error) {
	var set workout.Set
	path := fmt.Sprintf("/workouts/sets/%s?userId=%s", id, url.QueryEscape(userID))
	err := c.do(ctx, http.MethodPatch, path, p, &set)
	return set, err
}

func (c *Client) DeleteSet(ctx context.Context, userID, id string) error {
	path := fmt.Sprintf("/workouts/sets/%s?userId=%s", id, url.QueryEscape(userID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, string(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
