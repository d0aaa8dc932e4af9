// Package e2e drives black-box scenarios against a running server. Start the
// service (in-memory stores are fine) and point E2E_BASE_URL at it.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TestContext carries shared state between steps: the HTTP client, the last
// response, and tokens captured along the way.
type TestContext struct {
	BaseURL string
	client  *http.Client

	lastStatus int
	lastBody   map[string]interface{}

	accessToken string
	adminToken  string
	userID      string
	shiftID     string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state. Tokens survive within a scenario only.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.accessToken = ""
	tc.adminToken = ""
	tc.userID = ""
	tc.shiftID = ""
}

// POST sends a JSON body, attaching the access token when one is held.
func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body)
}

// GET sends a request with optional extra headers.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	tc.authorize(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.send(req)
}

// DELETE sends a bodyless delete.
func (tc *TestContext) DELETE(path string) error {
	req, err := http.NewRequest(http.MethodDelete, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	tc.authorize(req)
	return tc.send(req)
}

func (tc *TestContext) do(method, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	tc.authorize(req)
	return tc.send(req)
}

func (tc *TestContext) authorize(req *http.Request) {
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
}

func (tc *TestContext) send(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		var parsed map[string]interface{}
		if err := json.Unmarshal(raw, &parsed); err == nil {
			tc.lastBody = parsed
		}
	}
	return nil
}

// LastStatus returns the status code of the most recent response.
func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

// GetResponseField reads a top-level field from the last JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	if tc.lastBody == nil {
		return nil, fmt.Errorf("no JSON response captured")
	}
	value, ok := tc.lastBody[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response", field)
	}
	return value, nil
}

// ResponseContains reports whether the last response has a top-level field.
func (tc *TestContext) ResponseContains(field string) bool {
	_, ok := tc.lastBody[field]
	return ok
}

// SetAccessToken stores the token used by subsequent requests.
func (tc *TestContext) SetAccessToken(token string) { tc.accessToken = token }

// GetAccessToken returns the currently held token.
func (tc *TestContext) GetAccessToken() string { return tc.accessToken }

// SetAdminToken stashes an admin token so a scenario can switch roles.
func (tc *TestContext) SetAdminToken(token string) { tc.adminToken = token }

// UseAdminToken switches subsequent requests to the admin token.
func (tc *TestContext) UseAdminToken() { tc.accessToken = tc.adminToken }

// SetUserID remembers the logged-in user's id for roster steps.
func (tc *TestContext) SetUserID(userID string) { tc.userID = userID }

// GetUserID returns the remembered user id.
func (tc *TestContext) GetUserID() string { return tc.userID }

// SetShiftID remembers the id of the shift created by an admin step.
func (tc *TestContext) SetShiftID(shiftID string) { tc.shiftID = shiftID }

// GetShiftID returns the remembered shift id.
func (tc *TestContext) GetShiftID() string { return tc.shiftID }
