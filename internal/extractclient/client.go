// Package extractclient implements the Extraction Client half of
// component I: posting raw content to a remote extraction endpoint and
// feeding the typed response back through the store and embedding
// service with the same invariants as direct tag extraction.
package extractclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"todozi/internal/todozierr"
)

// Endpoint selects which remote extraction mode to call.
type Endpoint string

const (
	EndpointPlan      Endpoint = "plan"
	EndpointStrategic Endpoint = "strategic"
)

// Request is the payload posted to the remote extraction API.
type Request struct {
	Content     string `json:"content"`
	ExtractAll  bool   `json:"extract_all"`
	Model       string `json:"model"`
	Language    string `json:"language"`
	UserID      string `json:"user_id"`
	Fingerprint string `json:"fingerprint"`
}

// ExtractedTask mirrors one task in the remote response envelope.
type ExtractedTask struct {
	Action   string   `json:"action"`
	Time     string   `json:"time"`
	Priority string   `json:"priority"`
	Project  string   `json:"project"`
	Status   string   `json:"status"`
	Assignee string   `json:"assignee"`
	Tags     []string `json:"tags"`
}

type ExtractedMemory struct {
	Moment     string `json:"moment"`
	Meaning    string `json:"meaning"`
	Reason     string `json:"reason"`
	Importance string `json:"importance"`
	Term       string `json:"term"`
}

type ExtractedIdea struct {
	Idea       string `json:"idea"`
	Share      string `json:"share"`
	Importance string `json:"importance"`
}

type ExtractedError struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
}

type ExtractedTrainingData struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
	DataType   string `json:"data_type"`
}

// Response is the typed envelope the remote endpoint returns.
type Response struct {
	Tasks        []ExtractedTask         `json:"tasks"`
	Memories     []ExtractedMemory       `json:"memories"`
	Ideas        []ExtractedIdea         `json:"ideas"`
	Errors       []ExtractedError        `json:"errors"`
	TrainingData []ExtractedTrainingData `json:"training_data"`
	RawTags      []string                `json:"raw_tags"`
}

// Client posts content to the remote extraction API and decodes its
// response.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{BaseURL: baseURL, APIKey: apiKey, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Extract calls the remote endpoint (plan or strategic) with the given
// content and decodes the typed response envelope. A non-2xx response is
// an error that surfaces the raw body for debugging.
func (c *Client) Extract(ctx context.Context, endpoint Endpoint, req Request) (*Response, error) {
	req.ExtractAll = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, todozierr.API(err, "encode extraction request")
	}

	url := fmt.Sprintf("%s/api/tdz/%s", trimTrailingSlash(c.BaseURL), endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, todozierr.API(err, "build extraction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, todozierr.API(err, "extraction request to %s", url)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, todozierr.API(nil, "extraction request failed (status %d): %s", resp.StatusCode, string(raw))
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, todozierr.API(err, "decode extraction response: %s", string(raw))
	}
	return &out, nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
