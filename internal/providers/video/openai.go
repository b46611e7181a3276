// Package video is a client for the OpenAI-compatible /videos API: job submission, status
// retrieval, asset download and deletion.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"videostudio/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second
	// Asset downloads can be large; the error body read is capped.
	maxErrorBody = 64 << 10
)

// Options configures an OpenAIClient.
type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
}

// Job is the remote representation of a video generation job.
type Job struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	CreatedAt int64     `json:"created_at"`
	Status    string    `json:"status"`
	Model     string    `json:"model"`
	Progress  *float64  `json:"progress"`
	Seconds   FlexValue `json:"seconds"`
	Size      string    `json:"size"`
	Prompt    string    `json:"prompt,omitempty"`
	Error     *JobError `json:"error"`
	RemixOf   *string   `json:"remix_of,omitempty"`
}

// JobError is the failure detail attached to a failed job.
type JobError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DeleteResult is the acknowledgment returned by the remote delete call.
type DeleteResult struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// CreateRequest submits a new generation job.
type CreateRequest struct {
	Model   string
	Prompt  string
	Size    string
	Seconds string
}

// FlexValue accepts a JSON string or number and keeps its textual form.
// The API reports seconds as a string ("8") while older deployments send a number.
type FlexValue string

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*v = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = FlexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("seconds: %w", err)
	}
	*v = FlexValue(n.String())
	return nil
}

// Int returns the numeric value, or 0 when it is not an integer.
func (v FlexValue) Int() int {
	n, err := strconv.Atoi(string(v))
	if err != nil {
		return 0
	}
	return n
}

// OpenAIClient talks to the remote video API.
type OpenAIClient struct {
	apiKey       string
	baseURL      string
	organization string
	client       *http.Client
}

func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key", domain.ErrMissingConfig)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &OpenAIClient{
		apiKey:       apiKey,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
	}, nil
}

// Retrieve fetches the current state of a job.
func (c *OpenAIClient) Retrieve(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := c.doJSON(ctx, http.MethodGet, "/videos/"+url.PathEscape(id), nil, "", &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DownloadContent returns the binary content of one asset variant.
func (c *OpenAIClient) DownloadContent(ctx context.Context, id string, variant domain.Variant) ([]byte, error) {
	path := "/videos/" + url.PathEscape(id) + "/content?variant=" + url.QueryEscape(string(variant))
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s content: %w", variant, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s content is empty", variant)
	}
	return data, nil
}

// Delete removes the job on the remote side.
func (c *OpenAIClient) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	var out DeleteResult
	if err := c.doJSON(ctx, http.MethodDelete, "/videos/"+url.PathEscape(id), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits a new job as multipart form data.
func (c *OpenAIClient) Create(ctx context.Context, req CreateRequest) (*Job, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"model", req.Model},
		{"prompt", req.Prompt},
		{"size", req.Size},
		{"seconds", req.Seconds},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if err := form.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.name, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}
	var job Job
	if err := c.doJSON(ctx, http.MethodPost, "/videos", &buf, form.FormDataContentType(), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Remix submits a new job derived from a completed one.
func (c *OpenAIClient) Remix(ctx context.Context, id, prompt string) (*Job, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}
	var job Job
	if err := c.doJSON(ctx, http.MethodPost, "/videos/"+url.PathEscape(id)+"/remix", bytes.NewReader(body), "application/json", &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *OpenAIClient) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// do sends the request and converts non-2xx replies into *domain.ProviderError.
func (c *OpenAIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return nil, decodeProviderError(resp)
}

type apiErrorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func decodeProviderError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	perr := &domain.ProviderError{StatusCode: resp.StatusCode}
	var env apiErrorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		perr.Message = env.Error.Message
		if code, ok := env.Error.Code.(string); ok {
			perr.Code = code
		}
		return perr
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	perr.Message = msg
	return perr
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var perr *domain.ProviderError
	return errors.As(err, &perr) && perr.StatusCode == http.StatusNotFound
}
