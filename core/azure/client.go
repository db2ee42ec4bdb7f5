// Package azure implements the wire contract with the Azure OpenAI service:
// per-family endpoint selection, request construction, the single HTTP call
// each task is allowed, and normalization of chat-style and image-style
// responses. No retries, no token refresh, no caching.
package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/loryanstrant/azure-ai-tasks/observability"
)

// Image is a normalized image-generation outcome.
type Image struct {
	Data          []byte
	MimeType      string
	Width         int
	Height        int
	Model         string
	RevisedPrompt string
}

// Client issues requests against one Azure OpenAI resource endpoint.
// Safe for concurrent use; each call is a single linear attempt.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	observer observability.Observer
}

// Option configures a Client after construction.
type Option func(*Client)

// WithHTTPClient overrides the default shared HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a Client for the given resource endpoint and API key.
// A trailing slash on the endpoint is tolerated.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     http.DefaultClient,
		observer: observability.NewSlogObserver(slog.Default()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured resource endpoint without trailing slash.
func (c *Client) Endpoint() string { return c.endpoint }

// GenerateData sends a chat-completions request and returns the trimmed
// response text. Model substitution for vision requests is surfaced as a
// warning event before the call goes out.
func (c *Client) GenerateData(ctx context.Context, model, instructions string, images []string, structure []byte) (string, error) {
	call, err := BuildChat(c.endpoint, model, instructions, images, structure)
	if err != nil {
		return "", err
	}

	if call.Substituted {
		c.observer.OnEvent(ctx, observability.Event{
			Type:      EventModelSubstituted,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "azure.Client",
			Data: map[string]any{
				"configured_model": model,
				"model":            call.Model,
				"reason":           "configured model is not vision-capable",
			},
		})
	}

	body, err := c.post(ctx, call.Call)
	if err != nil {
		return "", err
	}
	return parseChat(body)
}

// GenerateImage sends an image-generation (or edit, when the family supports
// it and a source image is present) request and returns the normalized image.
// Inline base64 data is preferred; a URL-only response triggers one extra GET
// to download the bytes.
func (c *Client) GenerateImage(ctx context.Context, model, prompt, sourceImage string) (*Image, error) {
	call, err := BuildImage(c.endpoint, model, prompt, sourceImage)
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, call.Call)
	if err != nil {
		return nil, err
	}

	var resp imageResponse
	if err := unmarshalResponse(body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no image data in response", ErrResponseShape)
	}

	item := resp.Data[0]
	var data []byte
	switch {
	case item.B64JSON != "":
		data, err = base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 image data: %v", ErrResponseShape, err)
		}
	case item.URL != "":
		data, err = c.download(ctx, item.URL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: no image payload in response item", ErrResponseShape)
	}

	revised := item.RevisedPrompt
	if revised == "" {
		revised = call.Prompt
	}

	width, height := call.Profile.Dimensions()
	return &Image{
		Data:          data,
		MimeType:      call.Profile.MimeType(),
		Width:         width,
		Height:        height,
		Model:         model,
		RevisedPrompt: revised,
	}, nil
}

// Validate pings the endpoint to verify connectivity and the API key.
// Used by the configuration flow before an entry is created.
func (c *Client) Validate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error communicating with Azure AI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthentication
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("cannot connect to Azure AI endpoint: status %d", resp.StatusCode)
	}
	return nil
}

// post issues the single outbound call for a task and maps non-success
// statuses to the error taxonomy.
func (c *Client) post(ctx context.Context, call Call) ([]byte, error) {
	u := call.URL + "?" + url.Values{"api-version": {call.APIVersion}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(call.Body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventRequest,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "azure.Client",
		Data: map[string]any{
			"url":         call.URL,
			"api_version": call.APIVersion,
			"body_bytes":  len(call.Body),
		},
	})

	resp, err := c.http.Do(req)
	if err != nil {
		c.emitError(ctx, err)
		return nil, fmt.Errorf("error communicating with Azure AI: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.emitError(ctx, err)
		return nil, fmt.Errorf("error reading Azure AI response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp.StatusCode, body)
		c.emitError(ctx, err)
		return nil, err
	}

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventResponse,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "azure.Client",
		Data:      map[string]any{"body_bytes": len(body)},
	})

	return body, nil
}

// download fetches generated image bytes from a response URL.
func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventImageDownload,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "azure.Client",
		Data:      map[string]any{"url": imageURL},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
}

func (c *Client) emitError(ctx context.Context, err error) {
	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventError,
		Level:     observability.LevelError,
		Timestamp: time.Now(),
		Source:    "azure.Client",
		Data:      map[string]any{"error": err.Error()},
	})
}

// statusError maps a non-200 response to the error taxonomy.
func statusError(status int, body []byte) error {
	if bytes.Contains(body, []byte("contentFilter")) {
		return fmt.Errorf("%w: %s", ErrContentFilter, strings.TrimSpace(string(body)))
	}
	switch status {
	case http.StatusUnauthorized:
		return ErrAuthentication
	case http.StatusNotFound:
		return ErrDeploymentNotFound
	default:
		return fmt.Errorf("Azure AI API error: status %d: %s", status, strings.TrimSpace(string(body)))
	}
}
