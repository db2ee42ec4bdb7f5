// Package attachment resolves task attachment references to base64-encoded
// image payloads. Resolution never fails the owning task: every error path
// emits a warning event and reports the attachment as unresolved, and the
// caller continues without it.
package attachment

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/loryanstrant/azure-ai-tasks/core/task"
	"github.com/loryanstrant/azure-ai-tasks/observability"
)

// Resolver event types.
const (
	EventResolved   observability.EventType = "attachment.resolved"
	EventUnresolved observability.EventType = "attachment.unresolved"
)

// Camera fetches a live still image from a camera entity.
type Camera interface {
	Snapshot(ctx context.Context, entityID string) ([]byte, error)
}

// MediaSource resolves a media-library content ID to a fetchable URL.
type MediaSource interface {
	ResolveURL(ctx context.Context, mediaContentID string) (string, error)
}

// DefaultMediaDirs returns the ordered candidate directories scanned for
// local media files when media-source resolution fails. root is the host's
// configuration directory.
func DefaultMediaDirs(root string) []string {
	return []string{
		filepath.Join(root, "www", "media"),
		"/media",
		filepath.Join(root, "www"),
	}
}

// Resolver turns attachment references into base64 image payloads using the
// first matching retrieval strategy: camera snapshot, media-source URL,
// local file scan, explicit path, or direct HTTP GET. Stateless and safe for
// concurrent use.
type Resolver struct {
	camera   Camera
	media    MediaSource
	dirs     []string
	http     *http.Client
	observer observability.Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCamera sets the camera-snapshot collaborator.
func WithCamera(c Camera) Option {
	return func(r *Resolver) { r.camera = c }
}

// WithMediaSource sets the media-library resolution collaborator.
func WithMediaSource(m MediaSource) Option {
	return func(r *Resolver) { r.media = m }
}

// WithMediaDirs overrides the candidate local media directories.
func WithMediaDirs(dirs []string) Option {
	return func(r *Resolver) { r.dirs = dirs }
}

// WithHTTPClient overrides the default shared HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Resolver) { r.http = hc }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// NewResolver creates a Resolver. Without options it can still resolve
// explicit paths, direct URLs, and inline data.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		http:     http.DefaultClient,
		observer: observability.NewSlogObserver(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps an attachment reference to a base64 image payload. The second
// return value is false when the reference could not be resolved; no error
// is ever returned outward. Resolving the same reference twice yields the
// same bytes unless the underlying source changed.
func (r *Resolver) Resolve(ctx context.Context, att task.Attachment) (string, bool) {
	if len(att.Data) > 0 {
		return base64.StdEncoding.EncodeToString(att.Data), true
	}

	switch {
	case att.CameraEntityID() != "":
		return r.resolveCamera(ctx, att)
	case att.IsMediaSource():
		return r.resolveMediaSource(ctx, att)
	case att.Path != "":
		return r.resolveLocalFile(ctx, att, att.Path)
	case att.IsImageURL():
		return r.resolveURL(ctx, att, att.MediaContentID)
	default:
		r.unresolved(ctx, att, "unsupported media type", nil)
		return "", false
	}
}

func (r *Resolver) resolveCamera(ctx context.Context, att task.Attachment) (string, bool) {
	if r.camera == nil {
		r.unresolved(ctx, att, "no camera collaborator configured", nil)
		return "", false
	}

	entityID := att.CameraEntityID()
	snapshot, err := r.camera.Snapshot(ctx, entityID)
	if err != nil {
		r.unresolved(ctx, att, "failed to get camera image", err)
		return "", false
	}
	return r.resolved(ctx, att, snapshot)
}

func (r *Resolver) resolveMediaSource(ctx context.Context, att task.Attachment) (string, bool) {
	if r.media != nil {
		resolvedURL, err := r.media.ResolveURL(ctx, att.MediaContentID)
		if err == nil && resolvedURL != "" {
			if data, ok := r.fetch(ctx, resolvedURL); ok {
				return r.resolved(ctx, att, data)
			}
		}
	}

	// Media-source resolution failed; local filenames fall back to a scan
	// of the candidate media directories.
	filename := att.LocalFilename()
	if filename == "" {
		r.unresolved(ctx, att, "failed to resolve media source", nil)
		return "", false
	}

	for _, dir := range r.dirs {
		path := filepath.Join(dir, filepath.FromSlash(filename))
		if data, ok := r.readFile(path); ok {
			return r.resolved(ctx, att, data)
		}
	}

	r.unresolved(ctx, att, "local media file not found", nil)
	return "", false
}

func (r *Resolver) resolveLocalFile(ctx context.Context, att task.Attachment, path string) (string, bool) {
	data, ok := r.readFile(path)
	if !ok {
		r.unresolved(ctx, att, "local file not readable", nil)
		return "", false
	}
	return r.resolved(ctx, att, data)
}

func (r *Resolver) resolveURL(ctx context.Context, att task.Attachment, rawURL string) (string, bool) {
	data, ok := r.fetch(ctx, rawURL)
	if !ok {
		r.unresolved(ctx, att, "failed to fetch image URL", nil)
		return "", false
	}
	return r.resolved(ctx, att, data)
}

// readFile reads a regular file, reporting false on any stat or read failure.
func (r *Resolver) readFile(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *Resolver) resolved(ctx context.Context, att task.Attachment, data []byte) (string, bool) {
	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventResolved,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "attachment.Resolver",
		Data: map[string]any{
			"media_content_id": att.MediaContentID,
			"bytes":            len(data),
		},
	})
	return base64.StdEncoding.EncodeToString(data), true
}

func (r *Resolver) unresolved(ctx context.Context, att task.Attachment, reason string, err error) {
	data := map[string]any{
		"media_content_id":   att.MediaContentID,
		"media_content_type": att.MediaContentType,
		"reason":             reason,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	r.observer.OnEvent(ctx, observability.Event{
		Type:      EventUnresolved,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "attachment.Resolver",
		Data:      data,
	})
}
