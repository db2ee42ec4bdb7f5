// Package entity implements the AI task entity: the unit the host framework
// dispatches generate-data and generate-image tasks to. Each entity wraps one
// configured Azure endpoint with at most one chat model and one image model,
// and exposes a capability feature set derived from that configuration.
package entity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loryanstrant/azure-ai-tasks/attachment"
	"github.com/loryanstrant/azure-ai-tasks/conversation"
	"github.com/loryanstrant/azure-ai-tasks/core/azure"
	"github.com/loryanstrant/azure-ai-tasks/core/task"
	"github.com/loryanstrant/azure-ai-tasks/observability"
)

// Entity event types.
const (
	EventTaskStart    observability.EventType = "entity.task.start"
	EventTaskComplete observability.EventType = "entity.task.complete"
	EventTaskFailed   observability.EventType = "entity.task.failed"
)

// Entity executes AI tasks against one Azure OpenAI configuration. Safe for
// concurrent use: each task reads the same configuration snapshot and
// mutates no shared state.
type Entity struct {
	name       string
	uniqueID   string
	chatModel  string
	imageModel string
	features   Feature

	client   *azure.Client
	resolver *attachment.Resolver
	observer observability.Observer
}

// Option configures an Entity after construction.
type Option func(*Entity)

// WithClient overrides the config-created Azure client.
func WithClient(c *azure.Client) Option {
	return func(e *Entity) { e.client = c }
}

// WithResolver overrides the default attachment resolver.
func WithResolver(r *attachment.Resolver) Option {
	return func(e *Entity) { e.resolver = r }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(e *Entity) { e.observer = o }
}

// WithUniqueID overrides the derived unique entity ID.
func WithUniqueID(id string) Option {
	return func(e *Entity) { e.uniqueID = id }
}

// New creates an Entity. At least one of chatModel and imageModel must be
// configured; model names are trimmed of surrounding whitespace.
func New(name, endpoint, apiKey, chatModel, imageModel string, opts ...Option) (*Entity, error) {
	chatModel = strings.TrimSpace(chatModel)
	imageModel = strings.TrimSpace(imageModel)
	if chatModel == "" && imageModel == "" {
		return nil, fmt.Errorf("%w for entity %q", azure.ErrNoModelConfigured, name)
	}

	e := &Entity{
		name:       name,
		uniqueID:   "azure_ai_tasks_" + name,
		chatModel:  chatModel,
		imageModel: imageModel,
		features:   featuresFor(chatModel, imageModel),
		observer:   observability.NewSlogObserver(nil),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.client == nil {
		e.client = azure.NewClient(endpoint, apiKey, azure.WithObserver(e.observer))
	}
	if e.resolver == nil {
		e.resolver = attachment.NewResolver(attachment.WithObserver(e.observer))
	}
	return e, nil
}

// Name returns the entity's display name.
func (e *Entity) Name() string { return e.name }

// UniqueID returns the entity's unique identifier.
func (e *Entity) UniqueID() string { return e.uniqueID }

// ChatModel returns the configured chat model, or "".
func (e *Entity) ChatModel() string { return e.chatModel }

// ImageModel returns the configured image model, or "".
func (e *Entity) ImageModel() string { return e.imageModel }

// Features returns the capability set derived from the configured models.
func (e *Entity) Features() Feature { return e.features }

// GenerateData runs a generate-data task: attachments are resolved to base64
// payloads one at a time (unresolvable attachments are dropped), a single
// chat-completions call is issued, and the response is normalized to free
// text or, for structured requests, a decoded JSON value.
func (e *Entity) GenerateData(ctx context.Context, req task.Request, log conversation.Log) (*task.DataResult, error) {
	if !e.features.Has(FeatureGenerateData) {
		return nil, fmt.Errorf("%w: no chat model configured for this entity", azure.ErrNoModelConfigured)
	}
	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" {
		return nil, azure.ErrNoInstructions
	}
	if log == nil {
		log = conversation.NewLog()
	}
	log.AddUserContent(instructions)

	e.emitStart(ctx, task.KindGenerateData, req)

	images := make([]string, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		if encoded, ok := e.resolver.Resolve(ctx, att); ok {
			images = append(images, encoded)
		}
	}

	text, err := e.client.GenerateData(ctx, e.chatModel, instructions, images, req.Structure)
	if err != nil {
		e.emitFailure(ctx, task.KindGenerateData, err)
		return nil, err
	}

	log.AddAssistantContent(e.uniqueID, text)

	result := &task.DataResult{ConversationID: log.ConversationID()}
	if req.Structured() {
		value, err := azure.DecodeStructured(text)
		if err != nil {
			e.emitFailure(ctx, task.KindGenerateData, err)
			return nil, err
		}
		result.Data = value
	} else {
		result.Text = text
	}

	e.emitComplete(ctx, task.KindGenerateData)
	return result, nil
}

// GenerateImage runs a generate-image task. When an attachment resolves and
// the image model family supports edit mode, the call switches to the edits
// endpoint with the attachment as the source image; otherwise the first
// resolvable attachment is ignored by the builder.
func (e *Entity) GenerateImage(ctx context.Context, req task.Request, log conversation.Log) (*task.ImageResult, error) {
	if !e.features.Has(FeatureGenerateImage) {
		return nil, fmt.Errorf("%w: no image model configured for this entity", azure.ErrNoModelConfigured)
	}
	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" {
		return nil, azure.ErrNoInstructions
	}
	if log == nil {
		log = conversation.NewLog()
	}
	log.AddUserContent(instructions)

	e.emitStart(ctx, task.KindGenerateImage, req)

	var source string
	for _, att := range req.Attachments {
		if encoded, ok := e.resolver.Resolve(ctx, att); ok {
			source = encoded
			break
		}
	}

	img, err := e.client.GenerateImage(ctx, e.imageModel, instructions, source)
	if err != nil {
		e.emitFailure(ctx, task.KindGenerateImage, err)
		return nil, err
	}

	log.AddAssistantContent(e.uniqueID, "Generated image: "+img.RevisedPrompt)

	e.emitComplete(ctx, task.KindGenerateImage)
	return &task.ImageResult{
		ConversationID: log.ConversationID(),
		ImageData:      img.Data,
		MimeType:       img.MimeType,
		Width:          img.Width,
		Height:         img.Height,
		Model:          img.Model,
		RevisedPrompt:  img.RevisedPrompt,
	}, nil
}

func (e *Entity) emitStart(ctx context.Context, kind task.Kind, req task.Request) {
	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventTaskStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "entity." + e.name,
		Data: map[string]any{
			"kind":        string(kind),
			"attachments": len(req.Attachments),
			"structured":  req.Structured(),
		},
	})
}

func (e *Entity) emitComplete(ctx context.Context, kind task.Kind) {
	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventTaskComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "entity." + e.name,
		Data:      map[string]any{"kind": string(kind)},
	})
}

func (e *Entity) emitFailure(ctx context.Context, kind task.Kind, err error) {
	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventTaskFailed,
		Level:     observability.LevelError,
		Timestamp: time.Now(),
		Source:    "entity." + e.name,
		Data: map[string]any{
			"kind":  string(kind),
			"error": err.Error(),
		},
	})
}
