package azure

import "github.com/loryanstrant/azure-ai-tasks/observability"

// Client event types emitted around remote calls.
const (
	EventRequest          observability.EventType = "azure.request"
	EventResponse         observability.EventType = "azure.response"
	EventModelSubstituted observability.EventType = "azure.model.substituted"
	EventImageDownload    observability.EventType = "azure.image.download"
	EventError            observability.EventType = "azure.error"
)
