// Package task defines the canonical task types exchanged between the host
// framework and the Azure AI entity: requests, attachment references, and
// normalized results. All values are request-scoped; nothing here persists.
package task

import "encoding/json"

// Kind identifies the operation a task requests.
type Kind string

const (
	KindGenerateData  Kind = "generate-data"
	KindGenerateImage Kind = "generate-image"
)

// Request is a single task submitted to an entity. Instructions carry the
// user-authored prompt; Attachments reference media to resolve before the
// call. A non-nil Structure means the caller requires the response to decode
// as JSON (optionally conforming to the given schema).
type Request struct {
	Name         string          `json:"name,omitempty"`
	Instructions string          `json:"instructions"`
	Attachments  []Attachment    `json:"attachments,omitempty"`
	Structure    json.RawMessage `json:"structure,omitempty"`
}

// Structured reports whether the request demands a JSON-decodable response.
func (r *Request) Structured() bool {
	return len(r.Structure) > 0
}
