package task

// DataResult is the normalized outcome of a generate-data task. Exactly one
// of Text or Data is populated: Text for free-form responses, Data for
// structured requests whose response decoded as JSON.
type DataResult struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text,omitempty"`
	Data           any    `json:"data,omitempty"`
}

// ImageResult is the normalized outcome of a generate-image task.
type ImageResult struct {
	ConversationID string `json:"conversation_id"`
	ImageData      []byte `json:"image_data"`
	MimeType       string `json:"mime_type"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Model          string `json:"model"`
	RevisedPrompt  string `json:"revised_prompt"`
}
