package azure

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	chatMaxTokens   = 1000
	chatTemperature = 0.7
)

// structuredInstruction is appended to the prompt when the task demands a
// JSON-decodable response.
const structuredInstruction = "Respond only with valid JSON. Do not include any explanatory text or markdown code fences."

// Call is an outbound request ready for dispatch: the deployment URL, the
// api-version query value pinned for the model family, and the JSON body.
type Call struct {
	URL        string
	APIVersion string
	Body       []byte
}

// ChatCall is a built chat-completions request. Model is the deployment
// actually addressed, which differs from the configured model when the
// vision fallback substituted it.
type ChatCall struct {
	Call
	Model       string
	Substituted bool
}

// ImageCall is a built image-generation request. EditMode marks a request
// routed to the /images/edits endpoint with a base64 source image.
type ImageCall struct {
	Call
	Profile  ImageProfile
	Prompt   string
	EditMode bool
}

// ContentPart is one element of a multimodal chat message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference, here always a base64 data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// BuildChat constructs the chat-completions request for a generate-data
// task. Each element of images is a base64-encoded resolved attachment,
// embedded as a data-URI image_url part after the text part. When images are
// present and the configured model is not vision-capable, a known
// vision-capable deployment is substituted and the call is flagged.
func BuildChat(endpoint, model, instructions string, images []string, structure json.RawMessage) (*ChatCall, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, ErrNoInstructions
	}

	prompt := instructions
	if len(structure) > 0 {
		prompt += "\n\n" + structuredInstruction
		if schema := strings.TrimSpace(string(structure)); schema != "" {
			prompt += "\nThe JSON must conform to this schema:\n" + schema
		}
	}

	var content any = prompt
	if len(images) > 0 {
		parts := make([]ContentPart, 0, len(images)+1)
		parts = append(parts, ContentPart{Type: "text", Text: prompt})
		for _, img := range images {
			parts = append(parts, ContentPart{
				Type:     "image_url",
				ImageURL: &ImageURL{URL: "data:image/jpeg;base64," + img},
			})
		}
		content = parts
	}

	profile := ChatProfileFor(model)
	substituted := false
	if len(images) > 0 && !profile.Vision {
		model = fallbackVisionModel
		substituted = true
	}

	body, err := json.Marshal(map[string]any{
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
		"max_tokens":  chatMaxTokens,
		"temperature": chatTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	return &ChatCall{
		Call: Call{
			URL:        fmt.Sprintf("%s/openai/deployments/%s/chat/completions", strings.TrimRight(endpoint, "/"), model),
			APIVersion: profile.APIVersion,
			Body:       body,
		},
		Model:       model,
		Substituted: substituted,
	}, nil
}

// BuildImage constructs the image-generation request for a generate-image
// task. sourceImage, when non-empty, is a base64-encoded attachment; if the
// model family supports edit mode the call switches to the /images/edits
// endpoint with the source image embedded in the body, otherwise the source
// is ignored.
func BuildImage(endpoint, model, prompt, sourceImage string) (*ImageCall, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrNoInstructions
	}

	profile := ImageProfileFor(model)

	payload := map[string]any{
		"prompt": prompt,
		"model":  model,
		"n":      1,
		"size":   profile.Size,
	}
	if profile.Quality != "" {
		payload["quality"] = profile.Quality
	}
	if profile.Style != "" {
		payload["style"] = profile.Style
	}
	if profile.ResponseFormat != "" {
		payload["response_format"] = profile.ResponseFormat
	}
	if profile.OutputFormat != "" {
		payload["output_format"] = profile.OutputFormat
		payload["output_compression"] = profile.OutputCompression
	}

	operation := "generations"
	editMode := false
	if sourceImage != "" && profile.SupportsEdit {
		operation = "edits"
		editMode = true
		payload["image"] = sourceImage
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	return &ImageCall{
		Call: Call{
			URL:        fmt.Sprintf("%s/openai/deployments/%s/images/%s", strings.TrimRight(endpoint, "/"), model, operation),
			APIVersion: profile.APIVersion,
			Body:       body,
		},
		Profile:  profile,
		Prompt:   prompt,
		EditMode: editMode,
	}, nil
}
