package azure

import (
	"encoding/json"
	"fmt"
	"strings"
)

// chatResponse mirrors the chat-completions response shape. Only the fields
// this integration reads are declared.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

// imageResponse mirrors the images API response shape.
type imageResponse struct {
	Data []struct {
		B64JSON       string `json:"b64_json,omitempty"`
		URL           string `json:"url,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Err maps an API error object to the taxonomy.
func (e *apiError) Err() error {
	if e.Code == "contentFilter" || strings.Contains(e.Message, "content filter") {
		return fmt.Errorf("%w: %s", ErrContentFilter, e.Message)
	}
	return fmt.Errorf("API error [%s]: %s", e.Code, e.Message)
}

// unmarshalResponse decodes a response body, mapping decode failures to
// ErrResponseShape.
func unmarshalResponse(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseShape, err)
	}
	return nil
}

// parseChat extracts choices[0].message.content from a chat response body.
func parseChat(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseShape, err)
	}
	if resp.Error != nil {
		return "", resp.Error.Err()
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrResponseShape)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// StripCodeFence removes surrounding markdown code-fence markers from a
// model response, including an optional language tag on the opening fence.
// Text without a fence is returned unchanged.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		// Drop the language tag line (e.g. "json").
		firstLine := strings.TrimSpace(trimmed[:nl])
		if firstLine == "" || !strings.ContainsAny(firstLine, " \t{[") {
			trimmed = trimmed[nl+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// DecodeStructured parses a structured task's response text as JSON,
// stripping any surrounding code fence first.
func DecodeStructured(text string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructuredParse, err)
	}
	return value, nil
}
