package azure

import "errors"

// Sentinel errors for task dispatch and the remote service.
var (
	// ErrNoModelConfigured: the entity has no model suitable for the
	// requested operation. Raised before any network I/O.
	ErrNoModelConfigured = errors.New("no model configured")

	// ErrNoInstructions: the task carried no prompt text.
	ErrNoInstructions = errors.New("no task instructions found")

	// ErrAuthentication: the service rejected the API key (HTTP 401).
	ErrAuthentication = errors.New("authentication failed - check your API key")

	// ErrDeploymentNotFound: no deployment by that name (HTTP 404).
	ErrDeploymentNotFound = errors.New("deployment not found - check your deployment name")

	// ErrContentFilter: the request or response was blocked by moderation.
	ErrContentFilter = errors.New("blocked by content filter")

	// ErrResponseShape: the response body was missing expected fields.
	ErrResponseShape = errors.New("unexpected response format")

	// ErrStructuredParse: a structured task's response text was not valid JSON.
	ErrStructuredParse = errors.New("structured response is not valid JSON")
)
