package azure

import (
	"strconv"
	"strings"
)

// API versions pinned per model family.
const (
	apiVersionChat     = "2024-02-15-preview"
	apiVersionImage    = "2024-10-21"
	apiVersionGPTImage = "2025-04-01-preview"
)

// fallbackVisionModel is substituted when a task carries image attachments
// but the configured chat model does not accept image input.
const fallbackVisionModel = "gpt-4o"

// ChatProfile describes how to address a chat deployment.
type ChatProfile struct {
	APIVersion string
	Vision     bool // accepts image_url content parts
}

// ChatProfileFor returns the profile for a chat model name. Vision capability
// is derived from the model family; unknown families are treated as text-only
// so attachments trigger the vision fallback instead of a malformed request.
func ChatProfileFor(model string) ChatProfile {
	return ChatProfile{
		APIVersion: apiVersionChat,
		Vision:     strings.HasPrefix(model, "gpt-4"),
	}
}

// ImageFamily tags the recognized image-generation model families.
type ImageFamily string

const (
	FamilyGPTImage ImageFamily = "gpt-image-1"
	FamilyDallE3   ImageFamily = "dall-e-3"
	FamilyDallE2   ImageFamily = "dall-e-2"
	FamilyGeneric  ImageFamily = "generic"
)

// ImageProfile describes the payload defaults and addressing rules for one
// image-generation model family. Zero-valued fields are omitted from the
// outbound body.
type ImageProfile struct {
	Family            ImageFamily
	APIVersion        string
	Size              string
	Quality           string
	Style             string
	ResponseFormat    string
	OutputFormat      string
	OutputCompression int
	SupportsEdit      bool // /images/edits with a base64 source image
}

var imageProfiles = map[ImageFamily]ImageProfile{
	FamilyGPTImage: {
		Family:            FamilyGPTImage,
		APIVersion:        apiVersionGPTImage,
		Size:              "1024x1024",
		Quality:           "high",
		OutputFormat:      "png",
		OutputCompression: 100,
		// gpt-image-1 always returns base64, no response_format needed.
		SupportsEdit: true,
	},
	FamilyDallE3: {
		Family:         FamilyDallE3,
		APIVersion:     apiVersionImage,
		Size:           "1024x1024",
		Quality:        "standard",
		Style:          "vivid",
		ResponseFormat: "b64_json",
	},
	FamilyDallE2: {
		Family:         FamilyDallE2,
		APIVersion:     apiVersionImage,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	},
	FamilyGeneric: {
		Family:     FamilyGeneric,
		APIVersion: apiVersionImage,
		Size:       "1024x1024",
		Quality:    "standard",
	},
}

// ImageProfileFor returns the profile for an image model name, matching
// exactly or by family prefix. Unrecognized names fall back to the generic
// profile rather than failing.
func ImageProfileFor(model string) ImageProfile {
	for _, family := range []ImageFamily{FamilyGPTImage, FamilyDallE3, FamilyDallE2} {
		if model == string(family) || strings.HasPrefix(model, string(family)+"-") {
			return imageProfiles[family]
		}
	}
	return imageProfiles[FamilyGeneric]
}

// MimeType returns the MIME type of images produced under this profile.
func (p ImageProfile) MimeType() string {
	if p.OutputFormat != "" {
		return "image/" + p.OutputFormat
	}
	// DALL-E models return PNG.
	return "image/png"
}

// Dimensions parses the profile's size string back apart into width and
// height, defaulting to 1024x1024 when the string is malformed.
func (p ImageProfile) Dimensions() (width, height int) {
	width, height = 1024, 1024
	parts := strings.Split(p.Size, "x")
	if len(parts) != 2 {
		return width, height
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 1024, 1024
	}
	return w, h
}
