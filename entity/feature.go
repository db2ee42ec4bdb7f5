package entity

import "strings"

// Feature is a bitmask of entity capabilities, computed once from the
// configured models rather than probed at runtime.
type Feature uint32

const (
	// FeatureGenerateData: the entity can run generate-data tasks.
	FeatureGenerateData Feature = 1 << iota
	// FeatureGenerateImage: the entity can run generate-image tasks.
	FeatureGenerateImage
	// FeatureSupportAttachments: tasks may carry image attachments.
	FeatureSupportAttachments
)

// Has reports whether all bits of f are set.
func (f Feature) Has(want Feature) bool {
	return f&want == want
}

func (f Feature) String() string {
	var names []string
	if f.Has(FeatureGenerateData) {
		names = append(names, "generate-data")
	}
	if f.Has(FeatureGenerateImage) {
		names = append(names, "generate-image")
	}
	if f.Has(FeatureSupportAttachments) {
		names = append(names, "support-attachments")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// featuresFor derives the capability set from the configured models. A chat
// model enables data generation and attachments; an image model enables
// image generation.
func featuresFor(chatModel, imageModel string) Feature {
	var f Feature
	if chatModel != "" {
		f |= FeatureGenerateData | FeatureSupportAttachments
	}
	if imageModel != "" {
		f |= FeatureGenerateImage
	}
	return f
}
