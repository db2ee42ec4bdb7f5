package task

import "strings"

// Media-source URI schemes recognized in attachment references.
const (
	CameraSourcePrefix = "media-source://camera/"
	MediaSourcePrefix  = "media-source://media_source/"
	LocalMediaPrefix   = "/media/local/"
)

// Attachment is a polymorphic reference to image media associated with a
// task. Exactly which fields are populated depends on where the reference
// came from:
//
//   - MediaContentID: a media-source URI (camera or media library), a local
//     media path, or a direct URL.
//   - MediaContentType: the declared MIME type, when known.
//   - Path: an explicit local filesystem path.
//   - Data: inline image bytes, already in hand.
//
// Resolution to bytes is the attachment package's job; these accessors only
// classify the reference.
type Attachment struct {
	MediaContentID   string `json:"media_content_id,omitempty"`
	MediaContentType string `json:"media_content_type,omitempty"`
	Path             string `json:"path,omitempty"`
	Data             []byte `json:"data,omitempty"`
}

// CameraEntityID returns the camera entity ID encoded in the reference,
// or "" when the reference is not a camera source.
func (a *Attachment) CameraEntityID() string {
	if !strings.HasPrefix(a.MediaContentID, CameraSourcePrefix) {
		return ""
	}
	return strings.TrimPrefix(a.MediaContentID, CameraSourcePrefix)
}

// IsMediaSource reports whether the reference denotes a media-library item
// or a local media path.
func (a *Attachment) IsMediaSource() bool {
	return strings.HasPrefix(a.MediaContentID, MediaSourcePrefix) ||
		strings.HasPrefix(a.MediaContentID, LocalMediaPrefix) ||
		strings.Contains(a.MediaContentID, "local/")
}

// IsImageURL reports whether the reference's declared media type marks it as
// a directly fetchable image URL.
func (a *Attachment) IsImageURL() bool {
	return strings.HasPrefix(a.MediaContentType, "image/")
}

// LocalFilename extracts the bare filename from a local media reference,
// or "" when none can be determined.
func (a *Attachment) LocalFilename() string {
	id := a.MediaContentID
	switch {
	case strings.Contains(id, MediaSourcePrefix+"local/"):
		parts := strings.SplitN(id, MediaSourcePrefix+"local/", 2)
		return parts[1]
	case strings.Contains(id, LocalMediaPrefix):
		parts := strings.SplitN(id, LocalMediaPrefix, 2)
		return parts[1]
	}
	return ""
}
