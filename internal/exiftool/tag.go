package exiftool

import "strings"

const (
	// FileNameTag is the tag whose value is replaced with the caller's
	// original file name, since exiftool may only have seen a temp copy.
	FileNameTag = "File Name"

	binaryMarker       = "use -b option to extract"
	binaryMarkerSuffix = ", " + binaryMarker
)

// Tag is one metadata entry reported by exiftool.
//
// JSON field names match the export format consumed by existing files.
type Tag struct {
	Index int    `json:"Index,omitempty"`
	ID    string `json:"TagId,omitempty"`
	Group string `json:"TagGroup,omitempty"`
	Name  string `json:"TagName,omitempty"`
	Value string `json:"TagValue,omitempty"`
}

// Extractable reports whether exiftool flagged the value as a binary payload
// that must be pulled out with ExtractTag.
func (t Tag) Extractable() bool {
	return strings.Contains(strings.ToLower(t.Value), binaryMarker)
}

// DisplayValue returns the value with the binary extraction hint removed,
// e.g. "(Binary data 5120 bytes)".
func (t Tag) DisplayValue() string {
	if idx := strings.Index(strings.ToLower(t.Value), binaryMarkerSuffix); idx >= 0 {
		return t.Value[:idx] + t.Value[idx+len(binaryMarkerSuffix):]
	}
	return t.Value
}
