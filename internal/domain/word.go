package domain

import (
	"strings"
	"time"
)

// WordCard is the persisted enrichment cache entry for a single dictionary
// word, keyed by the opaque id assigned by the base dictionary (vc_id).
//
// Every field except VCID follows the monotonic-fill discipline: once a field
// holds a non-empty value it is never replaced by a later, possibly-empty or
// lower-priority value. Empty strings mean "not yet known".
type WordCard struct {
	VCID string

	// Word is the canonical display form; may differ in casing from the
	// caller's input.
	Word string

	PhoneticUS string
	PhoneticUK string

	// Translation is the formatted display string produced by
	// FormatTranslation. RawTranslation keeps the unformatted source text so
	// the display form can be rebuilt without re-fetching.
	Translation    string
	RawTranslation string

	Example  string
	ImageURL string
	AudioUS  string
	AudioUK  string

	// Source is a provenance tag of the dominant data source, for reporting
	// only.
	Source string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasField reports whether a value counts as present: non-empty after
// trimming.
func HasField(v string) bool {
	return strings.TrimSpace(v) != ""
}

// Complete reports whether all fields tracked by the enrichment pipeline are
// present. A complete card is served from cache without any external calls.
func (c *WordCard) Complete() bool {
	return HasField(c.AudioUS) &&
		HasField(c.AudioUK) &&
		HasField(c.Example) &&
		HasField(c.ImageURL) &&
		HasField(c.Translation)
}
