// Package provider defines the neutral result shape shared by all external
// dictionary/translation/image adapters. Each adapter translates its own API
// payload into a LexicalResult; the enrichment service never sees a raw
// provider schema.
package provider

// LexicalResult is the capability struct an adapter fills with whatever subset
// of fields its source can supply in one round trip. Empty string means the
// source had nothing for that field.
type LexicalResult struct {
	// Word is the canonical spelling reported by the source; may differ in
	// casing from the query.
	Word string

	PhoneticUS string
	PhoneticUK string

	// RawTranslation is unformatted translation/definition text. Display
	// formatting happens downstream.
	RawTranslation string

	Example  string
	ImageURL string
	AudioUS  string
	AudioUK  string
}

// Empty reports whether the result carries no usable field at all.
func (r LexicalResult) Empty() bool {
	return r.Word == "" &&
		r.PhoneticUS == "" &&
		r.PhoneticUK == "" &&
		r.RawTranslation == "" &&
		r.Example == "" &&
		r.ImageURL == "" &&
		r.AudioUS == "" &&
		r.AudioUK == ""
}
