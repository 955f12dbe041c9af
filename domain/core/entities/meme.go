package entities

import (
	"memebrowser/domain/core/valueobjects"
)

// Meme is an image with its captured text and tags.
// A Meme is immutable once constructed; decorations return a new value.
type Meme struct {
	id             valueobjects.MemeID
	title          string
	imageURL       string
	originalText   string
	recognizedText *string
	content        string
	tags           TagSet
	createdAt      string
}

// MemeRecord carries the stored fields of a meme, as decoded from a record
type MemeRecord struct {
	Title          string
	ImageURL       string
	OriginalText   string
	RecognizedText *string
	Content        string
	Tags           []string
	CreatedAt      string
}

// ReconstructMeme rebuilds a meme from its storage key and stored fields
func ReconstructMeme(id valueobjects.MemeID, record MemeRecord) *Meme {
	var recognized *string
	if record.RecognizedText != nil {
		text := *record.RecognizedText
		recognized = &text
	}

	return &Meme{
		id:             id,
		title:          record.Title,
		imageURL:       record.ImageURL,
		originalText:   record.OriginalText,
		recognizedText: recognized,
		content:        record.Content,
		tags:           NewTagSet(record.Tags...),
		createdAt:      record.CreatedAt,
	}
}

// ID returns the storage key
func (m *Meme) ID() valueobjects.MemeID { return m.id }

// DisplayID returns the client-facing id
func (m *Meme) DisplayID() string { return m.id.DisplayID() }

// Title returns the display title
func (m *Meme) Title() string { return m.title }

// ImageURL returns the image reference
func (m *Meme) ImageURL() string { return m.imageURL }

// OriginalText returns the source text as captured
func (m *Meme) OriginalText() string { return m.originalText }

// RecognizedText returns the text extracted from the image, if any
func (m *Meme) RecognizedText() (string, bool) {
	if m.recognizedText == nil {
		return "", false
	}
	return *m.recognizedText, true
}

// Content returns the body text
func (m *Meme) Content() string { return m.content }

// Tags returns the tag set
func (m *Meme) Tags() TagSet { return m.tags }

// CreatedAt returns the opaque creation timestamp
func (m *Meme) CreatedAt() string { return m.createdAt }

// HasTag reports whether the meme carries the tag
func (m *Meme) HasTag(tag string) bool {
	return m.tags.Contains(tag)
}

// HasAllTags reports whether the meme carries every given tag. No tags always matches.
func (m *Meme) HasAllTags(tags []string) bool {
	for _, tag := range tags {
		if !m.tags.Contains(tag) {
			return false
		}
	}
	return true
}

// WithTags returns a copy of the meme with the extra tags added to its set
func (m *Meme) WithTags(tags ...string) *Meme {
	clone := *m
	clone.tags = m.tags.With(tags...)
	return &clone
}
