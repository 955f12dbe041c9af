package filesystem

import (
	"encoding/json"
	"fmt"

	"memebrowser/domain/core/entities"
)

// jsonMeme is the on-disk record document. The stored "id" is ignored;
// the storage key is the file name.
type jsonMeme struct {
	ID             *string   `json:"id"`
	Title          *string   `json:"title"`
	ImageURL       *string   `json:"imageUrl"`
	OriginalText   *string   `json:"originalText"`
	RecognizedText *string   `json:"recognizedText"`
	Content        *string   `json:"content"`
	Tags           *[]string `json:"tags"`
	CreatedAt      *string   `json:"createdAt"`
}

// JSONRecordCodec decodes meme record documents
type JSONRecordCodec struct{}

// NewJSONRecordCodec creates a record codec
func NewJSONRecordCodec() *JSONRecordCodec {
	return &JSONRecordCodec{}
}

// Decode parses a record. Every field except recognizedText must be present.
func (JSONRecordCodec) Decode(data []byte) (entities.MemeRecord, error) {
	var doc jsonMeme
	if err := json.Unmarshal(data, &doc); err != nil {
		return entities.MemeRecord{}, err
	}

	required := []struct {
		name    string
		present bool
	}{
		{"title", doc.Title != nil},
		{"imageUrl", doc.ImageURL != nil},
		{"originalText", doc.OriginalText != nil},
		{"content", doc.Content != nil},
		{"tags", doc.Tags != nil},
		{"createdAt", doc.CreatedAt != nil},
	}
	for _, field := range required {
		if !field.present {
			return entities.MemeRecord{}, fmt.Errorf("missing field %q", field.name)
		}
	}

	return entities.MemeRecord{
		Title:          *doc.Title,
		ImageURL:       *doc.ImageURL,
		OriginalText:   *doc.OriginalText,
		RecognizedText: doc.RecognizedText,
		Content:        *doc.Content,
		Tags:           *doc.Tags,
		CreatedAt:      *doc.CreatedAt,
	}, nil
}
