package ports

import (
	"context"
	"io"
	"time"

	"memebrowser/domain/core/entities"
	"memebrowser/domain/core/valueobjects"
)

// RecordStore gives raw access to meme records and their images.
// This is a port in hexagonal architecture - the engine never sees directories.
type RecordStore interface {
	// ReadRecord returns the stored bytes of a record, or a NotFound error
	ReadRecord(ctx context.Context, id valueobjects.MemeID) ([]byte, error)

	// OpenImage opens an image by file name for streaming, or returns a NotFound error
	OpenImage(ctx context.Context, name string) (*Image, error)
}

// IndexEnumerator derives the identifier index
type IndexEnumerator interface {
	// ListIDs returns every valid record id in ascending order
	ListIDs(ctx context.Context) ([]valueobjects.MemeID, error)
}

// MemeStore is the full read-only store the search engine runs against
type MemeStore interface {
	RecordStore
	IndexEnumerator
}

// Image is an open image asset. Callers must close it.
type Image struct {
	io.ReadCloser
	Name    string
	Size    int64
	ModTime time.Time
}

// SkipRecorder observes records dropped by best-effort loading
type SkipRecorder interface {
	RecordSkipped(reason string)
	RecordLoaded(count int)
}

// RecordDecoder turns stored record bytes into meme fields
type RecordDecoder interface {
	Decode(data []byte) (entities.MemeRecord, error)
}

// SearchSettings supplies tunables that may change between requests
type SearchSettings interface {
	MatchThreshold() float64
}
