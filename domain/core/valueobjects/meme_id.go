package valueobjects

import (
	"fmt"
	"strconv"
	"strings"

	"memebrowser/domain/config"
)

var recordFormat = config.DefaultDomainConfig()

// MemeID is the storage key of a meme record: the unsigned integer in its file name.
// It is never shown to clients as is; see DisplayID.
type MemeID struct {
	value uint64
}

// NewMemeID creates a MemeID from its numeric value
func NewMemeID(value uint64) MemeID {
	return MemeID{value: value}
}

// ParseMemeID parses a decimal storage key
func ParseMemeID(s string) (MemeID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return MemeID{}, fmt.Errorf("invalid meme id %q: %w", s, err)
	}
	return MemeID{value: v}, nil
}

// MemeIDFromFileName extracts the storage key from a record file name such as "42.json".
// Names with another extension, a non-numeric stem or a non-canonical stem
// ("007.json") are rejected, so every accepted name is the FileName of its id.
func MemeIDFromFileName(name string) (MemeID, bool) {
	ext := recordFormat.RecordExtension
	if !strings.HasSuffix(name, ext) {
		return MemeID{}, false
	}
	stem := strings.TrimSuffix(name, ext)
	id, err := ParseMemeID(stem)
	if err != nil || id.String() != stem {
		return MemeID{}, false
	}
	return id, true
}

// Value returns the numeric storage key
func (id MemeID) Value() uint64 {
	return id.value
}

// String returns the decimal form of the storage key
func (id MemeID) String() string {
	return strconv.FormatUint(id.value, 10)
}

// FileName returns the record file name for this id
func (id MemeID) FileName() string {
	return id.String() + recordFormat.RecordExtension
}

// DisplayID returns the client-facing id, the storage key prefixed with the marker
func (id MemeID) DisplayID() string {
	return recordFormat.DisplayIDMarker + id.String()
}

// Less orders ids numerically
func (id MemeID) Less(other MemeID) bool {
	return id.value < other.value
}

// Equals checks if two MemeIDs are equal
func (id MemeID) Equals(other MemeID) bool {
	return id.value == other.value
}
