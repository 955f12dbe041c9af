package handlers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"memebrowser/application/services"
	"memebrowser/domain/core/valueobjects"
	"memebrowser/infrastructure/persistence/filesystem"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedThreshold float64

func (f fixedThreshold) MatchThreshold() float64 { return float64(f) }

type testMeme struct {
	id    uint64
	title string
	tags  []string
}

// newFixtureStore writes one record per meme and returns a store over them
func newFixtureStore(t *testing.T, memes ...testMeme) *filesystem.RecordStore {
	t.Helper()
	store, err := filesystem.NewRecordStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	for _, m := range memes {
		tags := m.tags
		if tags == nil {
			tags = []string{}
		}
		data, err := json.Marshal(map[string]any{
			"id":           strconv.FormatUint(m.id, 10),
			"title":        m.title,
			"imageUrl":     strconv.FormatUint(m.id, 10) + ".png",
			"originalText": "original " + m.title,
			"content":      "content " + m.title,
			"tags":         tags,
			"createdAt":    "2024-01-01T00:00:00Z",
		})
		require.NoError(t, err)
		writeRecord(t, store, m.id, string(data))
	}
	return store
}

func writeRecord(t *testing.T, store *filesystem.RecordStore, id uint64, content string) {
	t.Helper()
	writeRecordFile(t, store, valueobjects.NewMemeID(id).FileName(), content)
}

func writeRecordFile(t *testing.T, store *filesystem.RecordStore, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(store.Layout().Records, name), []byte(content), 0o644))
}

func newTestLoader(store *filesystem.RecordStore) *services.MemeLoader {
	return services.NewMemeLoader(store, filesystem.NewJSONRecordCodec(), nil, 4, zap.NewNop())
}

func titled(id uint64, tags ...string) testMeme {
	return testMeme{id: id, title: "meme " + strconv.FormatUint(id, 10), tags: tags}
}

// MockIndexEnumerator is a mock implementation of ports.IndexEnumerator
type MockIndexEnumerator struct {
	mock.Mock
}

func (m *MockIndexEnumerator) ListIDs(ctx context.Context) ([]valueobjects.MemeID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]valueobjects.MemeID), args.Error(1)
}
